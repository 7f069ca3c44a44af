package scene

// Vec3 is a 3-component vector in the renderer's coordinate system. Layers
// stack downward along -z with the top face of the device at z = 0.
type Vec3 [3]float64

// Color is an RGBFT tuple. Filter and Transmit mirror the ray tracer's
// transparency terms and default to zero.
type Color struct {
	R, G, B  float64
	Filter   float64
	Transmit float64
}

// RGB builds an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Camera styles supported by the builder. Other style strings pass through to
// the backend unchanged, matching the upstream tool's permissiveness.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Camera places the viewpoint. Angle only applies to orthographic cameras.
type Camera struct {
	Style    string
	Angle    float64
	Location Vec3
	LookAt   Vec3
	Up       Vec3
	Right    Vec3
	Sky      Vec3
}

// Light is a point light source.
type Light struct {
	Position   Vec3
	Color      Color
	Shadowless bool
}

// Scene is the ordered, backend-agnostic description handed to a render
// backend. Cell holds the device unit cell statements in input order; Tiling
// holds the translations at which the cell is instanced; Extras holds
// statements outside the replicated cell (such as the edge buffer slab).
type Scene struct {
	Background Color
	Camera     Camera
	Lights     []Light
	Cell       []Object
	Tiling     []Vec3
	Extras     []Object
}

// ObjectCount returns the number of statements in the unit cell, excluding
// the substrate slab appended by the builder.
func (s *Scene) ObjectCount() int {
	n := len(s.Cell)
	if n > 0 {
		if _, ok := s.Cell[n-1].(Box); ok {
			n--
		}
	}
	return n
}

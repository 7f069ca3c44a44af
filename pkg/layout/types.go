package layout

import "strings"

// ShapeKind enumerates the primitive footprints the external layout schema can
// declare for a layer shape.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeRectangle ShapeKind = "rectangle"
	ShapePolygon   ShapeKind = "polygon"
)

// Shape is one normalized entry from a layer's shape list. Circles carry
// Radius; ellipses and rectangles carry Halfwidths plus an in-plane rotation
// Angle in degrees; polygons carry Points. Values are immutable once parsed.
type Shape struct {
	Kind     ShapeKind
	Material string

	Center     [2]float64
	Radius     float64
	Halfwidths [2]float64
	Angle      float64
	Points     [][2]float64
}

// IsVacuum reports whether the shape describes a hole rather than solid
// material. The upstream tool marks holes by material, not by kind.
func (s Shape) IsVacuum() bool {
	return strings.EqualFold(strings.TrimSpace(s.Material), "vacuum")
}

// Layer is one device layer: an ordered shape list extruded to Thickness.
type Layer struct {
	Thickness float64
	Shapes    []Shape
}

// LatticeVectors hold the in-plane unit cell vectors.
type LatticeVectors struct {
	A [2]float64
	B [2]float64
}

// Substrate describes the supporting slab below the device layers.
type Substrate struct {
	Thickness  float64
	Background string
}

// DeviceModel is the normalized representation of one device entry. Layers
// preserve the input order of the document; so do the shapes within a layer.
type DeviceModel struct {
	ID        string
	Layers    []Layer
	Lattice   LatticeVectors
	Substrate Substrate

	// Raw retains the decoded entry for ad-hoc queries (see pkg/inspect).
	Raw map[string]any
}

// SolidShapeCount returns the number of non-vacuum shapes across all layers.
// Each of these maps to exactly one object statement in a built scene.
func (m DeviceModel) SolidShapeCount() int {
	n := 0
	for _, layer := range m.Layers {
		for _, shape := range layer.Shapes {
			if !shape.IsVacuum() {
				n++
			}
		}
	}
	return n
}

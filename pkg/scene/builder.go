package scene

import (
	"math"

	"github.com/goliatone/go-scenegen/pkg/layout"
)

// siloEndPadding extends hole extrusions past the faces of the shape they
// perforate so the subtraction cuts cleanly through both ends.
const siloEndPadding = 0.001

// minSubstrateThickness is the floor applied to the substrate slab.
const minSubstrateThickness = 1.0

// Default material colors keyed by the layout's material tags.
var defaultColors = map[string]Color{
	"subst": RGB(0.15, 0.15, 0.15),
	"Si":    RGB(0.2, 0.2, 0.2),
	"SiO2":  RGB(0.99, 0.99, 0.96),
}

// fallbackColor is used for materials without a default entry when default
// coloring is requested.
var fallbackColor = RGB(0.5, 0.5, 0.5)

// substrateMaterial tags the slab the builder appends below the device.
const substrateMaterial = "subst"

// Options configure how a DeviceModel becomes a Scene. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	CameraStyle  string
	CameraRotate float64
	OrthoAngle   float64

	// CameraLocation, LookAt, and LightLocation are guessed from the device
	// extents when any of the three is nil.
	CameraLocation *Vec3
	LookAt         *Vec3
	LightLocation  *Vec3

	Up    Vec3
	Right Vec3
	Sky   Vec3

	Background Color
	Shadowless bool

	UnitCellsX    int
	UnitCellsY    int
	AddEdgeBuffer bool

	// UseDefaultColors selects pigments from the material tag; when false the
	// CustomColors slice is cycled across statements instead.
	UseDefaultColors bool
	CustomColors     []Color

	Finish       string
	CustomFinish string
	IOR          float64
}

// DefaultOptions mirrors the upstream tool's defaults.
func DefaultOptions() Options {
	return Options{
		CameraStyle:      CameraPerspective,
		CameraRotate:     60,
		OrthoAngle:       30,
		Up:               Vec3{0, 0, 1.33},
		Right:            Vec3{0, 1, 0},
		Sky:              Vec3{0, 0, 1.33},
		Background:       RGB(1, 1, 1),
		UnitCellsX:       5,
		UnitCellsY:       5,
		UseDefaultColors: true,
		CustomColors:     []Color{{R: 0, G: 0.667, B: 0.667}},
		Finish:           FinishDull,
		IOR:              1,
	}
}

// Build maps a device model onto a Scene: one statement per solid shape in
// input order, vacuum shapes folded into the preceding solid as subtraction
// holes, then the substrate slab, lattice tiling, and camera placement.
func Build(model layout.DeviceModel, opts Options) (*Scene, error) {
	b := &builder{opts: opts}
	return b.build(model)
}

type builder struct {
	opts Options

	dims       Vec3 // running device extents: max halfwidths in x/y, stacked depth in z
	colorIndex int
}

func (b *builder) build(model layout.DeviceModel) (*Scene, error) {
	sc := &Scene{Background: b.opts.Background}

	for li, layer := range model.Layers {
		top := -b.dims[2]
		bottom := top - layer.Thickness

		kinds := classifyShapes(layer.Shapes)

		for si, shape := range layer.Shapes {
			switch kinds[si] {
			case shapeVacuum:
				// consumed as a hole by the preceding solid

			case shapeSilo:
				outer, hw, err := b.primitive(shape, top, bottom, li, si)
				if err != nil {
					return nil, err
				}
				holes, err := b.holes(layer.Shapes, kinds, si+1, top, bottom, li)
				if err != nil {
					return nil, err
				}
				sc.Cell = append(sc.Cell, Difference{
					Outer:      outer,
					Holes:      holes,
					Appearance: b.appearance(shape.Material),
				})
				b.growXY(hw)

			case shapeSolid:
				obj, hw, err := b.primitive(shape, top, bottom, li, si)
				if err != nil {
					return nil, err
				}
				obj = withAppearance(obj, b.appearance(shape.Material))
				sc.Cell = append(sc.Cell, obj)
				b.growXY(hw)
			}
		}

		b.dims[2] += layer.Thickness
	}

	b.addSubstrate(sc, model)

	b.tile(sc, model)

	if b.opts.AddEdgeBuffer {
		b.addEdgeBuffer(sc, model)
	}

	b.placeCamera(sc)

	return sc, nil
}

type shapeClass int

const (
	shapeSolid shapeClass = iota
	shapeVacuum
	shapeSilo
)

// classifyShapes marks vacuum entries and promotes any solid immediately
// followed by a vacuum to a silo, matching the upstream convention that the
// vacuum layers after a shape describe its holes.
func classifyShapes(shapes []layout.Shape) []shapeClass {
	kinds := make([]shapeClass, len(shapes))
	for i, s := range shapes {
		if s.IsVacuum() {
			kinds[i] = shapeVacuum
		}
	}
	for i := 0; i+1 < len(shapes); i++ {
		if kinds[i] == shapeSolid && kinds[i+1] == shapeVacuum {
			kinds[i] = shapeSilo
		}
	}
	return kinds
}

// primitive maps one shape onto a scene object spanning [bottom, top] and
// returns the halfwidth extents used for dimension tracking.
func (b *builder) primitive(shape layout.Shape, top, bottom float64, layer, index int) (Object, [2]float64, error) {
	switch shape.Kind {
	case layout.ShapeCircle:
		return Cylinder{
			Center: shape.Center,
			Top:    top,
			Bottom: bottom,
			Radius: shape.Radius,
		}, [2]float64{shape.Radius, shape.Radius}, nil

	case layout.ShapeEllipse:
		return Ellipse{
			Center:     shape.Center,
			Top:        top,
			Bottom:     bottom,
			Halfwidths: shape.Halfwidths,
			Angle:      shape.Angle,
		}, shape.Halfwidths, nil

	case layout.ShapeRectangle:
		return Rectangle{
			Center:     shape.Center,
			Top:        top,
			Bottom:     bottom,
			Halfwidths: shape.Halfwidths,
			Angle:      shape.Angle,
		}, shape.Halfwidths, nil

	default:
		return nil, [2]float64{}, &FormatError{Kind: string(shape.Kind), Layer: layer, Index: index}
	}
}

// holes collects the run of vacuum shapes starting at index start, extruded
// slightly past the faces they perforate.
func (b *builder) holes(shapes []layout.Shape, kinds []shapeClass, start int, top, bottom float64, layer int) ([]Object, error) {
	holeTop := top + siloEndPadding
	holeBottom := bottom - siloEndPadding

	var out []Object
	for j := start; j < len(shapes) && kinds[j] == shapeVacuum; j++ {
		hole, _, err := b.primitive(shapes[j], holeTop, holeBottom, layer, j)
		if err != nil {
			return nil, err
		}
		out = append(out, hole)
	}
	return out, nil
}

func (b *builder) appearance(material string) *Appearance {
	app := &Appearance{
		Finish:       b.opts.Finish,
		CustomFinish: b.opts.CustomFinish,
		IOR:          b.opts.IOR,
	}
	if app.Finish == FinishMaterial {
		app.Finish = material
	}

	if b.opts.UseDefaultColors {
		color, ok := defaultColors[material]
		if !ok {
			color = fallbackColor
		}
		app.Pigment = color
		return app
	}

	palette := b.opts.CustomColors
	if len(palette) == 0 {
		palette = DefaultOptions().CustomColors
	}
	app.Pigment = palette[b.colorIndex%len(palette)]
	b.colorIndex++
	return app
}

func (b *builder) substrateAppearance() *Appearance {
	return &Appearance{Pigment: defaultColors[substrateMaterial], Finish: FinishDull}
}

func (b *builder) growXY(hw [2]float64) {
	b.dims[0] = math.Max(b.dims[0], hw[0])
	b.dims[1] = math.Max(b.dims[1], hw[1])
}

func (b *builder) addSubstrate(sc *Scene, model layout.DeviceModel) {
	thickness := math.Max(minSubstrateThickness, model.Substrate.Thickness)
	hx := 0.5 * model.Lattice.A[0]
	hy := 0.5 * model.Lattice.B[1]

	top := -b.dims[2]
	bottom := top - thickness

	sc.Cell = append(sc.Cell, Box{
		Min:        Vec3{-hx, -hy, bottom},
		Max:        Vec3{hx, hy, top},
		Appearance: b.substrateAppearance(),
	})

	b.growXY([2]float64{hx, hy})
	b.dims[2] += thickness
}

// tile instances the unit cell over the lattice grid, shifted so the original
// cell sits roughly in the center.
func (b *builder) tile(sc *Scene, model layout.DeviceModel) {
	nx := b.opts.UnitCellsX
	ny := b.opts.UnitCellsY
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}

	adjX := centerShift(nx)
	adjY := centerShift(ny)

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			sc.Tiling = append(sc.Tiling, Vec3{
				float64(i-adjX) * model.Lattice.A[0],
				float64(j-adjY) * model.Lattice.B[1],
				0,
			})
		}
	}

	// Cap how far out the camera moves when the cell is replicated.
	b.dims[0] *= math.Min(5, float64(nx))
	b.dims[1] *= math.Min(5, float64(ny))
	b.dims[2] *= 2
}

// centerShift sends half of the replicated rows backward so one row stays at
// the origin: subtract the origin row, subtract again for odd counts, halve.
func centerShift(n int) int {
	return (n - (1 + (n-1)%2)) / 2
}

// addEdgeBuffer appends a wide slab level with the substrate to reduce
// background washout at the device edges.
func (b *builder) addEdgeBuffer(sc *Scene, model layout.DeviceModel) {
	nx := b.opts.UnitCellsX
	ny := b.opts.UnitCellsY
	adjX := centerShift(nx)
	adjY := centerShift(ny)

	ax := model.Lattice.A[0]
	by := model.Lattice.B[1]

	minX := -(float64(adjX) + 1.5) * ax
	maxX := (float64(nx-adjX) + 0.5) * ax
	minY := -(float64(adjY) + 1.5) * by
	maxY := (float64(ny-adjY) + 0.5) * by

	// Level with the substrate slab: dims[2] was doubled when tiling, so the
	// original stacked depth is half of it.
	depth := b.dims[2] / 2
	thickness := math.Max(minSubstrateThickness, model.Substrate.Thickness)
	top := -(depth - thickness)
	bottom := -depth

	sc.Extras = append(sc.Extras, Box{
		Min:        Vec3{minX, minY, bottom},
		Max:        Vec3{maxX, maxY, top},
		Appearance: b.substrateAppearance(),
	})
}

func (b *builder) placeCamera(sc *Scene) {
	style := b.opts.CameraStyle
	if style == "" {
		style = CameraPerspective
	}

	camera := Camera{
		Style: style,
		Up:    b.opts.Up,
		Right: b.opts.Right,
		Sky:   b.opts.Sky,
	}
	if style == CameraOrthographic {
		camera.Angle = b.opts.OrthoAngle
	}

	var lightLoc Vec3
	if b.opts.CameraLocation == nil || b.opts.LookAt == nil || b.opts.LightLocation == nil {
		camera.Location, camera.LookAt, lightLoc = GuessCamera(b.dims, style, b.opts.CameraRotate, [2]float64{0, 0})
	} else {
		camera.Location = *b.opts.CameraLocation
		camera.LookAt = *b.opts.LookAt
		lightLoc = *b.opts.LightLocation
	}

	sc.Camera = camera
	sc.Lights = append(sc.Lights, Light{
		Position:   lightLoc,
		Color:      RGB(1, 1, 1),
		Shadowless: b.opts.Shadowless,
	})
}

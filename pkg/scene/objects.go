package scene

// Object is one statement in a scene description. The concrete types below
// are the full vocabulary the builder emits; backends type-switch over them
// and reject anything they cannot express with a FormatError.
type Object interface {
	isObject()
}

// Appearance bundles the surface properties attached to a statement. Nested
// objects inside a Difference carry no appearance of their own.
type Appearance struct {
	Pigment Color
	// Finish names one of the Finish* presets; FinishCustom uses CustomFinish
	// verbatim in the backend's grammar.
	Finish       string
	CustomFinish string
	// IOR only applies to the translucent finish.
	IOR float64
}

// Finish presets. FinishMaterial resolves to the finish named after the
// shape's material tag, falling back to dull.
const (
	FinishDull        = "dull"
	FinishMaterial    = "material"
	FinishSilicon     = "Si"
	FinishSilica      = "SiO2"
	FinishTranslucent = "translucent"
	FinishGlass       = "glass"
	FinishDullMetal   = "dull_metal"
	FinishBrightMetal = "bright_metal"
	FinishIrid        = "irid"
	FinishBilliard    = "billiard"
	FinishCustom      = "custom"
)

// Cylinder is a circular footprint extruded from Top down to Bottom.
type Cylinder struct {
	Center     [2]float64
	Top        float64
	Bottom     float64
	Radius     float64
	Appearance *Appearance
}

func (Cylinder) isObject() {}

// Ellipse is an elliptical footprint extruded from Top down to Bottom and
// rotated Angle degrees about z.
type Ellipse struct {
	Center     [2]float64
	Top        float64
	Bottom     float64
	Halfwidths [2]float64
	Angle      float64
	Appearance *Appearance
}

func (Ellipse) isObject() {}

// Rectangle is a rectangular footprint extruded from Top down to Bottom and
// rotated Angle degrees about z.
type Rectangle struct {
	Center     [2]float64
	Top        float64
	Bottom     float64
	Halfwidths [2]float64
	Angle      float64
	Appearance *Appearance
}

func (Rectangle) isObject() {}

// Box is an axis-aligned corner box. The builder uses it for the substrate
// and the optional edge buffer slab.
type Box struct {
	Min        Vec3
	Max        Vec3
	Appearance *Appearance
}

func (Box) isObject() {}

// Difference subtracts Holes from Outer, forming a perforated solid ("silo").
type Difference struct {
	Outer      Object
	Holes      []Object
	Appearance *Appearance
}

func (Difference) isObject() {}

// withAppearance returns a copy of obj carrying the given appearance.
func withAppearance(obj Object, app *Appearance) Object {
	switch o := obj.(type) {
	case Cylinder:
		o.Appearance = app
		return o
	case Ellipse:
		o.Appearance = app
		return o
	case Rectangle:
		o.Appearance = app
		return o
	case Box:
		o.Appearance = app
		return o
	case Difference:
		o.Appearance = app
		return o
	default:
		return obj
	}
}

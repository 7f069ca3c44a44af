package scene_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/scene"
	"github.com/goliatone/go-scenegen/pkg/testsupport"
)

func parseFixture(t *testing.T, f *testsupport.LayoutFixture) layout.DeviceModel {
	t.Helper()

	// Bypass the parser; the builder only needs the model.
	model := layout.DeviceModel{ID: layout.DefaultEntryID}
	model.Lattice.A = f.LatticeA
	model.Lattice.B = f.LatticeB
	model.Substrate.Thickness = f.SubThick
	for _, l := range f.Layers {
		layer := layout.Layer{Thickness: l.Thickness}
		for _, s := range l.Shapes {
			layer.Shapes = append(layer.Shapes, layout.Shape{
				Kind:       layout.ShapeKind(s.Kind),
				Material:   s.Material,
				Center:     s.Center,
				Radius:     s.Radius,
				Halfwidths: s.Halfwidths,
				Angle:      s.Angle,
			})
		}
		model.Layers = append(model.Layers, layer)
	}
	return model
}

func pillarFixture() *testsupport.LayoutFixture {
	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5,
		testsupport.LayoutShape{Kind: "circle", Material: "Si", Radius: 0.3},
	)
	f.AddLayer(1.0,
		testsupport.LayoutShape{Kind: "rectangle", Material: "SiO2", Halfwidths: [2]float64{0.4, 0.4}},
		testsupport.LayoutShape{Kind: "ellipse", Material: "Si", Halfwidths: [2]float64{0.2, 0.1}, Angle: 45},
	)
	return f
}

func TestBuildStatementPerSolidShape(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	sc, err := scene.Build(model, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	if got, want := sc.ObjectCount(), model.SolidShapeCount(); got != want {
		t.Fatalf("statement count = %d, want %d", got, want)
	}

	// Input order must survive: cylinder, box, ellipse, then the substrate.
	if _, ok := sc.Cell[0].(scene.Cylinder); !ok {
		t.Errorf("cell[0] = %T, want Cylinder", sc.Cell[0])
	}
	if _, ok := sc.Cell[1].(scene.Rectangle); !ok {
		t.Errorf("cell[1] = %T, want Rectangle", sc.Cell[1])
	}
	if _, ok := sc.Cell[2].(scene.Ellipse); !ok {
		t.Errorf("cell[2] = %T, want Ellipse", sc.Cell[2])
	}
	if _, ok := sc.Cell[3].(scene.Box); !ok {
		t.Errorf("cell[3] = %T, want substrate Box", sc.Cell[3])
	}
}

func TestBuildLayerStacking(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	sc, err := scene.Build(model, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	pillar := sc.Cell[0].(scene.Cylinder)
	if got, want := pillar.Top, 0.0; got != want {
		t.Errorf("first layer top = %g, want %g", got, want)
	}
	if got, want := pillar.Bottom, -0.5; got != want {
		t.Errorf("first layer bottom = %g, want %g", got, want)
	}

	slab := sc.Cell[1].(scene.Rectangle)
	if got, want := slab.Top, -0.5; got != want {
		t.Errorf("second layer top = %g, want %g", got, want)
	}
	if got, want := slab.Bottom, -1.5; got != want {
		t.Errorf("second layer bottom = %g, want %g", got, want)
	}

	substrate := sc.Cell[3].(scene.Box)
	if got, want := substrate.Max[2], -1.5; got != want {
		t.Errorf("substrate top = %g, want %g", got, want)
	}
	if got, want := substrate.Min[2], -3.5; got != want {
		t.Errorf("substrate bottom = %g, want %g", got, want)
	}
}

func TestBuildSiloFoldsVacuumShapes(t *testing.T) {
	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5,
		testsupport.LayoutShape{Kind: "circle", Material: "Si", Radius: 0.4},
		testsupport.LayoutShape{Kind: "circle", Material: "vacuum", Radius: 0.2},
		testsupport.LayoutShape{Kind: "circle", Material: "Vacuum", Radius: 0.1},
	)
	model := parseFixture(t, f)

	sc, err := scene.Build(model, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	if got, want := sc.ObjectCount(), 1; got != want {
		t.Fatalf("statement count = %d, want %d", got, want)
	}

	silo, ok := sc.Cell[0].(scene.Difference)
	if !ok {
		t.Fatalf("cell[0] = %T, want Difference", sc.Cell[0])
	}
	if got, want := len(silo.Holes), 2; got != want {
		t.Fatalf("hole count = %d, want %d", got, want)
	}

	// Holes extrude slightly past both faces so the subtraction cuts through.
	hole := silo.Holes[0].(scene.Cylinder)
	if hole.Top <= 0 {
		t.Errorf("hole top = %g, want > 0", hole.Top)
	}
	if hole.Bottom >= -0.5 {
		t.Errorf("hole bottom = %g, want < -0.5", hole.Bottom)
	}
}

func TestBuildUnknownKindFails(t *testing.T) {
	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5,
		testsupport.LayoutShape{Kind: "polygon", Material: "Si"},
	)
	model := parseFixture(t, f)

	_, err := scene.Build(model, scene.DefaultOptions())
	var formatErr *scene.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if formatErr.Kind != "polygon" {
		t.Errorf("error kind = %q, want polygon", formatErr.Kind)
	}
	if formatErr.Layer != 0 || formatErr.Index != 0 {
		t.Errorf("error location = layer %d shape %d, want 0 0", formatErr.Layer, formatErr.Index)
	}
}

func TestBuildSubstrateMinimumThickness(t *testing.T) {
	f := pillarFixture()
	f.SubThick = 0.01
	model := parseFixture(t, f)

	sc, err := scene.Build(model, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	substrate := sc.Cell[len(sc.Cell)-1].(scene.Box)
	if got, want := substrate.Max[2]-substrate.Min[2], 1.0; got != want {
		t.Errorf("substrate thickness = %g, want %g", got, want)
	}
}

func TestBuildTilingGrid(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	opts := scene.DefaultOptions()
	opts.UnitCellsX = 3
	opts.UnitCellsY = 2

	sc, err := scene.Build(model, opts)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	if got, want := len(sc.Tiling), 6; got != want {
		t.Fatalf("tiling count = %d, want %d", got, want)
	}

	// A 3x2 grid on a unit lattice centers one column at the origin.
	want := []scene.Vec3{
		{-1, 0, 0}, {-1, 1, 0},
		{0, 0, 0}, {0, 1, 0},
		{1, 0, 0}, {1, 1, 0},
	}
	if diff := cmp.Diff(want, sc.Tiling); diff != "" {
		t.Errorf("tiling mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDefaultColors(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	sc, err := scene.Build(model, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	pillar := sc.Cell[0].(scene.Cylinder)
	if got, want := pillar.Appearance.Pigment, scene.RGB(0.2, 0.2, 0.2); got != want {
		t.Errorf("Si pigment = %+v, want %+v", got, want)
	}
	slab := sc.Cell[1].(scene.Rectangle)
	if got, want := slab.Appearance.Pigment, scene.RGB(0.99, 0.99, 0.96); got != want {
		t.Errorf("SiO2 pigment = %+v, want %+v", got, want)
	}
}

func TestBuildCustomColorsCycle(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	opts := scene.DefaultOptions()
	opts.UseDefaultColors = false
	opts.CustomColors = []scene.Color{scene.RGB(1, 0, 0), scene.RGB(0, 1, 0)}

	sc, err := scene.Build(model, opts)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	colors := []scene.Color{
		sc.Cell[0].(scene.Cylinder).Appearance.Pigment,
		sc.Cell[1].(scene.Rectangle).Appearance.Pigment,
		sc.Cell[2].(scene.Ellipse).Appearance.Pigment,
	}
	want := []scene.Color{scene.RGB(1, 0, 0), scene.RGB(0, 1, 0), scene.RGB(1, 0, 0)}
	if diff := cmp.Diff(want, colors); diff != "" {
		t.Errorf("color cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEdgeBuffer(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	opts := scene.DefaultOptions()
	opts.AddEdgeBuffer = true

	sc, err := scene.Build(model, opts)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	if got, want := len(sc.Extras), 1; got != want {
		t.Fatalf("extras count = %d, want %d", got, want)
	}
	buffer := sc.Extras[0].(scene.Box)
	if buffer.Max[0] <= buffer.Min[0] || buffer.Max[1] <= buffer.Min[1] {
		t.Errorf("edge buffer has inverted extents: %+v", buffer)
	}
}

func TestBuildPinnedCamera(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	loc := scene.Vec3{5, 5, 5}
	look := scene.Vec3{0, 0, -1}
	light := scene.Vec3{10, 0, 10}

	opts := scene.DefaultOptions()
	opts.CameraLocation = &loc
	opts.LookAt = &look
	opts.LightLocation = &light

	sc, err := scene.Build(model, opts)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	if sc.Camera.Location != loc {
		t.Errorf("camera location = %v, want %v", sc.Camera.Location, loc)
	}
	if sc.Camera.LookAt != look {
		t.Errorf("look_at = %v, want %v", sc.Camera.LookAt, look)
	}
	if len(sc.Lights) != 1 || sc.Lights[0].Position != light {
		t.Errorf("lights = %+v, want single light at %v", sc.Lights, light)
	}
}

func TestBuildShadowlessLight(t *testing.T) {
	model := parseFixture(t, pillarFixture())

	opts := scene.DefaultOptions()
	opts.Shadowless = true

	sc, err := scene.Build(model, opts)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	if !sc.Lights[0].Shadowless {
		t.Error("light should be shadowless")
	}
}

package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/testsupport"
)

func tower() *testsupport.LayoutFixture {
	f := testsupport.NewLayoutFixture()
	f.LatticeA = [2]float64{2, 0}
	f.LatticeB = [2]float64{0, 2}
	f.AddLayer(0.5,
		testsupport.LayoutShape{Kind: "circle", Material: "Si", Center: [2]float64{0.1, -0.2}, Radius: 0.3},
		testsupport.LayoutShape{Kind: "circle", Material: "vacuum", Center: [2]float64{0.1, -0.2}, Radius: 0.15},
	)
	f.AddLayer(1.25,
		testsupport.LayoutShape{Kind: "rectangle", Material: "SiO2", Center: [2]float64{0, 0}, Halfwidths: [2]float64{0.4, 0.6}, Angle: 30},
	)
	return f
}

func TestDevicesSingleEntry(t *testing.T) {
	parser := New(layout.NewParserOptions())

	devices, err := parser.Devices(testsupport.Context(), tower().Document(t))
	if err != nil {
		t.Fatalf("parse devices: %v", err)
	}

	model, ok := devices[layout.DefaultEntryID]
	if !ok {
		t.Fatalf("expected entry %q, got %v", layout.DefaultEntryID, devices)
	}

	if got, want := len(model.Layers), 2; got != want {
		t.Fatalf("layer count = %d, want %d", got, want)
	}
	if diff := cmp.Diff([2]float64{2, 0}, model.Lattice.A); diff != "" {
		t.Errorf("lattice a mismatch (-want +got):\n%s", diff)
	}
	if got, want := model.Substrate.Thickness, 2.0; got != want {
		t.Errorf("substrate thickness = %g, want %g", got, want)
	}

	first := model.Layers[0]
	if got, want := first.Thickness, 0.5; got != want {
		t.Errorf("layer thickness = %g, want %g", got, want)
	}
	if got, want := len(first.Shapes), 2; got != want {
		t.Fatalf("shape count = %d, want %d", got, want)
	}
	if got, want := first.Shapes[0].Kind, layout.ShapeCircle; got != want {
		t.Errorf("shape kind = %q, want %q", got, want)
	}
	if !first.Shapes[1].IsVacuum() {
		t.Errorf("second shape should be vacuum, material %q", first.Shapes[1].Material)
	}

	second := model.Layers[1].Shapes[0]
	if diff := cmp.Diff([2]float64{0.4, 0.6}, second.Halfwidths); diff != "" {
		t.Errorf("halfwidths mismatch (-want +got):\n%s", diff)
	}
	if got, want := second.Angle, 30.0; got != want {
		t.Errorf("angle = %g, want %g", got, want)
	}
}

func TestDevicesNamedEntries(t *testing.T) {
	parser := New(layout.NewParserOptions())

	raw := testsupport.MultiEntryJSON(t, map[string]*testsupport.LayoutFixture{
		"pillar": tower(),
		"grid":   tower(),
	})
	doc := layout.MustNewDocument(layout.SourceFromFile("multi.json"), raw)

	devices, err := parser.Devices(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("parse devices: %v", err)
	}
	if got, want := len(devices), 2; got != want {
		t.Fatalf("entry count = %d, want %d", got, want)
	}
	for _, id := range []string{"pillar", "grid"} {
		if devices[id].ID != id {
			t.Errorf("device %q has id %q", id, devices[id].ID)
		}
	}
}

func TestDevicesMissingShapeFields(t *testing.T) {
	cases := []struct {
		name   string
		drop   string
		inPath string
	}{
		{name: "radius", drop: "radius", inPath: "shape_vars.radius"},
		{name: "center", drop: "center", inPath: "shape_vars.center"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := tower().Entry()
			vars := dig(t, entry, "statepoint", "dev_layers", "0", "shapes", "0", "shape_vars")
			delete(vars, tc.drop)

			doc := documentFromEntry(t, entry)

			_, err := New(layout.NewParserOptions()).Devices(testsupport.Context(), doc)
			var parseErr *layout.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.Contains(parseErr.Path, tc.inPath) {
				t.Errorf("error path %q does not name %q", parseErr.Path, tc.inPath)
			}
		})
	}
}

func TestDevicesSchemaValidation(t *testing.T) {
	entry := tower().Entry()
	statepoint := dig(t, entry, "statepoint")
	delete(statepoint, "sub_layer")

	doc := documentFromEntry(t, entry)

	_, err := New(layout.NewParserOptions()).Devices(testsupport.Context(), doc)
	var parseErr *layout.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Msg != "schema validation failed" {
		t.Errorf("error msg = %q, want schema validation failure", parseErr.Msg)
	}

	// The same document parses when validation is off and the walker can cope.
	_, err = New(layout.NewParserOptions(layout.WithValidation(false))).Devices(testsupport.Context(), doc)
	if err == nil {
		t.Fatal("walker should still require sub_layer.thickness")
	}
}

func TestDevicesSkipsShapelessLayers(t *testing.T) {
	entry := tower().Entry()
	layers := dig(t, entry, "statepoint", "dev_layers")
	layers["2"] = map[string]any{"thickness": 0.1}
	dig(t, entry, "statepoint")["num_layers"] = 3

	doc := documentFromEntry(t, entry)

	devices, err := New(layout.NewParserOptions()).Devices(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("parse devices: %v", err)
	}
	if got, want := len(devices[layout.DefaultEntryID].Layers), 2; got != want {
		t.Errorf("layer count = %d, want %d (bookkeeping layer should drop)", got, want)
	}
}

func TestDevicesInvalidJSON(t *testing.T) {
	doc := layout.MustNewDocument(layout.SourceFromFile("broken.json"), []byte("{not json"))

	_, err := New(layout.NewParserOptions()).Devices(testsupport.Context(), doc)
	var parseErr *layout.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestIndexedValuesRejectsGaps(t *testing.T) {
	_, err := indexedValues(map[string]any{"0": 1.0, "2": 2.0})
	if err == nil {
		t.Fatal("expected an index gap error")
	}

	values, err := indexedValues(map[string]any{"1": "b", "0": "a"})
	if err != nil {
		t.Fatalf("indexed values: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, values); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(tower().Document(t)); err != nil {
		t.Fatalf("validate fixture: %v", err)
	}

	entry := tower().Entry()
	delete(dig(t, entry, "statepoint"), "lattice_vecs")
	if err := Validate(documentFromEntry(t, entry)); err == nil {
		t.Fatal("expected a validation error for missing lattice_vecs")
	}
}

func dig(t *testing.T, m map[string]any, path ...string) map[string]any {
	t.Helper()
	current := m
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			t.Fatalf("fixture path %v broke at %q", path, key)
		}
		current = next
	}
	return current
}

func documentFromEntry(t *testing.T, entry map[string]any) layout.Document {
	t.Helper()
	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	return layout.MustNewDocument(layout.SourceFromFile("fixture.json"), raw)
}

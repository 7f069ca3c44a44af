// Package testsupport holds shared helpers for building layout fixtures and
// comparing goldens in tests.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scenegen/pkg/layout"
)

// LoadDocument reads a fixture and builds a layout.Document using a file
// source. Testing helpers fail the test on error to keep contract tests
// concise.
func LoadDocument(t *testing.T, path string) layout.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (layout.Document, error) {
	if path == "" {
		return layout.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := layout.NewDocument(layout.SourceFromFile(path), data)
	if err != nil {
		return layout.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// LayoutShape is a fixture shape in the statepoint JSON schema.
type LayoutShape struct {
	Kind       string
	Material   string
	Center     [2]float64
	Radius     float64
	Halfwidths [2]float64
	Angle      float64
}

// LayoutLayer is a fixture device layer.
type LayoutLayer struct {
	Thickness float64
	Shapes    []LayoutShape
}

// LayoutFixture assembles statepoint JSON documents for tests without
// hand-writing the stringly indexed maps the upstream schema uses.
type LayoutFixture struct {
	LatticeA [2]float64
	LatticeB [2]float64
	SubThick float64
	Layers   []LayoutLayer
}

// NewLayoutFixture returns a fixture with a unit square lattice and a thick
// substrate, ready for layers.
func NewLayoutFixture() *LayoutFixture {
	return &LayoutFixture{
		LatticeA: [2]float64{1, 0},
		LatticeB: [2]float64{0, 1},
		SubThick: 2,
	}
}

// AddLayer appends a device layer.
func (f *LayoutFixture) AddLayer(thickness float64, shapes ...LayoutShape) *LayoutFixture {
	f.Layers = append(f.Layers, LayoutLayer{Thickness: thickness, Shapes: shapes})
	return f
}

// Entry renders one device entry in the statepoint schema.
func (f *LayoutFixture) Entry() map[string]any {
	layers := map[string]any{}
	for i, layer := range f.Layers {
		shapes := map[string]any{}
		for j, shape := range layer.Shapes {
			vars := map[string]any{
				"center": map[string]any{"x": shape.Center[0], "y": shape.Center[1]},
			}
			switch shape.Kind {
			case "circle":
				vars["radius"] = shape.Radius
			default:
				vars["halfwidths"] = map[string]any{"x": shape.Halfwidths[0], "y": shape.Halfwidths[1]}
				vars["angle"] = shape.Angle
			}
			shapes[strconv.Itoa(j)] = map[string]any{
				"shape":      shape.Kind,
				"material":   shape.Material,
				"shape_vars": vars,
			}
		}
		layers[strconv.Itoa(i)] = map[string]any{
			"thickness": layer.Thickness,
			"shapes":    shapes,
		}
	}

	return map[string]any{
		"statepoint": map[string]any{
			"num_layers": len(f.Layers),
			"lattice_vecs": map[string]any{
				"a": map[string]any{"x": f.LatticeA[0], "y": f.LatticeA[1]},
				"b": map[string]any{"x": f.LatticeB[0], "y": f.LatticeB[1]},
			},
			"dev_layers": layers,
			"sub_layer": map[string]any{
				"thickness": f.SubThick,
			},
		},
	}
}

// JSON renders the fixture as a single-entry document body.
func (f *LayoutFixture) JSON(t *testing.T) []byte {
	t.Helper()

	data, err := json.Marshal(f.Entry())
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// Document wraps the fixture JSON in a layout.Document.
func (f *LayoutFixture) Document(t *testing.T) layout.Document {
	t.Helper()

	doc, err := layout.NewDocument(layout.SourceFromFile("fixture.json"), f.JSON(t))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// MultiEntryJSON renders several fixtures as a named-entry document body.
func MultiEntryJSON(t *testing.T, entries map[string]*LayoutFixture) []byte {
	t.Helper()

	body := map[string]any{}
	for id, fixture := range entries {
		body[id] = fixture.Entry()
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal entries: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-scenegen/pkg/layout"
)

// Parser implements layout.Parser over the device-layout JSON produced by the
// upstream simulation tool. Each entry is validated against the embedded
// schema, then walked into a normalized DeviceModel.
type Parser struct {
	options layout.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ layout.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options layout.ParserOptions) layout.Parser {
	return &Parser{options: options}
}

// Devices decodes a Document into device models keyed by entry id. A document
// whose top level is itself a device dictionary is keyed layout.DefaultEntryID.
func (p *Parser) Devices(ctx context.Context, doc layout.Document) (map[string]layout.DeviceModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("layout parser: document payload is empty")
	}

	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &layout.ParseError{Location: doc.Location(), Msg: "invalid JSON", Err: err}
	}

	entries := make(map[string]map[string]any)
	if _, ok := top["statepoint"]; ok {
		entries[layout.DefaultEntryID] = top
	} else {
		for id, value := range top {
			entry, ok := value.(map[string]any)
			if !ok {
				return nil, &layout.ParseError{
					Location: doc.Location(),
					Path:     id,
					Msg:      "entry is not a device dictionary",
				}
			}
			entries[id] = entry
		}
	}
	if len(entries) == 0 {
		return nil, &layout.ParseError{Location: doc.Location(), Msg: "no device entries found"}
	}

	devices := make(map[string]layout.DeviceModel, len(entries))
	for id, entry := range entries {
		if !p.options.SkipValidation {
			if err := validateEntry(entry); err != nil {
				return nil, &layout.ParseError{
					Location: doc.Location(),
					Path:     id,
					Msg:      "schema validation failed",
					Err:      err,
				}
			}
		}
		model, err := parseDevice(doc.Location(), id, entry)
		if err != nil {
			return nil, err
		}
		devices[id] = model
	}

	return devices, nil
}

func parseDevice(location, id string, entry map[string]any) (layout.DeviceModel, error) {
	w := walker{location: location, entry: id, root: entry}

	model := layout.DeviceModel{ID: id, Raw: entry}

	numLayers, err := w.intAt("statepoint", "num_layers")
	if err != nil {
		return layout.DeviceModel{}, err
	}

	for _, axis := range []string{"a", "b"} {
		vec, err := w.vec2At("statepoint", "lattice_vecs", axis)
		if err != nil {
			return layout.DeviceModel{}, err
		}
		if axis == "a" {
			model.Lattice.A = vec
		} else {
			model.Lattice.B = vec
		}
	}

	for i := 0; i < numLayers; i++ {
		key := strconv.Itoa(i)
		raw, err := w.mapAt("statepoint", "dev_layers", key)
		if err != nil {
			return layout.DeviceModel{}, err
		}
		// Layers without shapes carry nothing renderable; the upstream tool
		// emits them for bookkeeping and they are skipped wholesale.
		if raw["shapes"] == nil {
			continue
		}

		layer, err := parseLayer(w, key, raw)
		if err != nil {
			return layout.DeviceModel{}, err
		}
		model.Layers = append(model.Layers, layer)
	}

	model.Substrate.Thickness, err = w.numberAt("statepoint", "sub_layer", "thickness")
	if err != nil {
		return layout.DeviceModel{}, err
	}
	if bg, err := w.stringAt("statepoint", "sub_layer", "background"); err == nil {
		model.Substrate.Background = bg
	}

	return model, nil
}

func parseLayer(w walker, layerKey string, raw map[string]any) (layout.Layer, error) {
	base := []string{"statepoint", "dev_layers", layerKey}

	thickness, err := w.numberAt(append(base, "thickness")...)
	if err != nil {
		return layout.Layer{}, err
	}

	shapeValues, err := indexedValues(raw["shapes"])
	if err != nil {
		return layout.Layer{}, w.fail(append(base, "shapes"), err.Error(), nil)
	}

	layer := layout.Layer{Thickness: thickness}
	for i, value := range shapeValues {
		path := append(append([]string(nil), base...), "shapes", strconv.Itoa(i))
		shapeMap, ok := value.(map[string]any)
		if !ok {
			return layout.Layer{}, w.fail(path, "shape is not an object", nil)
		}
		shape, err := parseShape(w, path, shapeMap)
		if err != nil {
			return layout.Layer{}, err
		}
		layer.Shapes = append(layer.Shapes, shape)
	}

	return layer, nil
}

func parseShape(w walker, path []string, raw map[string]any) (layout.Shape, error) {
	kind, err := w.stringIn(raw, path, "shape")
	if err != nil {
		return layout.Shape{}, err
	}
	material, err := w.stringIn(raw, path, "material")
	if err != nil {
		return layout.Shape{}, err
	}

	shape := layout.Shape{
		Kind:     layout.ShapeKind(strings.ToLower(strings.TrimSpace(kind))),
		Material: material,
	}

	varsPath := append(append([]string(nil), path...), "shape_vars")
	vars, ok := raw["shape_vars"].(map[string]any)
	if !ok {
		return layout.Shape{}, w.fail(varsPath, "missing or malformed shape_vars", nil)
	}

	switch shape.Kind {
	case layout.ShapeCircle:
		if shape.Center, err = w.vec2In(vars, varsPath, "center"); err != nil {
			return layout.Shape{}, err
		}
		if shape.Radius, err = w.numberIn(vars, varsPath, "radius"); err != nil {
			return layout.Shape{}, err
		}

	case layout.ShapeEllipse, layout.ShapeRectangle:
		if shape.Center, err = w.vec2In(vars, varsPath, "center"); err != nil {
			return layout.Shape{}, err
		}
		if shape.Halfwidths, err = w.vec2In(vars, varsPath, "halfwidths"); err != nil {
			return layout.Shape{}, err
		}
		if _, present := vars["angle"]; present {
			if shape.Angle, err = w.numberIn(vars, varsPath, "angle"); err != nil {
				return layout.Shape{}, err
			}
		}

	case layout.ShapePolygon:
		points, present := vars["points"]
		if present {
			values, err := indexedValues(points)
			if err != nil {
				return layout.Shape{}, w.fail(append(varsPath, "points"), err.Error(), nil)
			}
			for i, value := range values {
				pt, err := coerceVec2(value)
				if err != nil {
					return layout.Shape{}, w.fail(append(varsPath, "points", strconv.Itoa(i)), err.Error(), nil)
				}
				shape.Points = append(shape.Points, pt)
			}
		}

	default:
		// Unrecognized kinds survive parsing; the scene builder rejects them
		// with a FormatError so callers see which statement failed to map.
	}

	return shape, nil
}

// indexedValues accepts either a JSON array or an object keyed by stringified
// indices ("0", "1", ...) and returns the values in index order. The upstream
// tool serializes shape lists as the latter.
func indexedValues(v any) ([]any, error) {
	switch tv := v.(type) {
	case []any:
		return tv, nil
	case map[string]any:
		keys := make([]int, 0, len(tv))
		for k := range tv {
			idx, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("non-numeric index %q", k)
			}
			keys = append(keys, idx)
		}
		sort.Ints(keys)
		out := make([]any, 0, len(keys))
		for i, idx := range keys {
			if idx != i {
				return nil, fmt.Errorf("index gap at %d", i)
			}
			out = append(out, tv[strconv.Itoa(idx)])
		}
		return out, nil
	default:
		return nil, errors.New("expected array or index-keyed object")
	}
}

func coerceVec2(v any) ([2]float64, error) {
	switch tv := v.(type) {
	case map[string]any:
		x, okX := coerceNumber(tv["x"])
		y, okY := coerceNumber(tv["y"])
		if !okX || !okY {
			return [2]float64{}, errors.New("expected numeric x and y")
		}
		return [2]float64{x, y}, nil
	case []any:
		if len(tv) != 2 {
			return [2]float64{}, errors.New("expected two components")
		}
		x, okX := coerceNumber(tv[0])
		y, okY := coerceNumber(tv[1])
		if !okX || !okY {
			return [2]float64{}, errors.New("expected numeric components")
		}
		return [2]float64{x, y}, nil
	default:
		return [2]float64{}, errors.New("expected object or array vector")
	}
}

func coerceNumber(v any) (float64, bool) {
	switch tv := v.(type) {
	case float64:
		return tv, true
	case json.Number:
		f, err := tv.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// walker resolves dotted paths inside one device entry, producing ParseErrors
// that name the failing location.
type walker struct {
	location string
	entry    string
	root     map[string]any
}

func (w walker) fail(path []string, msg string, err error) error {
	full := path
	if w.entry != "" && w.entry != layout.DefaultEntryID {
		full = append([]string{w.entry}, path...)
	}
	return &layout.ParseError{
		Location: w.location,
		Path:     strings.Join(full, "."),
		Msg:      msg,
		Err:      err,
	}
}

func (w walker) valueAt(path ...string) (any, error) {
	var current any = w.root
	for i, segment := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, w.fail(path[:i], "not an object", nil)
		}
		current, ok = m[segment]
		if !ok {
			return nil, w.fail(path[:i+1], "missing field", nil)
		}
	}
	return current, nil
}

func (w walker) mapAt(path ...string) (map[string]any, error) {
	v, err := w.valueAt(path...)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, w.fail(path, "not an object", nil)
	}
	return m, nil
}

func (w walker) numberAt(path ...string) (float64, error) {
	v, err := w.valueAt(path...)
	if err != nil {
		return 0, err
	}
	f, ok := coerceNumber(v)
	if !ok {
		return 0, w.fail(path, "not a number", nil)
	}
	return f, nil
}

func (w walker) intAt(path ...string) (int, error) {
	f, err := w.numberAt(path...)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, w.fail(path, "not an integer", nil)
	}
	return int(f), nil
}

func (w walker) stringAt(path ...string) (string, error) {
	v, err := w.valueAt(path...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", w.fail(path, "not a string", nil)
	}
	return s, nil
}

func (w walker) vec2At(path ...string) ([2]float64, error) {
	v, err := w.valueAt(path...)
	if err != nil {
		return [2]float64{}, err
	}
	vec, cerr := coerceVec2(v)
	if cerr != nil {
		return [2]float64{}, w.fail(path, cerr.Error(), nil)
	}
	return vec, nil
}

func (w walker) stringIn(m map[string]any, base []string, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", w.fail(append(append([]string(nil), base...), key), "missing field", nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", w.fail(append(append([]string(nil), base...), key), "not a string", nil)
	}
	return s, nil
}

func (w walker) numberIn(m map[string]any, base []string, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, w.fail(append(append([]string(nil), base...), key), "missing field", nil)
	}
	f, ok := coerceNumber(v)
	if !ok {
		return 0, w.fail(append(append([]string(nil), base...), key), "not a number", nil)
	}
	return f, nil
}

func (w walker) vec2In(m map[string]any, base []string, key string) ([2]float64, error) {
	v, ok := m[key]
	if !ok {
		return [2]float64{}, w.fail(append(append([]string(nil), base...), key), "missing field", nil)
	}
	vec, err := coerceVec2(v)
	if err != nil {
		return [2]float64{}, w.fail(append(append([]string(nil), base...), key), err.Error(), nil)
	}
	return vec, nil
}

// Validate exposes the schema pass on its own for tooling (scenegen-validate).
func Validate(doc layout.Document) error {
	raw := doc.Raw()
	if len(raw) == 0 {
		return errors.New("layout parser: document payload is empty")
	}
	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return &layout.ParseError{Location: doc.Location(), Msg: "invalid JSON", Err: err}
	}
	if _, ok := top["statepoint"]; ok {
		if err := validateEntry(top); err != nil {
			return &layout.ParseError{Location: doc.Location(), Msg: "schema validation failed", Err: err}
		}
		return nil
	}
	for id, value := range top {
		if err := validateEntry(value); err != nil {
			return &layout.ParseError{Location: doc.Location(), Path: id, Msg: "schema validation failed", Err: err}
		}
	}
	return nil
}

// Package inspect answers ad-hoc questions about layout documents: jq-style
// queries over the raw JSON and tabular summaries of the parsed devices.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/itchyny/gojq"

	"github.com/goliatone/go-scenegen/pkg/layout"
)

// Query runs a jq expression against the document's raw JSON and returns the
// produced values.
func Query(ctx context.Context, doc layout.Document, expr string) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("inspect: parse query %q: %w", expr, err)
	}

	var payload any
	if err := json.Unmarshal(doc.Raw(), &payload); err != nil {
		return nil, fmt.Errorf("inspect: decode document: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("inspect: compile query: %w", err)
	}

	var results []any
	iter := code.RunWithContext(ctx, payload)
	for {
		value, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := value.(error); isErr {
			return nil, fmt.Errorf("inspect: run query: %w", err)
		}
		results = append(results, value)
	}
	return results, nil
}

// FormatValue renders a query result the way jq would: strings bare, all
// other values as compact JSON.
func FormatValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := gojq.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

// SummaryHeaders are the column titles matching Summarize rows.
var SummaryHeaders = []string{"Entry", "Layers", "Shapes", "Solids", "Depth", "Lattice A", "Lattice B"}

// Summarize flattens parsed devices into table rows, sorted by entry id.
func Summarize(devices map[string]layout.DeviceModel) [][]string {
	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		model := devices[id]

		shapes := 0
		depth := 0.0
		for _, layer := range model.Layers {
			shapes += len(layer.Shapes)
			depth += layer.Thickness
		}

		rows = append(rows, []string{
			id,
			strconv.Itoa(len(model.Layers)),
			strconv.Itoa(shapes),
			strconv.Itoa(model.SolidShapeCount()),
			strconv.FormatFloat(depth, 'g', 4, 64),
			formatVec2(model.Lattice.A),
			formatVec2(model.Lattice.B),
		})
	}
	return rows
}

func formatVec2(v [2]float64) string {
	return fmt.Sprintf("(%g, %g)", v[0], v[1])
}

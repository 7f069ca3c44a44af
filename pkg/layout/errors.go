package layout

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed or incomplete layout document. Path names the
// offending location using the document's dotted access path (for example
// "statepoint.dev_layers.0.shapes.1.shape_vars.center").
type ParseError struct {
	Location string
	Path     string
	Msg      string
	Err      error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("layout: parse")
	if e.Location != "" {
		fmt.Fprintf(&b, " %s", e.Location)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, ": %s", e.Path)
	}
	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

// FormatError re-exports the scene package's unmappable-primitive error so the
// full pipeline taxonomy lives in one place for callers.
type FormatError = scene.FormatError

// RenderProcessError reports an external renderer invocation that exited
// non-zero or was cut off by a deadline. Stderr holds the tail of the
// process's error stream, which is the only diagnostic the renderer offers.
type RenderProcessError struct {
	Backend string
	Command []string
	Stderr  string
	Err     error
}

func (e *RenderProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "render: %s: %v", e.Backend, e.Err)
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	return b.String()
}

func (e *RenderProcessError) Unwrap() error {
	return e.Err
}

// CompositionError reports a failure while assembling an animated sequence.
// Frame is zero-based; a negative frame marks a failure in the composition
// step itself rather than in a frame render.
type CompositionError struct {
	Frame int
	Err   error
}

func (e *CompositionError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("render: compose sequence: %v", e.Err)
	}
	return fmt.Sprintf("render: sequence frame %d: %v", e.Frame, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

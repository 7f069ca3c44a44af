package scene

import "fmt"

// FormatError reports a device shape whose primitive kind has no mapping in
// the scene vocabulary. The pipeline surfaces it instead of dropping the
// statement.
type FormatError struct {
	Kind  string
	Layer int
	Index int
}

func (e *FormatError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("scene: no primitive mapping for %q", e.Kind)
	}
	return fmt.Sprintf("scene: no primitive mapping for shape kind %q (layer %d, shape %d)", e.Kind, e.Layer, e.Index)
}

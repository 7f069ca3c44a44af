package scenegen

import (
	"io/fs"

	"github.com/goliatone/go-scenegen/pkg/renderers/povray"
)

// EmbeddedTemplates exposes the built-in POV-Ray scene templates so callers
// can reuse or extend them without importing the backend package directly.
func EmbeddedTemplates() fs.FS {
	return povray.TemplatesFS()
}

package povray

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded scene boilerplate templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

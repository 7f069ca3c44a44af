// Package povray renders scenes through the POV-Ray ray tracer: it emits
// scene-description files in POV-Ray's grammar and drives the povray binary
// as a subprocess.
package povray

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-scenegen/pkg/render"
	rendertemplate "github.com/goliatone/go-scenegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-scenegen/pkg/render/template/gotemplate"
)

// BackendName identifies this backend in the registry.
const BackendName = "povray"

// DefaultBinary is the renderer executable resolved from PATH when no
// explicit path is configured.
const DefaultBinary = "povray"

const sceneTemplate = "templates/scene"

// Option customises the backend configuration.
type Option func(*config)

type config struct {
	binary           string
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	extraFlags       []string
}

// WithBinary points the backend at a specific povray executable.
func WithBinary(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.binary = path
		}
	}
}

// WithTemplatesFS supplies an alternate boilerplate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads boilerplate templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithExtraFlags appends raw command-line flags to every invocation, for
// options the backend does not model (library paths, radiosity toggles).
func WithExtraFlags(flags ...string) Option {
	return func(cfg *config) {
		cfg.extraFlags = append(cfg.extraFlags, flags...)
	}
}

// Backend implements render.Backend for POV-Ray.
type Backend struct {
	binary     string
	templates  rendertemplate.TemplateRenderer
	extraFlags []string
}

// Ensure the backend satisfies the public contracts.
var (
	_ render.Backend         = (*Backend)(nil)
	_ render.CommandReporter = (*Backend)(nil)
)

// New constructs the backend, defaulting to the embedded templates and the
// povray binary from PATH.
func New(options ...Option) (*Backend, error) {
	cfg := &config{
		binary:     DefaultBinary,
		templateFS: TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("povray: template engine: %w", err)
		}
		renderer = engine
	}

	return &Backend{
		binary:     cfg.binary,
		templates:  renderer,
		extraFlags: cfg.extraFlags,
	}, nil
}

// Name implements render.Backend.
func (b *Backend) Name() string {
	return BackendName
}

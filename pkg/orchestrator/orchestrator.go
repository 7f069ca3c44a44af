package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	internalLoader "github.com/goliatone/go-scenegen/internal/layout/loader"
	internalParser "github.com/goliatone/go-scenegen/internal/layout/parser"
	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/render"
	"github.com/goliatone/go-scenegen/pkg/renderers/povray"
	"github.com/goliatone/go-scenegen/pkg/scene"
)

const defaultBackendName = povray.BackendName

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom layout loader.
func WithLoader(loader layout.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom layout parser.
func WithParser(parser layout.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a backend registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultBackend overrides the backend used when a request omits an
// explicit Backend field.
func WithDefaultBackend(name string) Option {
	return func(o *Orchestrator) {
		o.defaultBackend = name
	}
}

// WithSceneOptions sets the scene-building options used when a request does
// not carry its own.
func WithSceneOptions(opts scene.Options) Option {
	return func(o *Orchestrator) {
		o.sceneOptions = &opts
	}
}

// WithRenderOptions sets the render options used when a request does not
// carry its own.
func WithRenderOptions(opts render.Options) Option {
	return func(o *Orchestrator) {
		o.renderOptions = &opts
	}
}

// Orchestrator coordinates the full pipeline from layout document to rendered
// image. It applies sensible defaults (POV-Ray backend, embedded templates)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	loader          layout.Loader
	parser          layout.Parser
	registry        *render.Registry
	defaultBackend  string
	sceneOptions    *scene.Options
	renderOptions   *render.Options
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultBackend: defaultBackendName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render one image from a device
// layout.
type Request struct {
	// Source identifies where the layout document lives. Optional when
	// Document is supplied.
	Source layout.Source

	// Document allows callers to bypass the loader when they already hold a
	// loaded payload.
	Document *layout.Document

	// Entry selects which device entry to render. If empty and the document
	// holds a single entry, that entry is used.
	Entry string

	// Backend names the renderer backend. If empty, the orchestrator falls
	// back to the configured default backend.
	Backend string

	// Scene overrides the orchestrator's scene-building options for this
	// request.
	Scene *scene.Options

	// Render overrides the orchestrator's render options for this request.
	Render *render.Options

	// ScenePath is where the scene-description file is written.
	ScenePath string

	// ImagePath is where the rendered image lands. Defaults to ScenePath with
	// a .png extension.
	ImagePath string

	// SceneOnly stops the pipeline after writing the scene file, skipping the
	// renderer subprocess.
	SceneOnly bool
}

// Result reports the artifacts one Generate call produced.
type Result struct {
	// Entry is the device entry that was rendered, useful when the request
	// left the choice to the orchestrator.
	Entry string

	// ScenePath is the scene-description file that was written.
	ScenePath string

	// ImagePath is the rendered image, empty for scene-only requests.
	ImagePath string

	// Command is the renderer command line, when the backend reports one.
	Command []string
}

// Generate executes the loader → parser → scene builder → backend sequence
// and reports the artifact paths.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return Result{}, err
		}
	}

	if req.ScenePath == "" {
		return Result{}, errors.New("orchestrator: scene path is required")
	}

	model, entry, err := o.resolveDevice(ctx, req)
	if err != nil {
		return Result{}, err
	}

	sceneOpts := o.sceneOptionsFor(req)
	sc, err := scene.Build(model, sceneOpts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: build scene: %w", err)
	}

	backend, err := o.backendFor(req.Backend)
	if err != nil {
		return Result{}, err
	}

	if err := o.writeSceneFile(ctx, backend, req.ScenePath, sc); err != nil {
		return Result{}, err
	}

	result := Result{
		Entry:     entry,
		ScenePath: req.ScenePath,
	}
	if req.SceneOnly {
		return result, nil
	}

	job := render.Job{
		ScenePath: req.ScenePath,
		ImagePath: req.ImagePath,
		Options:   o.renderOptionsFor(req),
	}
	if job.ImagePath == "" {
		job.ImagePath = replaceExtension(req.ScenePath, ".png")
	}

	if reporter, ok := backend.(render.CommandReporter); ok {
		result.Command = reporter.Command(job)
	}

	imagePath, err := backend.Render(ctx, job)
	if err != nil {
		return Result{}, err
	}
	result.ImagePath = imagePath

	return result, nil
}

// Devices loads and parses the request's document without rendering, so
// callers can list or inspect the available entries.
func (o *Orchestrator) Devices(ctx context.Context, req Request) (map[string]layout.DeviceModel, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	devices, err := o.parser.Devices(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse devices: %w", err)
	}
	return devices, nil
}

func (o *Orchestrator) resolveDevice(ctx context.Context, req Request) (layout.DeviceModel, string, error) {
	devices, err := o.Devices(ctx, req)
	if err != nil {
		return layout.DeviceModel{}, "", err
	}

	entry := req.Entry
	if entry == "" {
		switch len(devices) {
		case 0:
			return layout.DeviceModel{}, "", errors.New("orchestrator: document has no device entries")
		case 1:
			for id := range devices {
				entry = id
			}
		default:
			if _, ok := devices[layout.DefaultEntryID]; ok {
				entry = layout.DefaultEntryID
				break
			}
			return layout.DeviceModel{}, "", fmt.Errorf("orchestrator: document has %d entries, one must be named", len(devices))
		}
	}

	model, ok := devices[entry]
	if !ok {
		return layout.DeviceModel{}, "", fmt.Errorf("orchestrator: entry %q not found", entry)
	}
	return model, entry, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (layout.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return layout.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return layout.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) backendFor(name string) (render.Backend, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: backend registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultBackend
	}

	if target != "" {
		backend, err := o.registry.Get(target)
		if err == nil {
			return backend, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: backend %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no backends registered")
	}

	backend, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: backend %q: %w", names[0], err)
	}
	return backend, nil
}

func (o *Orchestrator) writeSceneFile(ctx context.Context, backend render.Backend, path string, sc *scene.Scene) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("orchestrator: create scene file: %w", err)
	}

	if err := backend.WriteScene(ctx, file, sc); err != nil {
		file.Close()
		return fmt.Errorf("orchestrator: write scene: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("orchestrator: close scene file: %w", err)
	}
	return nil
}

func (o *Orchestrator) sceneOptionsFor(req Request) scene.Options {
	if req.Scene != nil {
		return *req.Scene
	}
	if o.sceneOptions != nil {
		return *o.sceneOptions
	}
	return scene.DefaultOptions()
}

func (o *Orchestrator) renderOptionsFor(req Request) render.Options {
	if req.Render != nil {
		return *req.Render
	}
	if o.renderOptions != nil {
		return *o.renderOptions
	}
	return render.DefaultOptions()
}

func replaceExtension(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}
	return path + ext
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(layout.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(layout.NewParserOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		backend, err := povray.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default backend: %w", err)
		} else {
			o.registry.MustRegister(backend)
		}
	}
	if o.defaultBackend == "" {
		o.defaultBackend = defaultBackendName
	}

	o.defaultsApplied = true
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/aquasecurity/table"

	"github.com/goliatone/go-scenegen/internal/layout/loader"
	"github.com/goliatone/go-scenegen/pkg/inspect"
	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/orchestrator"
	"github.com/goliatone/go-scenegen/pkg/render"
	"github.com/goliatone/go-scenegen/pkg/renderers/povray"
	"github.com/goliatone/go-scenegen/pkg/sequence"
	"github.com/goliatone/go-scenegen/pkg/settings"
)

func main() {
	source := flag.String("source", "", "layout document path or URL")
	entry := flag.String("entry", "", "device entry to render (prompts when the document has several)")
	settingsPath := flag.String("settings", "", "YAML render profile")
	backendName := flag.String("backend", "", "renderer backend name")
	binary := flag.String("binary", "", "renderer executable override")
	scenePath := flag.String("scene", "", "scene file path (derived from -out if empty)")
	out := flag.String("out", "render.png", "output image path")
	sceneOnly := flag.Bool("scene-only", false, "write the scene file and stop before rendering")
	openViewer := flag.Bool("open", false, "open the result in the system viewer")
	list := flag.Bool("list", false, "list the document's device entries and exit")
	query := flag.String("query", "", "run a jq expression against the raw document and exit")
	frames := flag.Int("frames", 0, "animation frame count (0 renders a single image)")
	gifPath := flag.String("gif", "device.gif", "animated GIF output path")
	delay := flag.Int("delay", 10, "frame delay in hundredths of a second")
	rotateStart := flag.Float64("rotate-start", 0, "camera sweep start angle in degrees")
	rotateEnd := flag.Float64("rotate-end", 360, "camera sweep end angle in degrees")
	keepFrames := flag.Bool("keep-frames", false, "keep intermediate frame files")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("a layout document is required, pass -source")
	}

	var profile settings.Settings
	if *settingsPath != "" {
		loaded, err := settings.Load(*settingsPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		profile = loaded
	}

	if *query != "" {
		runQuery(ctx, src, *query)
		return
	}

	gen, err := buildOrchestrator(profile, *binary)
	if err != nil {
		log.Fatalf("Failed to configure pipeline: %v", err)
	}

	if *list {
		listEntries(ctx, gen, src)
		return
	}

	entryID, err := resolveEntry(ctx, gen, src, *entry)
	if err != nil {
		log.Fatalf("Failed to resolve entry: %v", err)
	}

	req := orchestrator.Request{
		Source:    src,
		Entry:     entryID,
		Backend:   *backendName,
		ImagePath: *out,
		ScenePath: *scenePath,
		SceneOnly: *sceneOnly,
	}
	if req.ScenePath == "" {
		req.ScenePath = replaceExtension(*out, ".pov")
	}

	if *frames > 0 {
		runSequence(ctx, gen, req, profile, sequenceOptions(profile, *frames, *delay, *rotateStart, *rotateEnd, *keepFrames), *gifPath, *openViewer)
		return
	}

	result, err := gen.Generate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if len(result.Command) > 0 {
		fmt.Println(strings.Join(result.Command, " "))
	}
	if result.ImagePath != "" {
		fmt.Printf("Image written to %s\n", result.ImagePath)
	} else {
		fmt.Printf("Scene written to %s\n", result.ScenePath)
	}

	if *openViewer {
		target := result.ImagePath
		if target == "" {
			target = result.ScenePath
		}
		if err := openInViewer(target); err != nil {
			log.Fatalf("Failed to open viewer: %v", err)
		}
	}
}

func buildOrchestrator(profile settings.Settings, binary string) (*orchestrator.Orchestrator, error) {
	povOptions := []povray.Option{}
	if profile.Povray.Binary != "" {
		povOptions = append(povOptions, povray.WithBinary(profile.Povray.Binary))
	}
	if binary != "" {
		povOptions = append(povOptions, povray.WithBinary(binary))
	}
	if len(profile.Povray.ExtraFlags) > 0 {
		povOptions = append(povOptions, povray.WithExtraFlags(profile.Povray.ExtraFlags...))
	}

	backend, err := povray.New(povOptions...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	registry.MustRegister(backend)

	return orchestrator.New(
		orchestrator.WithLoader(newLoader()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithSceneOptions(profile.SceneOptions()),
		orchestrator.WithRenderOptions(profile.RenderOptions()),
	), nil
}

func newLoader() layout.Loader {
	return loader.New(layout.NewLoaderOptions(layout.WithHTTPFallback(30 * time.Second)))
}

func runQuery(ctx context.Context, src layout.Source, expr string) {
	doc, err := loadDocument(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	results, err := inspect.Query(ctx, doc, expr)
	if err != nil {
		log.Fatalf("Failed to run query: %v", err)
	}
	for _, value := range results {
		fmt.Println(inspect.FormatValue(value))
	}
}

func listEntries(ctx context.Context, gen *orchestrator.Orchestrator, src layout.Source) {
	devices, err := gen.Devices(ctx, orchestrator.Request{Source: src})
	if err != nil {
		log.Fatalf("Failed to parse document: %v", err)
	}

	t := table.New(os.Stdout)
	t.SetHeaders(inspect.SummaryHeaders...)
	for _, row := range inspect.Summarize(devices) {
		t.AddRow(row...)
	}
	t.Render()
}

// resolveEntry prompts when the document holds several entries and none was
// named on the command line.
func resolveEntry(ctx context.Context, gen *orchestrator.Orchestrator, src layout.Source, entry string) (string, error) {
	if entry != "" {
		return entry, nil
	}

	devices, err := gen.Devices(ctx, orchestrator.Request{Source: src})
	if err != nil {
		return "", err
	}
	if len(devices) <= 1 {
		return "", nil
	}
	if _, ok := devices[layout.DefaultEntryID]; ok {
		return "", nil
	}

	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var choice string
	prompt := &survey.Select{
		Message: "Device entry to render:",
		Options: ids,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func runSequence(ctx context.Context, gen *orchestrator.Orchestrator, req orchestrator.Request, profile settings.Settings, opts sequence.Options, gifPath string, openViewer bool) {
	sceneOpts := profile.SceneOptions()
	req.Scene = &sceneOpts

	assembler := sequence.New(gen)
	if err := assembler.Assemble(ctx, req, opts, gifPath); err != nil {
		log.Fatalf("Failed to assemble sequence: %v", err)
	}
	fmt.Printf("Animation written to %s\n", gifPath)

	if openViewer {
		if err := openInViewer(gifPath); err != nil {
			log.Fatalf("Failed to open viewer: %v", err)
		}
	}
}

func sequenceOptions(profile settings.Settings, frames, delay int, rotateStart, rotateEnd float64, keepFrames bool) sequence.Options {
	opts := sequence.DefaultOptions()
	opts.Frames = frames
	opts.Delay = delay
	opts.RotateStart = rotateStart
	opts.RotateEnd = rotateEnd
	opts.KeepFrames = keepFrames

	cfg := profile.Sequence
	if cfg.Frames != nil {
		opts.Frames = *cfg.Frames
	}
	if cfg.Delay != nil {
		opts.Delay = *cfg.Delay
	}
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	if cfg.RotateStart != nil {
		opts.RotateStart = *cfg.RotateStart
	}
	if cfg.RotateEnd != nil {
		opts.RotateEnd = *cfg.RotateEnd
	}

	return opts
}

func loadDocument(ctx context.Context, src layout.Source) (layout.Document, error) {
	return newLoader().Load(ctx, src)
}

func parseSource(raw string) layout.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return layout.SourceFromURL(path)
	}
	return layout.SourceFromFile(path)
}

func replaceExtension(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}
	return path + ext
}

func openInViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

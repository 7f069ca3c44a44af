package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/orchestrator"
	"github.com/goliatone/go-scenegen/pkg/render"
	"github.com/goliatone/go-scenegen/pkg/scene"
	"github.com/goliatone/go-scenegen/pkg/testsupport"
)

type fakeBackend struct {
	renderErr error
	jobs      []render.Job
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) WriteScene(ctx context.Context, w io.Writer, sc *scene.Scene) error {
	_, err := io.WriteString(w, "fake scene\n")
	return err
}

func (f *fakeBackend) Render(ctx context.Context, job render.Job) (string, error) {
	f.jobs = append(f.jobs, job)
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return job.ImagePath, nil
}

func (f *fakeBackend) Command(job render.Job) []string {
	return []string{"fake", job.ScenePath, job.ImagePath}
}

func singleDeviceDoc(t *testing.T) *layout.Document {
	t.Helper()
	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5, testsupport.LayoutShape{Kind: "circle", Material: "Si", Radius: 0.3})
	doc := f.Document(t)
	return &doc
}

func fakeOrchestrator(backend render.Backend) *orchestrator.Orchestrator {
	registry := render.NewRegistry()
	registry.MustRegister(backend)
	return orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultBackend(backend.Name()),
	)
}

func TestGenerateFullPipeline(t *testing.T) {
	backend := &fakeBackend{}
	gen := fakeOrchestrator(backend)

	dir := t.TempDir()
	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		ScenePath: filepath.Join(dir, "device.pov"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.Entry != layout.DefaultEntryID {
		t.Errorf("entry = %q, want %q", result.Entry, layout.DefaultEntryID)
	}
	if result.ImagePath != filepath.Join(dir, "device.png") {
		t.Errorf("image path = %q, want derived .png path", result.ImagePath)
	}
	if len(result.Command) == 0 || result.Command[0] != "fake" {
		t.Errorf("command = %v, want the backend's echo", result.Command)
	}

	raw, err := os.ReadFile(result.ScenePath)
	if err != nil {
		t.Fatalf("read scene file: %v", err)
	}
	if string(raw) != "fake scene\n" {
		t.Errorf("scene file = %q", raw)
	}

	if len(backend.jobs) != 1 {
		t.Fatalf("render invocations = %d, want 1", len(backend.jobs))
	}
}

func TestGenerateSceneOnly(t *testing.T) {
	backend := &fakeBackend{}
	gen := fakeOrchestrator(backend)

	dir := t.TempDir()
	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		ScenePath: filepath.Join(dir, "device.pov"),
		SceneOnly: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.ImagePath != "" {
		t.Errorf("image path = %q, want empty for scene-only", result.ImagePath)
	}
	if len(backend.jobs) != 0 {
		t.Errorf("render invocations = %d, want 0", len(backend.jobs))
	}
	if _, err := os.Stat(result.ScenePath); err != nil {
		t.Errorf("scene file missing: %v", err)
	}
}

func TestGenerateRenderFailurePassesThrough(t *testing.T) {
	wantErr := &render.RenderProcessError{Backend: "fake", Err: errors.New("exit status 1")}
	backend := &fakeBackend{renderErr: wantErr}
	gen := fakeOrchestrator(backend)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})

	var procErr *render.RenderProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected RenderProcessError, got %v", err)
	}
}

func TestGenerateUnknownEntry(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		Entry:     "missing",
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})
	if err == nil || !strings.Contains(err.Error(), `entry "missing" not found`) {
		t.Fatalf("error = %v, want entry-not-found", err)
	}
}

func TestGenerateAmbiguousEntries(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5, testsupport.LayoutShape{Kind: "circle", Material: "Si", Radius: 0.3})
	raw := testsupport.MultiEntryJSON(t, map[string]*testsupport.LayoutFixture{
		"first":  f,
		"second": f,
	})
	doc := layout.MustNewDocument(layout.SourceFromFile("multi.json"), raw)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  &doc,
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})
	if err == nil {
		t.Fatal("expected an error for an unnamed entry in a multi-entry document")
	}

	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  &doc,
		Entry:     "second",
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})
	if err != nil {
		t.Fatalf("generate named entry: %v", err)
	}
	if result.Entry != "second" {
		t.Errorf("entry = %q, want second", result.Entry)
	}
}

func TestGenerateRequiresInput(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		ScenePath: "out.pov",
	})
	if err == nil {
		t.Fatal("expected an error without a source or document")
	}

	_, err = gen.Generate(context.Background(), orchestrator.Request{
		Document: singleDeviceDoc(t),
	})
	if err == nil {
		t.Fatal("expected an error without a scene path")
	}
}

func TestGenerateUnknownBackend(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		Backend:   "blender",
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})
	if err == nil || !strings.Contains(err.Error(), `backend "blender"`) {
		t.Fatalf("error = %v, want unknown-backend", err)
	}
}

func TestGenerateParseErrorPassesThrough(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	doc := layout.MustNewDocument(layout.SourceFromFile("broken.json"), []byte("{not json"))
	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  &doc,
		ScenePath: filepath.Join(t.TempDir(), "device.pov"),
	})

	var parseErr *layout.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestDefaultPipelineWritesSceneFile(t *testing.T) {
	gen := orchestrator.New()

	dir := t.TempDir()
	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Document:  singleDeviceDoc(t),
		ScenePath: filepath.Join(dir, "device.pov"),
		SceneOnly: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	raw, err := os.ReadFile(result.ScenePath)
	if err != nil {
		t.Fatalf("read scene file: %v", err)
	}
	text := string(raw)
	for _, want := range []string{"#version 3.7;", "camera", "#declare UnitCell"} {
		if !strings.Contains(text, want) {
			t.Errorf("scene file missing %q", want)
		}
	}
}

func TestDevicesListsEntries(t *testing.T) {
	gen := fakeOrchestrator(&fakeBackend{})

	f := testsupport.NewLayoutFixture()
	f.AddLayer(0.5, testsupport.LayoutShape{Kind: "circle", Material: "Si", Radius: 0.3})
	raw := testsupport.MultiEntryJSON(t, map[string]*testsupport.LayoutFixture{
		"first":  f,
		"second": f,
	})
	doc := layout.MustNewDocument(layout.SourceFromFile("multi.json"), raw)

	devices, err := gen.Devices(context.Background(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("devices: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("device count = %d, want 2", len(devices))
	}
}

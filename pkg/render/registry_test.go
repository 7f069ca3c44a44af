package render

import (
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

type stubBackend struct {
	name string
}

func (s stubBackend) Name() string { return s.name }

func (s stubBackend) WriteScene(ctx context.Context, w io.Writer, sc *scene.Scene) error {
	return nil
}

func (s stubBackend) Render(ctx context.Context, job Job) (string, error) {
	return job.ImagePath, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(stubBackend{name: "povray"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	backend, err := registry.Get("povray")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if backend.Name() != "povray" {
		t.Errorf("backend name = %q, want povray", backend.Name())
	}

	if !registry.Has("povray") {
		t.Error("Has(povray) = false, want true")
	}
	if registry.Has("blender") {
		t.Error("Has(blender) = true, want false")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(stubBackend{name: "povray"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubBackend{name: "povray"}); err == nil {
		t.Fatal("expected an error registering a duplicate name")
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Fatal("expected an error registering nil")
	}
	if err := registry.Register(stubBackend{}); err == nil {
		t.Fatal("expected an error registering an unnamed backend")
	}
}

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(stubBackend{name: "povray"})
	registry.MustRegister(stubBackend{name: "blender"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("list = %v, want two names", names)
	}
	if names[0] != "blender" || names[1] != "povray" {
		t.Errorf("list = %v, want sorted names", names)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Get("povray"); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

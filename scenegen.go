// Package scenegen turns device layout documents from electromagnetic
// simulation runs into ray-traced renders: JSON in, scene description and
// image out, with an animated-GIF assembler for camera sweeps.
package scenegen

import (
	"context"

	"github.com/goliatone/go-scenegen/pkg/layout"
	"github.com/goliatone/go-scenegen/pkg/orchestrator"
)

// Request aliases the orchestrator request for callers working from the root
// package.
type Request = orchestrator.Request

// Result aliases the orchestrator result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module so most callers need a single import.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Render loads the layout source, builds a scene for the named entry, writes
// it to scenePath, and invokes the default backend. It is the simplest entry
// point for callers that just want an image.
func Render(ctx context.Context, source layout.Source, entry, scenePath string, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, Request{
		Source:    source,
		Entry:     entry,
		ScenePath: scenePath,
	})
}

// RenderFromDocument renders using a pre-loaded document, bypassing the
// loader stage while still delegating to the orchestrator.
func RenderFromDocument(ctx context.Context, doc layout.Document, entry, scenePath string, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, Request{
		Document:  &doc,
		Entry:     entry,
		ScenePath: scenePath,
	})
}

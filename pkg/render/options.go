package render

import "time"

// Options describe per-invocation settings for the external renderer.
type Options struct {
	// Width and Height size the output raster in pixels.
	Width  int
	Height int

	// Antialias enables the renderer's antialiasing pass.
	Antialias bool

	// Transparent renders the background as alpha instead of the scene's
	// background color.
	Transparent bool

	// Display shows the renderer's live preview while it works.
	Display bool

	// Threads caps the renderer's worker threads; zero leaves the renderer's
	// own default in place.
	Threads int

	// Quality maps to the renderer's quality level when positive.
	Quality int

	// Timeout bounds the subprocess; zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration
}

// DefaultOptions mirrors the upstream tool's render defaults.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      800,
		Antialias:   true,
		Transparent: true,
	}
}

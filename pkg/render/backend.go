package render

import (
	"context"
	"io"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

// Backend turns a scene into artifacts: first the scene-description text in
// its own grammar, then a raster image by driving the external renderer.
// Implementations live under pkg/renderers.
type Backend interface {
	Name() string

	// WriteScene emits the scene-description text for sc.
	WriteScene(ctx context.Context, w io.Writer, sc *scene.Scene) error

	// Render invokes the external renderer against job.ScenePath and returns
	// the path of the produced image. A non-zero exit or timeout surfaces as
	// a *RenderProcessError; there is no retry.
	Render(ctx context.Context, job Job) (string, error)
}

// CommandReporter is implemented by backends that can report the subprocess
// command line for a job without running it. CLIs echo it so users can rerun
// or tweak renders by hand.
type CommandReporter interface {
	Command(job Job) []string
}

// Job names the artifacts of one render invocation.
type Job struct {
	ScenePath string
	ImagePath string
	Options   Options
}

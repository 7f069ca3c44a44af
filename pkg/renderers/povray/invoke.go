package povray

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/goliatone/go-scenegen/pkg/render"
)

// stderrTailLimit caps how much of the process error stream a
// RenderProcessError carries.
const stderrTailLimit = 4 << 10

// Command implements render.CommandReporter. POV-Ray takes INI-style
// assignments and +switches rather than conventional flags.
func (b *Backend) Command(job render.Job) []string {
	opts := job.Options

	args := []string{
		b.binary,
		"Input_File_Name=" + job.ScenePath,
		"Output_File_Name=" + job.ImagePath,
		"+H" + strconv.Itoa(opts.Height),
		"+W" + strconv.Itoa(opts.Width),
	}

	if opts.Display {
		args = append(args, "Display=on")
	} else {
		args = append(args, "Display=off")
	}
	if opts.Transparent {
		args = append(args, "+ua")
	}
	if opts.Antialias {
		args = append(args, "+A")
	}
	if opts.Threads > 0 {
		args = append(args, "+WT"+strconv.Itoa(opts.Threads))
	}
	if opts.Quality > 0 {
		args = append(args, "+Q"+strconv.Itoa(opts.Quality))
	}

	return append(args, b.extraFlags...)
}

// Render implements render.Backend by running the povray binary against the
// job's scene file.
func (b *Backend) Render(ctx context.Context, job render.Job) (string, error) {
	if job.Options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Options.Timeout)
		defer cancel()
	}

	argv := b.Command(job)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &render.RenderProcessError{
			Backend: BackendName,
			Command: argv,
			Stderr:  stderrTail(stderr.String()),
			Err:     err,
		}
	}

	return job.ImagePath, nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailLimit {
		s = s[len(s)-stderrTailLimit:]
	}
	return s
}

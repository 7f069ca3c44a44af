// Package sequence renders a device layout from a sweep of camera angles and
// assembles the frames into an animated GIF.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"

	"github.com/goliatone/go-scenegen/pkg/orchestrator"
	"github.com/goliatone/go-scenegen/pkg/render"
	"github.com/goliatone/go-scenegen/pkg/scene"
)

// FrameFunc produces the scene options for one frame of a sequence. Frame is
// zero-based and total is the frame count of the whole sequence.
type FrameFunc func(frame, total int, base scene.Options) scene.Options

// Options configure a sequence render.
type Options struct {
	// Frames is the number of frames to render. Must be at least 1.
	Frames int

	// Delay between frames in hundredths of a second. Zero means 10 (ten
	// frames per second).
	Delay int

	// LoopCount follows image/gif semantics: 0 loops forever.
	LoopCount int

	// Width and Height resize each frame before quantisation. Zero keeps the
	// rendered size.
	Width  int
	Height int

	// RotateStart and RotateEnd bound the default camera sweep in degrees.
	// The end angle is exclusive so a full turn loops seamlessly.
	RotateStart float64
	RotateEnd   float64

	// Frame overrides the default camera sweep with arbitrary per-frame scene
	// options.
	Frame FrameFunc

	// WorkDir holds the intermediate scene and image files. Empty means a
	// fresh temporary directory, removed afterwards unless KeepFrames is set.
	WorkDir    string
	KeepFrames bool
}

// DefaultOptions is a 36-frame full turn at ten frames per second.
func DefaultOptions() Options {
	return Options{
		Frames:      36,
		Delay:       10,
		RotateStart: 0,
		RotateEnd:   360,
	}
}

// Assembler renders frame sequences through an orchestrator and composes the
// results into animated GIFs.
type Assembler struct {
	orch *orchestrator.Orchestrator
}

// New wraps an orchestrator. A nil orchestrator gets the default pipeline.
func New(orch *orchestrator.Orchestrator) *Assembler {
	if orch == nil {
		orch = orchestrator.New()
	}
	return &Assembler{orch: orch}
}

// Assemble renders opts.Frames frames of the request's device, one at a time
// and in order, then encodes them into an animated GIF at gifPath. Any frame
// failure or encoding failure surfaces as a *render.CompositionError.
func (a *Assembler) Assemble(ctx context.Context, req orchestrator.Request, opts Options, gifPath string) error {
	if ctx == nil {
		return errors.New("sequence: context is required")
	}
	if opts.Frames < 1 {
		return &render.CompositionError{Frame: -1, Err: fmt.Errorf("frame count %d is not positive", opts.Frames)}
	}
	if gifPath == "" {
		return &render.CompositionError{Frame: -1, Err: errors.New("gif path is required")}
	}

	workDir := opts.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "scenegen-frames-")
		if err != nil {
			return &render.CompositionError{Frame: -1, Err: fmt.Errorf("create work dir: %w", err)}
		}
		workDir = dir
		if !opts.KeepFrames {
			defer os.RemoveAll(dir)
		}
	}

	frameFn := opts.Frame
	if frameFn == nil {
		frameFn = rotationSweep(opts.RotateStart, opts.RotateEnd)
	}

	base := scene.DefaultOptions()
	if req.Scene != nil {
		base = *req.Scene
	}

	framePaths := make([]string, 0, opts.Frames)
	for frame := 0; frame < opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return &render.CompositionError{Frame: frame, Err: err}
		}

		sceneOpts := frameFn(frame, opts.Frames, base)

		frameReq := req
		frameReq.Scene = &sceneOpts
		frameReq.ScenePath = filepath.Join(workDir, fmt.Sprintf("frame_%04d.pov", frame))
		frameReq.ImagePath = filepath.Join(workDir, fmt.Sprintf("frame_%04d.png", frame))
		frameReq.SceneOnly = false

		result, err := a.orch.Generate(ctx, frameReq)
		if err != nil {
			return &render.CompositionError{Frame: frame, Err: err}
		}
		framePaths = append(framePaths, result.ImagePath)
	}

	if err := composeGIF(framePaths, gifPath, opts); err != nil {
		return err
	}
	return nil
}

// rotationSweep spins the camera between the two angles, clearing any pinned
// camera placement so each frame is re-guessed from the new angle.
func rotationSweep(start, end float64) FrameFunc {
	return func(frame, total int, base scene.Options) scene.Options {
		opts := base
		opts.CameraRotate = start + (end-start)*float64(frame)/float64(total)
		opts.CameraLocation = nil
		opts.LookAt = nil
		opts.LightLocation = nil
		return opts
	}
}

func composeGIF(framePaths []string, gifPath string, opts Options) error {
	delay := opts.Delay
	if delay <= 0 {
		delay = 10
	}

	anim := &gif.GIF{LoopCount: opts.LoopCount}

	for frame, path := range framePaths {
		img, err := readFrame(path)
		if err != nil {
			return &render.CompositionError{Frame: frame, Err: err}
		}

		if opts.Width > 0 && opts.Height > 0 {
			img = transform.Resize(img, opts.Width, opts.Height, transform.Linear)
		}

		paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	out, err := os.Create(gifPath)
	if err != nil {
		return &render.CompositionError{Frame: -1, Err: fmt.Errorf("create gif: %w", err)}
	}
	if err := gif.EncodeAll(out, anim); err != nil {
		out.Close()
		return &render.CompositionError{Frame: -1, Err: fmt.Errorf("encode gif: %w", err)}
	}
	if err := out.Close(); err != nil {
		return &render.CompositionError{Frame: -1, Err: fmt.Errorf("close gif: %w", err)}
	}
	return nil
}

func readFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

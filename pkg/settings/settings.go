// Package settings loads YAML render profiles and maps them onto the
// pipeline's option structs, so invocations can be captured in a file instead
// of a long flag string.
package settings

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scenegen/pkg/render"
	"github.com/goliatone/go-scenegen/pkg/scene"
)

// Settings is the document shape of a render profile. Zero-value fields fall
// back to the pipeline defaults; pointer fields distinguish "absent" from an
// explicit zero.
type Settings struct {
	Scene    SceneSettings    `yaml:"scene"`
	Render   RenderSettings   `yaml:"render"`
	Povray   PovraySettings   `yaml:"povray"`
	Sequence SequenceSettings `yaml:"sequence"`
}

// SceneSettings configure the scene builder.
type SceneSettings struct {
	CameraStyle  string       `yaml:"camera_style"`
	CameraRotate *float64     `yaml:"camera_rotate"`
	OrthoAngle   *float64     `yaml:"ortho_angle"`
	Camera       *[3]float64  `yaml:"camera"`
	LookAt       *[3]float64  `yaml:"look_at"`
	Light        *[3]float64  `yaml:"light"`
	Background   *[3]float64  `yaml:"background"`
	Shadowless   bool         `yaml:"shadowless"`
	UnitCellsX   *int         `yaml:"unit_cells_x"`
	UnitCellsY   *int         `yaml:"unit_cells_y"`
	EdgeBuffer   bool         `yaml:"edge_buffer"`
	DefaultColor *bool        `yaml:"default_colors"`
	Colors       [][3]float64 `yaml:"colors"`
	Finish       string       `yaml:"finish"`
	CustomFinish string       `yaml:"custom_finish"`
	IOR          *float64     `yaml:"ior"`
}

// RenderSettings configure the renderer invocation.
type RenderSettings struct {
	Width       *int      `yaml:"width"`
	Height      *int      `yaml:"height"`
	Antialias   *bool     `yaml:"antialias"`
	Transparent *bool     `yaml:"transparent"`
	Display     bool      `yaml:"display"`
	Threads     int       `yaml:"threads"`
	Quality     int       `yaml:"quality"`
	Timeout     *Duration `yaml:"timeout"`
}

// Duration decodes Go duration strings ("90s", "2m") from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// PovraySettings configure the POV-Ray backend itself.
type PovraySettings struct {
	Binary     string   `yaml:"binary"`
	ExtraFlags []string `yaml:"extra_flags"`
}

// SequenceSettings configure animated sequences.
type SequenceSettings struct {
	Frames      *int     `yaml:"frames"`
	Delay       *int     `yaml:"delay"`
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	RotateStart *float64 `yaml:"rotate_start"`
	RotateEnd   *float64 `yaml:"rotate_end"`
}

// Load reads a settings file. Unknown keys are errors, so typos in profiles
// fail loudly instead of silently falling back to defaults.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}
	settings, err := Parse(raw)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return settings, nil
}

// Parse decodes a settings document from raw YAML.
func Parse(raw []byte) (Settings, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var settings Settings
	if err := decoder.Decode(&settings); err != nil {
		if err == io.EOF {
			return Settings{}, nil
		}
		return Settings{}, err
	}
	return settings, nil
}

// SceneOptions merges the profile over the default scene options.
func (s Settings) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	cfg := s.Scene

	if cfg.CameraStyle != "" {
		opts.CameraStyle = cfg.CameraStyle
	}
	if cfg.CameraRotate != nil {
		opts.CameraRotate = *cfg.CameraRotate
	}
	if cfg.OrthoAngle != nil {
		opts.OrthoAngle = *cfg.OrthoAngle
	}
	if cfg.Camera != nil {
		opts.CameraLocation = vec3(*cfg.Camera)
	}
	if cfg.LookAt != nil {
		opts.LookAt = vec3(*cfg.LookAt)
	}
	if cfg.Light != nil {
		opts.LightLocation = vec3(*cfg.Light)
	}
	if cfg.Background != nil {
		opts.Background = scene.RGB((*cfg.Background)[0], (*cfg.Background)[1], (*cfg.Background)[2])
	}
	opts.Shadowless = cfg.Shadowless
	if cfg.UnitCellsX != nil {
		opts.UnitCellsX = *cfg.UnitCellsX
	}
	if cfg.UnitCellsY != nil {
		opts.UnitCellsY = *cfg.UnitCellsY
	}
	opts.AddEdgeBuffer = cfg.EdgeBuffer
	if cfg.DefaultColor != nil {
		opts.UseDefaultColors = *cfg.DefaultColor
	}
	if len(cfg.Colors) > 0 {
		opts.UseDefaultColors = false
		opts.CustomColors = opts.CustomColors[:0]
		for _, c := range cfg.Colors {
			opts.CustomColors = append(opts.CustomColors, scene.RGB(c[0], c[1], c[2]))
		}
	}
	if cfg.Finish != "" {
		opts.Finish = cfg.Finish
	}
	if cfg.CustomFinish != "" {
		opts.Finish = scene.FinishCustom
		opts.CustomFinish = cfg.CustomFinish
	}
	if cfg.IOR != nil {
		opts.IOR = *cfg.IOR
	}

	return opts
}

// RenderOptions merges the profile over the default render options.
func (s Settings) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	cfg := s.Render

	if cfg.Width != nil {
		opts.Width = *cfg.Width
	}
	if cfg.Height != nil {
		opts.Height = *cfg.Height
	}
	if cfg.Antialias != nil {
		opts.Antialias = *cfg.Antialias
	}
	if cfg.Transparent != nil {
		opts.Transparent = *cfg.Transparent
	}
	opts.Display = cfg.Display
	opts.Threads = cfg.Threads
	opts.Quality = cfg.Quality
	if cfg.Timeout != nil {
		opts.Timeout = time.Duration(*cfg.Timeout)
	}

	return opts
}

func vec3(v [3]float64) *scene.Vec3 {
	out := scene.Vec3{v[0], v[1], v[2]}
	return &out
}

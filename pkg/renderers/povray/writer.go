package povray

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

// WriteScene emits a complete POV-Ray scene description: the templated
// header (camera, lights, background) followed by the unit cell
// declaration, the tiling merge, and any extra objects.
func (b *Backend) WriteScene(ctx context.Context, w io.Writer, sc *scene.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if sc == nil {
		return errors.New("povray: nil scene")
	}

	header, err := b.headerText(sc)
	if err != nil {
		return fmt.Errorf("povray: render scene header: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(header)
	if !strings.HasSuffix(header, "\n") {
		buf.WriteByte('\n')
	}

	buf.WriteString("#declare UnitCell = merge\n\t{\n")
	for _, obj := range sc.Cell {
		if err := writeObject(&buf, obj, 1); err != nil {
			return err
		}
	}
	buf.WriteString("\t}\n\n")

	if len(sc.Tiling) > 0 {
		buf.WriteString("merge\n\t{\n")
		for _, offset := range sc.Tiling {
			fmt.Fprintf(&buf, "\tobject { UnitCell translate %s }\n", formatVec(offset))
		}
		buf.WriteString("\t}\n")
	} else {
		buf.WriteString("object { UnitCell }\n")
	}

	for _, obj := range sc.Extras {
		buf.WriteByte('\n')
		if err := writeObject(&buf, obj, 0); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("povray: write scene: %w", err)
	}
	return nil
}

func (b *Backend) headerText(sc *scene.Scene) (string, error) {
	cam := sc.Camera

	style := "perspective"
	options := ""
	if cam.Style == scene.CameraOrthographic {
		style = "orthographic"
		options = "angle " + formatFloat(cam.Angle)
	}

	lights := make([]map[string]any, 0, len(sc.Lights))
	for _, light := range sc.Lights {
		lights = append(lights, map[string]any{
			"position":   formatVec(light.Position),
			"color":      formatRGB(light.Color),
			"shadowless": light.Shadowless,
		})
	}

	return b.templates.RenderTemplate(sceneTemplate, map[string]any{
		"background":     formatRGB(sc.Background),
		"camera_style":   style,
		"camera_options": options,
		"location":       formatVec(cam.Location),
		"look_at":        formatVec(cam.LookAt),
		"up":             formatVec(cam.Up),
		"right":          formatVec(cam.Right),
		"sky":            formatVec(cam.Sky),
		"lights":         lights,
	})
}

func writeObject(buf *strings.Builder, obj scene.Object, depth int) error {
	ind := strings.Repeat("\t", depth)

	switch o := obj.(type) {
	case scene.Cylinder:
		fmt.Fprintf(buf, "%scylinder\n%s\t{\n", ind, ind)
		fmt.Fprintf(buf, "%s\t%s, %s, %s\n",
			ind,
			formatVec3(o.Center[0], o.Center[1], o.Top),
			formatVec3(o.Center[0], o.Center[1], o.Bottom),
			formatFloat(o.Radius))
		writeAppearance(buf, o.Appearance, depth+1)
		fmt.Fprintf(buf, "%s\t}\n", ind)

	case scene.Ellipse:
		// A unit cylinder scaled to the halfwidths gives an elliptical
		// footprint; rotation happens about z before translation.
		height := o.Top - o.Bottom
		fmt.Fprintf(buf, "%scylinder\n%s\t{\n", ind, ind)
		fmt.Fprintf(buf, "%s\t<0, 0, 0>, <0, 0, %s>, 1\n", ind, formatFloat(-height))
		fmt.Fprintf(buf, "%s\tscale %s\n", ind, formatVec3(o.Halfwidths[0], o.Halfwidths[1], 1))
		if o.Angle != 0 {
			fmt.Fprintf(buf, "%s\trotate <0, 0, %s>\n", ind, formatFloat(o.Angle))
		}
		fmt.Fprintf(buf, "%s\ttranslate %s\n", ind, formatVec3(o.Center[0], o.Center[1], o.Top))
		writeAppearance(buf, o.Appearance, depth+1)
		fmt.Fprintf(buf, "%s\t}\n", ind)

	case scene.Rectangle:
		fmt.Fprintf(buf, "%sbox\n%s\t{\n", ind, ind)
		fmt.Fprintf(buf, "%s\t%s, %s\n",
			ind,
			formatVec3(-o.Halfwidths[0], -o.Halfwidths[1], o.Bottom-o.Top),
			formatVec3(o.Halfwidths[0], o.Halfwidths[1], 0))
		if o.Angle != 0 {
			fmt.Fprintf(buf, "%s\trotate <0, 0, %s>\n", ind, formatFloat(o.Angle))
		}
		fmt.Fprintf(buf, "%s\ttranslate %s\n", ind, formatVec3(o.Center[0], o.Center[1], o.Top))
		writeAppearance(buf, o.Appearance, depth+1)
		fmt.Fprintf(buf, "%s\t}\n", ind)

	case scene.Box:
		fmt.Fprintf(buf, "%sbox\n%s\t{\n", ind, ind)
		fmt.Fprintf(buf, "%s\t%s, %s\n", ind, formatVec(o.Min), formatVec(o.Max))
		writeAppearance(buf, o.Appearance, depth+1)
		fmt.Fprintf(buf, "%s\t}\n", ind)

	case scene.Difference:
		fmt.Fprintf(buf, "%sdifference\n%s\t{\n", ind, ind)
		if err := writeObject(buf, o.Outer, depth+1); err != nil {
			return err
		}
		for _, hole := range o.Holes {
			if err := writeObject(buf, hole, depth+1); err != nil {
				return err
			}
		}
		writeAppearance(buf, o.Appearance, depth+1)
		fmt.Fprintf(buf, "%s\t}\n", ind)

	default:
		return &scene.FormatError{Kind: fmt.Sprintf("%T", obj), Layer: -1, Index: -1}
	}

	return nil
}

func writeAppearance(buf *strings.Builder, app *scene.Appearance, depth int) {
	if app == nil {
		return
	}

	ind := strings.Repeat("\t", depth)
	fmt.Fprintf(buf, "%spigment { color rgbft %s }\n", ind, formatColor(pigmentColor(app)))

	// The finish blocks embed their own indentation below the first line.
	if finish := resolveFinish(app); finish != "" {
		buf.WriteString(ind)
		buf.WriteString(finish)
	}
}

// formatFloat renders a coordinate with the shortest representation
// that survives a round trip through ParseFloat.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatVec3(x, y, z float64) string {
	return fmt.Sprintf("<%s, %s, %s>", formatFloat(x), formatFloat(y), formatFloat(z))
}

func formatVec(v scene.Vec3) string {
	return formatVec3(v[0], v[1], v[2])
}

func formatRGB(c scene.Color) string {
	return formatVec3(c.R, c.G, c.B)
}

func formatColor(c scene.Color) string {
	return fmt.Sprintf("<%s, %s, %s, %s, %s>",
		formatFloat(c.R), formatFloat(c.G), formatFloat(c.B),
		formatFloat(c.Filter), formatFloat(c.Transmit))
}

package povray

import (
	"fmt"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

// finishText holds the POV-Ray finish/interior blocks for each preset,
// indented to sit inside an object statement. The translucent preset takes
// the index of refraction as a format argument.
var finishText = map[string]string{
	scene.FinishSilicon: `finish
			{
			diffuse 0.2
			brilliance 5
			phong 1
			phong_size 250
			roughness 0.01
			reflection <0.10, 0.10, 0.5> metallic
			metallic
			}
		interior { ior 4.24 }
`,
	scene.FinishSilica: `finish
			{
			specular 0.6
			brilliance 5
			roughness 0.001
			reflection { 0.0, 1.0 fresnel on }
			}
		interior { ior 1.45 }
`,
	scene.FinishTranslucent: `finish
			{
			emission 0.25
			diffuse 0.75
			specular 0.4
			brilliance 4
			reflection { 0.5 fresnel on }
			}
		interior { ior %s }
`,
	scene.FinishGlass: `finish
			{
			specular 0.6
			phong 0.8
			brilliance 5
			reflection { 0.2, 1.0 fresnel on }
			}
		interior { ior 1.5 }
`,
	scene.FinishDullMetal: `finish
			{
			emission 0.1
			diffuse 0.1
			specular 1.0
			roughness 0.001
			reflection 0.5 metallic
			metallic
			}
`,
	scene.FinishBrightMetal: `finish
			{
			emission 0.2
			diffuse 0.3
			specular 0.8
			roughness 0.01
			reflection 0.5 metallic
			metallic
			}
`,
	scene.FinishIrid: `finish
			{
			phong 0.5
			reflection { 0.2 metallic }
			diffuse 0.3
			irid { 0.75 thickness 0.5 turbulence 0.5 }
			}
		interior { ior 1.5 }
`,
	scene.FinishBilliard: `finish
			{
			ambient 0.3
			diffuse 0.8
			specular 0.2
			roughness 0.005
			metallic 0.5
			}
`,
}

// finishOverrides are the filter/transmit values certain finishes force onto
// the pigment, regardless of the configured color.
var finishOverrides = map[string][2]float64{
	scene.FinishSilica:      {0.98, 0},
	scene.FinishTranslucent: {0.50, 0.02},
	scene.FinishGlass:       {0.95, 0},
	scene.FinishIrid:        {0.70, 0},
}

// alias maps the lowercase spelling accepted for the silicon finish.
const siliconAlias = "silicon"

// resolveFinish returns the finish block for an appearance, or "" when the
// finish is dull or unknown.
func resolveFinish(app *scene.Appearance) string {
	if app == nil {
		return ""
	}
	name := app.Finish
	if name == siliconAlias {
		name = scene.FinishSilicon
	}
	if name == scene.FinishCustom {
		return app.CustomFinish
	}
	text, ok := finishText[name]
	if !ok {
		return ""
	}
	if name == scene.FinishTranslucent {
		return fmt.Sprintf(text, formatFloat(app.IOR))
	}
	return text
}

// pigmentColor applies the finish's filter/transmit overrides to the
// configured pigment.
func pigmentColor(app *scene.Appearance) scene.Color {
	color := app.Pigment
	name := app.Finish
	if name == siliconAlias {
		name = scene.FinishSilicon
	}
	if ft, ok := finishOverrides[name]; ok {
		color.Filter = ft[0]
		color.Transmit = ft[1]
	}
	return color
}

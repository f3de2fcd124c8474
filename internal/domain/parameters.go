package domain

import (
	"slices"
	"strings"
)

// Parameter names as they appear on the wire and in fingerprints.
const (
	ParamCameraAngle  = "camera_angle"
	ParamFOV          = "fov"
	ParamLighting     = "lighting"
	ParamColorPalette = "color_palette"
	ParamComposition  = "composition"
	ParamStyle        = "style"
)

// Parameters are the optional generation controls. An empty field is unset.
type Parameters struct {
	CameraAngle  string `json:"camera_angle,omitempty"  yaml:"camera_angle"`
	FOV          string `json:"fov,omitempty"           yaml:"fov"`
	Lighting     string `json:"lighting,omitempty"      yaml:"lighting"`
	ColorPalette string `json:"color_palette,omitempty" yaml:"color_palette"`
	Composition  string `json:"composition,omitempty"   yaml:"composition"`
	Style        string `json:"style,omitempty"         yaml:"style"`
}

//nolint:gochecknoglobals // Fixed option catalog.
var parameterOptions = map[string][]string{
	ParamCameraAngle: {
		"eye-level", "low-angle", "high-angle", "dutch-tilt",
		"bird's-eye", "worm's-eye", "over-the-shoulder",
	},
	ParamFOV: {
		"wide", "standard", "telephoto", "ultra-wide", "macro",
	},
	ParamLighting: {
		"natural", "studio", "dramatic", "golden-hour", "soft",
		"hard", "rim", "backlit", "three-point",
	},
	ParamColorPalette: {
		"vibrant", "pastel", "monochrome", "warm", "cool",
		"neon", "earth-tones", "jewel-tones",
	},
	ParamComposition: {
		"rule-of-thirds", "centered", "dynamic", "minimal",
		"symmetrical", "leading-lines", "frame-within-frame",
	},
	ParamStyle: {
		"photorealistic", "cinematic", "editorial", "commercial",
		"artistic", "documentary", "fashion", "product",
	},
}

// ParameterOptions returns a copy of the allowed values per parameter.
func ParameterOptions() map[string][]string {
	out := make(map[string][]string, len(parameterOptions))
	for name, values := range parameterOptions {
		out[name] = slices.Clone(values)
	}
	return out
}

// DefaultParameters are used in AI mode when no suggestion is available.
func DefaultParameters() Parameters {
	return Parameters{
		CameraAngle:  "eye-level",
		FOV:          "standard",
		Lighting:     "studio",
		ColorPalette: "vibrant",
		Composition:  "rule-of-thirds",
		Style:        "photorealistic",
	}
}

// Fields returns the set parameters keyed by name.
func (p Parameters) Fields() map[string]string {
	all := map[string]string{
		ParamCameraAngle:  p.CameraAngle,
		ParamFOV:          p.FOV,
		ParamLighting:     p.Lighting,
		ParamColorPalette: p.ColorPalette,
		ParamComposition:  p.Composition,
		ParamStyle:        p.Style,
	}

	fields := make(map[string]string, len(all))
	for name, value := range all {
		if value != "" {
			fields[name] = value
		}
	}
	return fields
}

// Count returns the number of set parameters.
func (p Parameters) Count() int {
	return len(p.Fields())
}

// Merge fills the unset fields of p from other.
func (p Parameters) Merge(other Parameters) Parameters {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}

	return Parameters{
		CameraAngle:  pick(p.CameraAngle, other.CameraAngle),
		FOV:          pick(p.FOV, other.FOV),
		Lighting:     pick(p.Lighting, other.Lighting),
		ColorPalette: pick(p.ColorPalette, other.ColorPalette),
		Composition:  pick(p.Composition, other.Composition),
		Style:        pick(p.Style, other.Style),
	}
}

// normalize trims and lowercases every field.
func (p Parameters) normalize() Parameters {
	norm := func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	}

	return Parameters{
		CameraAngle:  norm(p.CameraAngle),
		FOV:          norm(p.FOV),
		Lighting:     norm(p.Lighting),
		ColorPalette: norm(p.ColorPalette),
		Composition:  norm(p.Composition),
		Style:        norm(p.Style),
	}
}

// validate checks every set field against the option catalog. p must be normalized.
func (p Parameters) validate() error {
	names := make([]string, 0, len(parameterOptions))
	fields := p.Fields()
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if !slices.Contains(parameterOptions[name], fields[name]) {
			return &ValidationError{
				Field:  name,
				Reason: "unrecognized value " + quote(fields[name]),
			}
		}
	}
	return nil
}

// Sanitize normalizes p and drops any value outside the catalog.
func (p Parameters) Sanitize() Parameters {
	norm := p.normalize()
	keep := func(name, v string) string {
		if slices.Contains(parameterOptions[name], v) {
			return v
		}
		return ""
	}

	return Parameters{
		CameraAngle:  keep(ParamCameraAngle, norm.CameraAngle),
		FOV:          keep(ParamFOV, norm.FOV),
		Lighting:     keep(ParamLighting, norm.Lighting),
		ColorPalette: keep(ParamColorPalette, norm.ColorPalette),
		Composition:  keep(ParamComposition, norm.Composition),
		Style:        keep(ParamStyle, norm.Style),
	}
}

func quote(s string) string {
	return "\"" + s + "\""
}

// EnrichPrompt appends the set parameters to prompt as a comma separated description,
// for providers that take free text only.
func (p Parameters) EnrichPrompt(prompt string) string {
	labels := []struct {
		label string
		value string
	}{
		{"camera angle", p.CameraAngle},
		{"field of view", p.FOV},
		{"lighting", p.Lighting},
		{"color palette", p.ColorPalette},
		{"composition", p.Composition},
		{"style", p.Style},
	}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.value != "" {
			parts = append(parts, l.label+": "+l.value)
		}
	}
	if len(parts) == 0 {
		return prompt
	}
	return prompt + ", " + strings.Join(parts, ", ")
}

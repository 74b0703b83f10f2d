// Package taskconfig turns a raw configuration request into the single
// validated, immutable config a render runs against. Validation happens
// once, here; the pipeline never re-checks ranges.
package taskconfig

import (
	"fmt"
	"strings"

	"videomix/internal/catalog"
	"videomix/internal/effect"
	"videomix/internal/media"
	"videomix/internal/subtitle"
	"videomix/internal/transition"
)

// Request is the raw configuration a client submits. Pointer fields
// distinguish "absent, use the default" from a deliberate zero, which
// matters for saturation, stroke width and the BGM fields.
type Request struct {
	Resolution     string `json:"resolution,omitempty"`
	Layout         string `json:"layout,omitempty"`
	FPS            int    `json:"fps,omitempty"`
	PlatformPreset string `json:"platform_preset,omitempty"`
	FitMode        string `json:"fit_mode,omitempty"`

	ClipMinDuration *float64 `json:"clip_min_duration,omitempty"`
	ClipMaxDuration *float64 `json:"clip_max_duration,omitempty"`

	TransitionEnabled  *bool    `json:"transition_enabled,omitempty"`
	TransitionType     string   `json:"transition_type,omitempty"`
	TransitionDuration *float64 `json:"transition_duration,omitempty"`

	SubtitleEnabled     *bool    `json:"subtitle_enabled,omitempty"`
	SubtitleFont        string   `json:"subtitle_font,omitempty"`
	SubtitleSize        *int     `json:"subtitle_size,omitempty"`
	SubtitleColor       string   `json:"subtitle_color,omitempty"`
	SubtitleStrokeColor string   `json:"subtitle_stroke_color,omitempty"`
	SubtitleStrokeWidth *float64 `json:"subtitle_stroke_width,omitempty"`
	SubtitlePosition    string   `json:"subtitle_position,omitempty"`
	SubtitleLineSpacing *int     `json:"subtitle_line_spacing,omitempty"`

	EffectType  string   `json:"effect_type,omitempty"`
	ColorFilter string   `json:"color_filter,omitempty"`
	Brightness  *float64 `json:"brightness,omitempty"`
	Contrast    *float64 `json:"contrast,omitempty"`
	Saturation  *float64 `json:"saturation,omitempty"`

	BGMEnabled *bool    `json:"bgm_enabled,omitempty"`
	BGMVolume  *float64 `json:"bgm_volume,omitempty"`
	BGMFadeIn  *float64 `json:"bgm_fade_in,omitempty"`
	BGMFadeOut *float64 `json:"bgm_fade_out,omitempty"`

	OutputQuality string `json:"output_quality,omitempty"`
}

// Config is the fully populated, validated configuration for one render.
// Never mutated after Validate; a changed config is a new Config.
type Config struct {
	Resolution catalog.Resolution
	Layout     catalog.Layout
	FPS        int
	FitMode    media.FitMode

	ClipMinDuration float64
	ClipMaxDuration float64

	TransitionEnabled  bool
	Transition         transition.Kind
	TransitionDuration float64

	SubtitleEnabled bool
	Subtitle        subtitle.Style

	Effect      effect.Kind
	ColorFilter effect.Filter
	Adjustments effect.Adjustments

	BGMEnabled bool
	BGMVolume  float64
	BGMFadeIn  float64
	BGMFadeOut float64

	Quality catalog.Quality
}

// Violation is one field failing validation.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// InvalidConfigError carries every violation found in a request, so the
// API can report all problems in one response.
type InvalidConfigError struct {
	Violations []Violation
}

func (e *InvalidConfigError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

func f64(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func i(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func b(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// Validate merges defaults into req, expands the platform preset and
// checks every field against the catalog. All violations are collected;
// the returned Config is only meaningful when the error is nil.
func Validate(req Request, cat *catalog.Catalog) (Config, error) {
	var violations []Violation
	bad := func(field, format string, args ...interface{}) {
		violations = append(violations, Violation{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	cfg := Config{
		Resolution: catalog.DefaultResolution,
		Layout:     catalog.DefaultLayout,
		FPS:        catalog.DefaultFPS,
	}

	if req.Resolution != "" {
		cfg.Resolution = catalog.Resolution(req.Resolution)
		if !cat.ValidResolution(cfg.Resolution) {
			bad("resolution", "unknown resolution %q", req.Resolution)
		}
	}
	if req.Layout != "" {
		cfg.Layout = catalog.Layout(req.Layout)
		if !cat.ValidLayout(cfg.Layout) {
			bad("layout", "unknown layout %q", req.Layout)
		}
	}
	if req.FPS != 0 {
		cfg.FPS = req.FPS
		if !cat.ValidFPS(cfg.FPS) {
			bad("fps", "unsupported frame rate %d", req.FPS)
		}
	}

	// A preset overrides resolution/layout/fps before geometry resolution.
	if req.PlatformPreset != "" {
		spec, ok := cat.ExpandPreset(req.PlatformPreset)
		if !ok {
			bad("platform_preset", "unknown platform preset %q", req.PlatformPreset)
		} else {
			cfg.Resolution = spec.Resolution
			cfg.Layout = spec.Layout
			cfg.FPS = spec.FPS
		}
	}

	cfg.FitMode = catalog.DefaultFitMode
	if req.FitMode != "" {
		fm, ok := media.ParseFitMode(req.FitMode)
		if !ok {
			bad("fit_mode", "unknown fit mode %q", req.FitMode)
		}
		cfg.FitMode = fm
	}

	cfg.ClipMinDuration = f64(req.ClipMinDuration, catalog.DefaultClipMin)
	cfg.ClipMaxDuration = f64(req.ClipMaxDuration, catalog.DefaultClipMax)
	if cfg.ClipMinDuration < catalog.ClipDurationMin || cfg.ClipMinDuration > catalog.ClipMinDurationCap {
		bad("clip_min_duration", "%.2f outside [%.0f,%.0f]", cfg.ClipMinDuration, catalog.ClipDurationMin, catalog.ClipMinDurationCap)
	}
	if cfg.ClipMaxDuration < catalog.ClipDurationMin || cfg.ClipMaxDuration > catalog.ClipDurationMax {
		bad("clip_max_duration", "%.2f outside [%.0f,%.0f]", cfg.ClipMaxDuration, catalog.ClipDurationMin, catalog.ClipDurationMax)
	}
	if cfg.ClipMinDuration > cfg.ClipMaxDuration {
		bad("clip_min_duration", "min %.2f exceeds max %.2f", cfg.ClipMinDuration, cfg.ClipMaxDuration)
	}

	// Transition fields are ignored, not validated, when disabled.
	cfg.TransitionEnabled = b(req.TransitionEnabled, true)
	cfg.Transition = catalog.DefaultTransition
	cfg.TransitionDuration = catalog.DefaultTransDur
	if cfg.TransitionEnabled {
		if req.TransitionType != "" {
			k, ok := transition.Parse(req.TransitionType)
			if !ok {
				bad("transition_type", "unknown transition %q", req.TransitionType)
			}
			cfg.Transition = k
		}
		cfg.TransitionDuration = f64(req.TransitionDuration, catalog.DefaultTransDur)
		if cfg.TransitionDuration < catalog.TransDurMin || cfg.TransitionDuration > catalog.TransDurMax {
			bad("transition_duration", "%.2f outside [%.1f,%.1f]", cfg.TransitionDuration, catalog.TransDurMin, catalog.TransDurMax)
		}
	} else {
		cfg.Transition = transition.None
	}

	cfg.SubtitleEnabled = b(req.SubtitleEnabled, true)
	cfg.Subtitle = subtitle.Style{
		Font:        catalog.DefaultSubFont,
		Size:        i(req.SubtitleSize, catalog.DefaultSubSize),
		Color:       catalog.DefaultSubColor,
		StrokeColor: catalog.DefaultSubStroke,
		StrokeWidth: f64(req.SubtitleStrokeWidth, catalog.DefaultSubStrokeW),
		Position:    catalog.DefaultSubPosition,
		LineSpacing: i(req.SubtitleLineSpacing, 0),
	}
	if req.SubtitleFont != "" {
		cfg.Subtitle.Font = req.SubtitleFont
	}
	if req.SubtitleColor != "" {
		cfg.Subtitle.Color = req.SubtitleColor
	}
	if req.SubtitleStrokeColor != "" {
		cfg.Subtitle.StrokeColor = req.SubtitleStrokeColor
	}
	if cfg.SubtitleEnabled {
		if cfg.Subtitle.Size < catalog.SubSizeMin || cfg.Subtitle.Size > catalog.SubSizeMax {
			bad("subtitle_size", "%d outside [%d,%d]", cfg.Subtitle.Size, catalog.SubSizeMin, catalog.SubSizeMax)
		}
		if cfg.Subtitle.StrokeWidth < catalog.SubStrokeMin || cfg.Subtitle.StrokeWidth > catalog.SubStrokeMax {
			bad("subtitle_stroke_width", "%.2f outside [%.0f,%.0f]", cfg.Subtitle.StrokeWidth, catalog.SubStrokeMin, catalog.SubStrokeMax)
		}
		if req.SubtitlePosition != "" {
			pos, ok := subtitle.ParsePosition(req.SubtitlePosition)
			if !ok {
				bad("subtitle_position", "unknown position %q", req.SubtitlePosition)
			}
			cfg.Subtitle.Position = pos
		}
	}

	if req.EffectType != "" {
		k, ok := effect.Parse(req.EffectType)
		if !ok {
			bad("effect_type", "unknown effect %q", req.EffectType)
		}
		cfg.Effect = k
	} else {
		cfg.Effect = effect.EffectNone
	}
	if req.ColorFilter != "" {
		f, ok := effect.ParseFilter(req.ColorFilter)
		if !ok {
			bad("color_filter", "unknown color filter %q", req.ColorFilter)
		}
		cfg.ColorFilter = f
	} else {
		cfg.ColorFilter = effect.FilterNone
	}

	cfg.Adjustments = effect.Adjustments{
		Brightness: f64(req.Brightness, catalog.DefaultBrightness),
		Contrast:   f64(req.Contrast, catalog.DefaultContrast),
		Saturation: f64(req.Saturation, catalog.DefaultSaturation),
	}
	if cfg.Adjustments.Brightness < catalog.BrightnessMin || cfg.Adjustments.Brightness > catalog.BrightnessMax {
		bad("brightness", "%.2f outside [%.1f,%.1f]", cfg.Adjustments.Brightness, catalog.BrightnessMin, catalog.BrightnessMax)
	}
	if cfg.Adjustments.Contrast < catalog.ContrastMin || cfg.Adjustments.Contrast > catalog.ContrastMax {
		bad("contrast", "%.2f outside [%.1f,%.1f]", cfg.Adjustments.Contrast, catalog.ContrastMin, catalog.ContrastMax)
	}
	if cfg.Adjustments.Saturation < catalog.SaturationMin || cfg.Adjustments.Saturation > catalog.SaturationMax {
		bad("saturation", "%.2f outside [%.0f,%.1f]", cfg.Adjustments.Saturation, catalog.SaturationMin, catalog.SaturationMax)
	}

	cfg.BGMEnabled = b(req.BGMEnabled, false)
	cfg.BGMVolume = f64(req.BGMVolume, catalog.DefaultBGMVolume)
	cfg.BGMFadeIn = f64(req.BGMFadeIn, 0)
	cfg.BGMFadeOut = f64(req.BGMFadeOut, 0)
	if cfg.BGMEnabled {
		if cfg.BGMVolume < catalog.BGMVolumeMin || cfg.BGMVolume > catalog.BGMVolumeMax {
			bad("bgm_volume", "%.2f outside [%.0f,%.0f]", cfg.BGMVolume, catalog.BGMVolumeMin, catalog.BGMVolumeMax)
		}
		if cfg.BGMFadeIn < catalog.BGMFadeMin || cfg.BGMFadeIn > catalog.BGMFadeMax {
			bad("bgm_fade_in", "%.2f outside [%.0f,%.0f]", cfg.BGMFadeIn, catalog.BGMFadeMin, catalog.BGMFadeMax)
		}
		if cfg.BGMFadeOut < catalog.BGMFadeMin || cfg.BGMFadeOut > catalog.BGMFadeMax {
			bad("bgm_fade_out", "%.2f outside [%.0f,%.0f]", cfg.BGMFadeOut, catalog.BGMFadeMin, catalog.BGMFadeMax)
		}
	}

	cfg.Quality = catalog.DefaultQuality
	if req.OutputQuality != "" {
		cfg.Quality = catalog.Quality(req.OutputQuality)
		if !cat.ValidQuality(cfg.Quality) {
			bad("output_quality", "unknown quality %q", req.OutputQuality)
		}
	}

	if len(violations) > 0 {
		return Config{}, &InvalidConfigError{Violations: violations}
	}
	return cfg, nil
}

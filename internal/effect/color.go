package effect

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Filter identifies a named color look applied before the per-field
// brightness/contrast/saturation adjustments.
type Filter string

const (
	FilterNone   Filter = "none"
	Grayscale    Filter = "grayscale"
	Vintage      Filter = "vintage"
	Warm         Filter = "warm"
	Cool         Filter = "cool"
	HighContrast Filter = "high_contrast"
	Soft         Filter = "soft"
)

// FilterNames lists every valid color filter in catalog order.
var FilterNames = []string{
	string(FilterNone), string(Grayscale), string(Vintage),
	string(Warm), string(Cool), string(HighContrast), string(Soft),
}

// ParseFilter maps a config string onto a Filter.
func ParseFilter(s string) (Filter, bool) {
	if s == "" {
		return FilterNone, true
	}
	for _, n := range FilterNames {
		if s == n {
			return Filter(s), true
		}
	}
	return FilterNone, false
}

// colorStep is one link in a named look's filter chain.
type colorStep struct {
	name   string
	args   ffmpeg.Args
	kwargs ffmpeg.KwArgs
}

// filterChain returns the ffmpeg steps realizing a named look. Values
// approximate the classic looks: vintage desaturates and warms with a
// vignette, warm/cool shift channel gains, soft blurs and lifts.
func filterChain(f Filter) []colorStep {
	switch f {
	case Grayscale:
		return []colorStep{{name: "hue", kwargs: ffmpeg.KwArgs{"s": 0}}}
	case Vintage:
		return []colorStep{
			{name: "eq", kwargs: ffmpeg.KwArgs{"saturation": 0.55, "contrast": 0.9}},
			{name: "colorchannelmixer", kwargs: ffmpeg.KwArgs{"rr": 1.1, "gg": 1.0, "bb": 0.85}},
			{name: "vignette", kwargs: ffmpeg.KwArgs{"angle": "PI/5"}},
		}
	case Warm:
		return []colorStep{{name: "colorchannelmixer", kwargs: ffmpeg.KwArgs{"rr": 1.15, "gg": 1.05, "bb": 0.85}}}
	case Cool:
		return []colorStep{{name: "colorchannelmixer", kwargs: ffmpeg.KwArgs{"rr": 0.9, "gg": 0.95, "bb": 1.15}}}
	case HighContrast:
		return []colorStep{{name: "eq", kwargs: ffmpeg.KwArgs{"contrast": 1.4}}}
	case Soft:
		return []colorStep{
			{name: "gblur", kwargs: ffmpeg.KwArgs{"sigma": 0.5}},
			{name: "eq", kwargs: ffmpeg.KwArgs{"contrast": 0.85, "brightness": 0.05}},
		}
	}
	return nil
}

// Adjustments holds the per-field color adjustments from the task config.
// 1.0 is identity for every field.
type Adjustments struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// identity reports whether the adjustments would not change any pixel.
func (a Adjustments) identity() bool {
	return a.Brightness == 1.0 && a.Contrast == 1.0 && a.Saturation == 1.0
}

// ApplyColor attaches the named look and then the adjustments to a clip
// stream. The eq filter takes brightness as an additive offset, so the
// multiplicative config value maps through value-1.
func ApplyColor(in *ffmpeg.Stream, f Filter, adj Adjustments) *ffmpeg.Stream {
	out := in
	for _, step := range filterChain(f) {
		args := step.args
		if args == nil {
			args = ffmpeg.Args{}
		}
		if step.kwargs != nil {
			out = out.Filter(step.name, args, step.kwargs)
		} else {
			out = out.Filter(step.name, args)
		}
	}
	if !adj.identity() {
		out = out.Filter("eq", ffmpeg.Args{}, ffmpeg.KwArgs{
			"brightness": fmt.Sprintf("%.3f", adj.Brightness-1.0),
			"contrast":   fmt.Sprintf("%.3f", adj.Contrast),
			"saturation": fmt.Sprintf("%.3f", adj.Saturation),
		})
	}
	return out
}

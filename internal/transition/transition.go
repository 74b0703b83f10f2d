package transition

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Kind identifies one of the supported clip-to-clip transitions.
type Kind string

const (
	None       Kind = "none"
	Fade       Kind = "fade"
	SlideLeft  Kind = "slide_left"
	SlideRight Kind = "slide_right"
	SlideUp    Kind = "slide_up"
	SlideDown  Kind = "slide_down"
	ZoomIn     Kind = "zoom_in"
	ZoomOut    Kind = "zoom_out"
	Dissolve   Kind = "dissolve"
	WipeLeft   Kind = "wipe_left"
	WipeRight  Kind = "wipe_right"
)

// Names lists every valid transition in catalog order.
var Names = []string{
	string(None), string(Fade),
	string(SlideLeft), string(SlideRight), string(SlideUp), string(SlideDown),
	string(ZoomIn), string(ZoomOut),
	string(Dissolve), string(WipeLeft), string(WipeRight),
}

// xfade filter names keyed by Kind. zoom_out has no reverse variant in
// xfade, so it shares the zoomin curve.
var xfadeNames = map[Kind]string{
	Fade:       "fade",
	SlideLeft:  "slideleft",
	SlideRight: "slideright",
	SlideUp:    "slideup",
	SlideDown:  "slidedown",
	ZoomIn:     "zoomin",
	ZoomOut:    "zoomin",
	Dissolve:   "dissolve",
	WipeLeft:   "wipeleft",
	WipeRight:  "wiperight",
}

// Parse maps a config string onto a Kind.
func Parse(s string) (Kind, bool) {
	if s == string(None) {
		return None, true
	}
	k := Kind(s)
	if _, ok := xfadeNames[k]; ok {
		return k, true
	}
	return None, false
}

// Blends reports whether the transition overlaps its two clips in time.
// Only none concatenates without overlap.
func (k Kind) Blends() bool {
	_, ok := xfadeNames[k]
	return ok
}

// XfadeName returns the ffmpeg xfade transition identifier for k.
func (k Kind) XfadeName() string {
	return xfadeNames[k]
}

// Error reports a clip pair the engine cannot join.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "transition: " + e.Reason
}

// CompositeDuration returns the duration of joining two clips with k.
// Blending kinds overlap the last d seconds of A with the first d of B.
func CompositeDuration(durA, durB float64, k Kind, d float64) float64 {
	if !k.Blends() {
		return durA + durB
	}
	return durA + durB - d
}

// ChainDuration returns the duration of the full clip sequence joined
// pairwise with k.
func ChainDuration(durs []float64, k Kind, d float64) float64 {
	total := 0.0
	for _, dur := range durs {
		total += dur
	}
	if k.Blends() && len(durs) > 1 {
		total -= float64(len(durs)-1) * d
	}
	return total
}

// Apply joins clip a (durA seconds long) to clip b. For blending kinds the
// xfade offset is durA-d, so b starts while a's tail is still visible.
func Apply(a, b *ffmpeg.Stream, durA float64, k Kind, d float64) (*ffmpeg.Stream, error) {
	if !k.Blends() {
		return ffmpeg.Concat([]*ffmpeg.Stream{a, b}), nil
	}
	if d <= 0 {
		return nil, &Error{Reason: fmt.Sprintf("non-positive duration %.2f", d)}
	}
	if durA <= d {
		return nil, &Error{Reason: fmt.Sprintf("clip too short for %.2fs overlap (%.2fs)", d, durA)}
	}
	return ffmpeg.Filter([]*ffmpeg.Stream{a, b}, "xfade", ffmpeg.Args{}, ffmpeg.KwArgs{
		"transition": k.XfadeName(),
		"duration":   fmt.Sprintf("%.3f", d),
		"offset":     fmt.Sprintf("%.3f", durA-d),
	}), nil
}

// Chain folds Apply across an ordered clip sequence. Clip order must match
// the segment plan; durs[i] is the duration of clips[i].
func Chain(clips []*ffmpeg.Stream, durs []float64, k Kind, d float64) (*ffmpeg.Stream, error) {
	if len(clips) == 0 {
		return nil, &Error{Reason: "empty clip sequence"}
	}
	if len(clips) != len(durs) {
		return nil, &Error{Reason: "clip/duration count mismatch"}
	}
	out := clips[0]
	elapsed := durs[0]
	for i := 1; i < len(clips); i++ {
		joined, err := Apply(out, clips[i], elapsed, k, d)
		if err != nil {
			return nil, err
		}
		out = joined
		elapsed = CompositeDuration(elapsed, durs[i], k, d)
	}
	return out, nil
}

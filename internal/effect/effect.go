package effect

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Kind identifies a time-varying motion effect applied to one clip.
type Kind string

const (
	EffectNone  Kind = "none"
	KenBurnsIn  Kind = "ken_burns_in"
	KenBurnsOut Kind = "ken_burns_out"
	ZoomIn      Kind = "zoom_in"
	ZoomOut     Kind = "zoom_out"
	PanLeft     Kind = "pan_left"
	PanRight    Kind = "pan_right"
	PanUp       Kind = "pan_up"
	PanDown     Kind = "pan_down"
	Shake       Kind = "shake"
)

// Names lists every valid effect in catalog order.
var Names = []string{
	string(EffectNone),
	string(KenBurnsIn), string(KenBurnsOut),
	string(ZoomIn), string(ZoomOut),
	string(PanLeft), string(PanRight), string(PanUp), string(PanDown),
	string(Shake),
}

// Parse maps a config string onto a Kind.
func Parse(s string) (Kind, bool) {
	if s == "" {
		return EffectNone, true
	}
	for _, n := range Names {
		if s == n {
			return Kind(s), true
		}
	}
	return EffectNone, false
}

// Error reports a clip the processor cannot transform.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "effect: " + e.Reason
}

// zoomRatio is the Ken Burns end scale; motion spans the clip's full
// duration from 1.0 to this value (or the reverse).
const zoomRatio = 1.2

// shakeAmplitude is the jitter crop margin in source pixels. The clip is
// pre-scaled up by the same margin so the crop window never leaves the frame.
const shakeAmplitude = 16

// ZoomPan holds the zoompan filter expressions for a motion effect.
type ZoomPan struct {
	Zoom string
	X    string
	Y    string
}

// centerX/centerY keep the zoom window centered on the frame.
const (
	centerX = "iw/2-(iw/zoom/2)"
	centerY = "ih/2-(ih/zoom/2)"
)

// Motion returns the zoompan expressions for k over a clip of the given
// frame count. Pans hold a fixed zoom so the window has room to travel
// edge to edge without revealing out-of-frame area.
func Motion(k Kind, frames int) (ZoomPan, bool) {
	if frames < 1 {
		frames = 1
	}
	rate := (zoomRatio - 1.0) / float64(frames)
	progress := fmt.Sprintf("(on/%d)", frames)
	travelX := fmt.Sprintf("(iw-iw/zoom)*%s", progress)
	travelY := fmt.Sprintf("(ih-ih/zoom)*%s", progress)

	switch k {
	case KenBurnsIn, ZoomIn:
		return ZoomPan{
			Zoom: fmt.Sprintf("min(zoom+%.6f,%.2f)", rate, zoomRatio),
			X:    centerX,
			Y:    centerY,
		}, true
	case KenBurnsOut, ZoomOut:
		return ZoomPan{
			Zoom: fmt.Sprintf("if(eq(on,1),%.2f,max(zoom-%.6f,1.0))", zoomRatio, rate),
			X:    centerX,
			Y:    centerY,
		}, true
	case PanLeft:
		return ZoomPan{Zoom: fmt.Sprintf("%.2f", zoomRatio), X: fmt.Sprintf("(iw-iw/zoom)-%s", travelX), Y: centerY}, true
	case PanRight:
		return ZoomPan{Zoom: fmt.Sprintf("%.2f", zoomRatio), X: travelX, Y: centerY}, true
	case PanUp:
		return ZoomPan{Zoom: fmt.Sprintf("%.2f", zoomRatio), X: centerX, Y: fmt.Sprintf("(ih-ih/zoom)-%s", travelY)}, true
	case PanDown:
		return ZoomPan{Zoom: fmt.Sprintf("%.2f", zoomRatio), X: centerX, Y: travelY}, true
	}
	return ZoomPan{}, false
}

// Animated reports whether k animates through zoompan. Still images with
// an animated effect enter the graph as a single frame; zoompan itself
// emits the clip's frames.
func (k Kind) Animated() bool {
	_, ok := Motion(k, 1)
	return ok
}

// Apply attaches k's filter chain to a clip stream rendered at w x h.
// The zoompan input is pre-scaled up to smooth sub-pixel motion, the same
// trick slideshow encoders use to avoid zoom jitter. still marks a
// single-frame source: zoompan then holds it for the clip's full frame
// count, while multi-frame video passes through one output frame per
// input frame so the clip duration is preserved.
func Apply(in *ffmpeg.Stream, k Kind, w, h, fps int, duration float64, still bool) *ffmpeg.Stream {
	frames := int(duration * float64(fps))
	if frames < 1 {
		frames = 1
	}

	switch k {
	case EffectNone:
		return in
	case Shake:
		scaled := in.Filter("scale", ffmpeg.Args{
			fmt.Sprintf("%d", w+2*shakeAmplitude),
			fmt.Sprintf("%d", h+2*shakeAmplitude),
		})
		return scaled.Filter("crop", ffmpeg.Args{
			fmt.Sprintf("%d", w),
			fmt.Sprintf("%d", h),
			fmt.Sprintf("%d+(random(1)-0.5)*%d", shakeAmplitude, shakeAmplitude),
			fmt.Sprintf("%d+(random(2)-0.5)*%d", shakeAmplitude, shakeAmplitude),
		})
	}

	zp, ok := Motion(k, frames)
	if !ok {
		return in
	}
	hold := 1
	if still {
		hold = frames
	}
	upscaled := in.Filter("scale", ffmpeg.Args{"8000", "-1"})
	return upscaled.Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
		"z":   zp.Zoom,
		"x":   zp.X,
		"y":   zp.Y,
		"d":   hold,
		"s":   fmt.Sprintf("%dx%d", w, h),
		"fps": fps,
	})
}

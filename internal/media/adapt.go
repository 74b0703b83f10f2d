package media

import (
	"fmt"
	"math"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FitMode is the policy for reconciling source dimensions with the target
// render geometry.
type FitMode string

const (
	FitCrop    FitMode = "crop"
	FitContain FitMode = "fit"
	FitStretch FitMode = "stretch"
)

// FitModeNames lists every valid fit mode in catalog order.
var FitModeNames = []string{string(FitCrop), string(FitContain), string(FitStretch)}

// ParseFitMode maps a config string onto a FitMode.
func ParseFitMode(s string) (FitMode, bool) {
	for _, n := range FitModeNames {
		if s == n {
			return FitMode(s), true
		}
	}
	return FitCrop, false
}

// Placement describes how a source frame lands in the target frame: the
// uniform (or stretched) scale size plus the centered crop or pad offsets.
type Placement struct {
	Mode    FitMode
	ScaledW int
	ScaledH int
	// OffsetX/OffsetY position the crop window (crop) or the scaled
	// content inside the padded frame (fit).
	OffsetX int
	OffsetY int
	TargetW int
	TargetH int
}

// Fit computes the placement of a srcW x srcH frame into a target frame.
//   - crop: cover-scale then center-crop, output exactly target size
//   - fit: contain-scale, center, pad the remainder, source aspect kept
//   - stretch: non-uniform scale to target
func Fit(srcW, srcH, tgtW, tgtH int, mode FitMode) (Placement, error) {
	if srcW <= 0 || srcH <= 0 {
		return Placement{}, &AdapterError{Reason: fmt.Sprintf("invalid source size %dx%d", srcW, srcH)}
	}
	if tgtW <= 0 || tgtH <= 0 {
		return Placement{}, &AdapterError{Reason: fmt.Sprintf("invalid target size %dx%d", tgtW, tgtH)}
	}

	p := Placement{Mode: mode, TargetW: tgtW, TargetH: tgtH}
	switch mode {
	case FitCrop:
		scale := math.Max(float64(tgtW)/float64(srcW), float64(tgtH)/float64(srcH))
		p.ScaledW = scaleDim(srcW, scale, tgtW)
		p.ScaledH = scaleDim(srcH, scale, tgtH)
		p.OffsetX = (p.ScaledW - tgtW) / 2
		p.OffsetY = (p.ScaledH - tgtH) / 2
	case FitContain:
		scale := math.Min(float64(tgtW)/float64(srcW), float64(tgtH)/float64(srcH))
		p.ScaledW = evenDim(float64(srcW) * scale)
		p.ScaledH = evenDim(float64(srcH) * scale)
		if p.ScaledW > tgtW {
			p.ScaledW = tgtW
		}
		if p.ScaledH > tgtH {
			p.ScaledH = tgtH
		}
		p.OffsetX = (tgtW - p.ScaledW) / 2
		p.OffsetY = (tgtH - p.ScaledH) / 2
	case FitStretch:
		p.ScaledW = tgtW
		p.ScaledH = tgtH
	default:
		return Placement{}, &AdapterError{Reason: "unknown fit mode " + string(mode)}
	}
	return p, nil
}

// scaleDim rounds a cover-scaled dimension, never below the target.
func scaleDim(src int, scale float64, min int) int {
	d := int(math.Ceil(float64(src) * scale))
	if d < min {
		d = min
	}
	return d
}

// evenDim rounds to the nearest even integer, at least 2. Codecs reject
// odd dimensions.
func evenDim(v float64) int {
	d := int(math.Round(v))
	if d%2 != 0 {
		d++
	}
	if d < 2 {
		d = 2
	}
	return d
}

// Apply attaches the placement's filter chain to a stream. Background is
// the pad color for fit mode, e.g. "black".
func (p Placement) Apply(in *ffmpeg.Stream, background string) *ffmpeg.Stream {
	scaled := in.Filter("scale", ffmpeg.Args{
		fmt.Sprintf("%d", p.ScaledW),
		fmt.Sprintf("%d", p.ScaledH),
	})
	switch p.Mode {
	case FitCrop:
		return scaled.Filter("crop", ffmpeg.Args{
			fmt.Sprintf("%d", p.TargetW),
			fmt.Sprintf("%d", p.TargetH),
			fmt.Sprintf("%d", p.OffsetX),
			fmt.Sprintf("%d", p.OffsetY),
		})
	case FitContain:
		if background == "" {
			background = "black"
		}
		return scaled.Filter("pad", ffmpeg.Args{
			fmt.Sprintf("%d", p.TargetW),
			fmt.Sprintf("%d", p.TargetH),
			fmt.Sprintf("%d", p.OffsetX),
			fmt.Sprintf("%d", p.OffsetY),
		}, ffmpeg.KwArgs{"color": background})
	}
	return scaled
}

package pipeline

import (
	"math"

	"videomix/internal/media"
	"videomix/internal/taskconfig"
	"videomix/internal/transition"
)

// Segment is one planned slice of the final sequence: which asset plays,
// where its trim starts and how long it runs on screen.
type Segment struct {
	AssetIndex int
	Offset     float64
	Duration   float64
}

// PlanSegments lays out the clip sequence for a narration of the given
// duration. The per-clip duration is the midpoint of the configured
// bounds; enough clips are planned that the transitioned total covers the
// narration. Scarce assets repeat round-robin, and a repeated video asset
// gets a shifted trim offset so back-to-back repeats differ visually.
func PlanSegments(assets []media.Asset, narrationDur float64, sentenceCount int, cfg taskconfig.Config) []Segment {
	if len(assets) == 0 {
		return nil
	}

	clipDur := (cfg.ClipMinDuration + cfg.ClipMaxDuration) / 2
	overlap := 0.0
	if cfg.TransitionEnabled && cfg.Transition.Blends() {
		overlap = clampOverlap(cfg.TransitionDuration, clipDur)
	}

	// n clips joined with overlap run n*clip - (n-1)*overlap seconds.
	n := 1
	if narrationDur > clipDur {
		n = int(math.Ceil((narrationDur - overlap) / (clipDur - overlap)))
	}
	if sentenceCount > n {
		n = sentenceCount
	}
	if len(assets) > n {
		n = len(assets)
	}

	segs := make([]Segment, 0, n)
	covered := 0.0
	for idx := 0; idx < n || covered < narrationDur; idx++ {
		if idx >= maxSegments {
			break
		}
		ai := idx % len(assets)
		a := assets[ai]
		seg := Segment{AssetIndex: ai, Duration: clipDur}
		if a.Kind == media.KindVideo && a.Duration > 0 {
			if a.Duration < clipDur {
				seg.Duration = a.Duration
			} else {
				// Each revisit of the same asset starts one clip
				// further in, wrapping inside the trimmable span.
				round := idx / len(assets)
				span := a.Duration - seg.Duration
				if span > 0 {
					seg.Offset = math.Mod(float64(round)*seg.Duration, span)
				}
			}
		}
		if idx == 0 {
			covered += seg.Duration
		} else {
			// The chain clamps its overlap against the shortest clip,
			// so subtracting the per-segment clamp here never
			// overstates coverage, and progress stays positive even
			// for truncated assets shorter than the overlap.
			covered += seg.Duration - clampOverlap(overlap, seg.Duration)
		}
		segs = append(segs, seg)
	}
	return segs
}

// maxSegments bounds degenerate plans where very short assets meet a long
// narration.
const maxSegments = 500

// clampOverlap caps a transition overlap at half the shortest clip it
// blends, so every xfade offset stays strictly inside its leading clip.
// The configured duration is validated against the catalog range, but a
// legal duration can still exceed a short clip.
func clampOverlap(d, shortestClip float64) float64 {
	if d > shortestClip/2 {
		return shortestClip / 2
	}
	return d
}

// TransitionOverlap returns the overlap actually applied when chaining a
// segment sequence: the configured duration, clamped against the shortest
// planned segment. Zero when the configured transition does not blend.
func TransitionOverlap(segs []Segment, cfg taskconfig.Config) float64 {
	if !cfg.TransitionEnabled || !cfg.Transition.Blends() || len(segs) < 2 {
		return 0
	}
	shortest := segs[0].Duration
	for _, s := range segs[1:] {
		if s.Duration < shortest {
			shortest = s.Duration
		}
	}
	return clampOverlap(cfg.TransitionDuration, shortest)
}

// PlannedDuration returns the on-screen length of a segment sequence once
// joined by the configured transition.
func PlannedDuration(segs []Segment, cfg taskconfig.Config) float64 {
	durs := make([]float64, len(segs))
	for i, s := range segs {
		durs[i] = s.Duration
	}
	k := cfg.Transition
	if !cfg.TransitionEnabled {
		k = transition.None
	}
	return transition.ChainDuration(durs, k, TransitionOverlap(segs, cfg))
}

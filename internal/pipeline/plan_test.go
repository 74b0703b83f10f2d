package pipeline

import (
	"testing"

	"videomix/internal/catalog"
	"videomix/internal/media"
	"videomix/internal/taskconfig"
	"videomix/internal/transition"
)

func testConfig(t *testing.T) taskconfig.Config {
	t.Helper()
	cfg, err := taskconfig.Validate(taskconfig.Request{}, catalog.New())
	if err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	return cfg
}

func videoAsset(path string, dur float64) media.Asset {
	return media.Asset{Path: path, Kind: media.KindVideo, Duration: dur, Width: 1920, Height: 1080, FPS: 30}
}

// Scarce assets must still cover the full narration by repeating.
func TestPlanCoversNarration(t *testing.T) {
	cfg := testConfig(t)
	assets := []media.Asset{
		videoAsset("a.mp4", 20),
		videoAsset("b.mp4", 20),
	}

	cases := []struct {
		name         string
		narrationDur float64
	}{
		{"short narration", 5},
		{"narration longer than assets", 120},
		{"much longer narration", 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segs := PlanSegments(assets, tc.narrationDur, 0, cfg)
			if len(segs) == 0 {
				t.Fatal("empty plan")
			}
			if got := PlannedDuration(segs, cfg); got < tc.narrationDur {
				t.Fatalf("planned %.1fs does not cover narration %.1fs", got, tc.narrationDur)
			}
		})
	}
}

func TestPlanSegmentDurationIsMidpoint(t *testing.T) {
	cfg := testConfig(t)
	segs := PlanSegments([]media.Asset{videoAsset("a.mp4", 60)}, 10, 0, cfg)
	want := (cfg.ClipMinDuration + cfg.ClipMaxDuration) / 2
	for i, s := range segs {
		if s.Duration != want {
			t.Fatalf("segment %d duration = %.2f, want midpoint %.2f", i, s.Duration, want)
		}
	}
}

// With more than one asset, round-robin never plays the same asset twice
// in a row.
func TestPlanNoImmediateRepeat(t *testing.T) {
	cfg := testConfig(t)
	assets := []media.Asset{
		videoAsset("a.mp4", 30),
		videoAsset("b.mp4", 30),
		videoAsset("c.mp4", 30),
	}
	segs := PlanSegments(assets, 200, 0, cfg)
	for i := 1; i < len(segs); i++ {
		if segs[i].AssetIndex == segs[i-1].AssetIndex {
			t.Fatalf("segments %d and %d reuse asset %d back to back", i-1, i, segs[i].AssetIndex)
		}
	}
}

// A single repeated video asset varies its trim offset between rounds so
// repeats differ visually.
func TestPlanVariesOffsetsOnRepeat(t *testing.T) {
	cfg := testConfig(t)
	segs := PlanSegments([]media.Asset{videoAsset("a.mp4", 60)}, 40, 0, cfg)
	if len(segs) < 2 {
		t.Fatalf("expected repeats, got %d segments", len(segs))
	}
	if segs[0].Offset == segs[1].Offset {
		t.Fatalf("consecutive repeats share offset %.2f", segs[0].Offset)
	}
}

func TestPlanRespectsSentenceCount(t *testing.T) {
	cfg := testConfig(t)
	segs := PlanSegments([]media.Asset{videoAsset("a.mp4", 60)}, 5, 7, cfg)
	if len(segs) < 7 {
		t.Fatalf("plan has %d segments, want at least one per sentence (7)", len(segs))
	}
}

func TestPlanShortAssetTruncates(t *testing.T) {
	cfg := testConfig(t)
	segs := PlanSegments([]media.Asset{videoAsset("a.mp4", 2)}, 4, 0, cfg)
	if len(segs) == 0 {
		t.Fatal("empty plan")
	}
	if segs[0].Duration != 2 {
		t.Fatalf("segment duration = %.2f, want clipped to asset's 2s", segs[0].Duration)
	}
}

func TestPlannedDurationWithoutTransitions(t *testing.T) {
	cfg := testConfig(t)
	cfg.TransitionEnabled = false
	cfg.Transition = transition.None
	segs := []Segment{{Duration: 3}, {Duration: 4}}
	if got := PlannedDuration(segs, cfg); got != 7 {
		t.Fatalf("plain planned duration = %.2f, want 7", got)
	}
}

func fptr(v float64) *float64 { return &v }

// A validator-legal config can still pair a transition overlap with
// clips too short to host it; the planner and chain must clamp it
// rather than blow up the segment count or hand the engine an
// impossible overlap.
func TestPlanClampsOversizedOverlap(t *testing.T) {
	cfg, err := taskconfig.Validate(taskconfig.Request{
		ClipMinDuration:    fptr(1.0),
		ClipMaxDuration:    fptr(1.0),
		TransitionDuration: fptr(2.0),
	}, catalog.New())
	if err != nil {
		t.Fatalf("config should validate: %v", err)
	}

	segs := PlanSegments([]media.Asset{videoAsset("a.mp4", 30)}, 10, 0, cfg)
	if len(segs) == 0 {
		t.Fatal("empty plan")
	}
	if len(segs) >= maxSegments {
		t.Fatalf("plan ballooned to the %d-segment cap", maxSegments)
	}

	pd := PlannedDuration(segs, cfg)
	if pd <= 0 {
		t.Fatalf("planned duration is not positive: %.1f", pd)
	}
	if pd < 10 {
		t.Fatalf("planned %.1fs does not cover narration 10.0s", pd)
	}

	ov := TransitionOverlap(segs, cfg)
	if ov != 0.5 {
		t.Fatalf("overlap = %.2f, want clamped to half the 1.0s clips", ov)
	}
	for _, s := range segs {
		if ov >= s.Duration {
			t.Fatalf("overlap %.2f not strictly inside %.2fs segment", ov, s.Duration)
		}
	}
}

// Truncated short assets clamp the chain overlap too, e.g. a 0.4s clip
// against the 0.5s default transition.
func TestTransitionOverlapClampsToShortestSegment(t *testing.T) {
	cfg := testConfig(t)
	segs := []Segment{{Duration: 0.4}, {Duration: 6.5}}
	ov := TransitionOverlap(segs, cfg)
	if ov != 0.2 {
		t.Fatalf("overlap = %.2f, want 0.2 (half the shortest segment)", ov)
	}

	cfg.TransitionEnabled = false
	if ov := TransitionOverlap(segs, cfg); ov != 0 {
		t.Fatalf("disabled transition overlap = %.2f, want 0", ov)
	}
}

func TestPlanEmptyAssets(t *testing.T) {
	cfg := testConfig(t)
	if segs := PlanSegments(nil, 10, 0, cfg); segs != nil {
		t.Fatalf("expected nil plan for no assets, got %d segments", len(segs))
	}
}

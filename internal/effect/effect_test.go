package effect

import (
	"strings"
	"testing"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

func TestParse(t *testing.T) {
	for _, n := range Names {
		if _, ok := Parse(n); !ok {
			t.Errorf("listed effect %q does not parse", n)
		}
	}
	if k, ok := Parse(""); !ok || k != EffectNone {
		t.Error("empty effect should parse to none")
	}
	if _, ok := Parse("explode"); ok {
		t.Error("unknown effect parsed")
	}
}

func TestParseFilter(t *testing.T) {
	for _, n := range FilterNames {
		if _, ok := ParseFilter(n); !ok {
			t.Errorf("listed filter %q does not parse", n)
		}
	}
	if _, ok := ParseFilter("x-ray"); ok {
		t.Error("unknown filter parsed")
	}
}

// Every motion effect must yield zoompan expressions; zooms move the zoom
// term, pans travel while holding it.
func TestMotionExpressions(t *testing.T) {
	motionKinds := []Kind{
		KenBurnsIn, KenBurnsOut, ZoomIn, ZoomOut,
		PanLeft, PanRight, PanUp, PanDown,
	}
	for _, k := range motionKinds {
		t.Run(string(k), func(t *testing.T) {
			zp, ok := Motion(k, 150)
			if !ok {
				t.Fatalf("no motion for %q", k)
			}
			if zp.Zoom == "" || zp.X == "" || zp.Y == "" {
				t.Fatalf("incomplete expressions: %+v", zp)
			}
		})
	}

	in, _ := Motion(ZoomIn, 150)
	if !strings.Contains(in.Zoom, "min(") {
		t.Fatalf("zoom in should ramp up toward the cap: %q", in.Zoom)
	}
	out, _ := Motion(ZoomOut, 150)
	if !strings.Contains(out.Zoom, "max(") {
		t.Fatalf("zoom out should ramp down toward 1.0: %q", out.Zoom)
	}
	left, _ := Motion(PanLeft, 150)
	right, _ := Motion(PanRight, 150)
	if left.X == right.X {
		t.Fatal("pan left and pan right share an X path")
	}
	if left.Zoom != right.Zoom {
		t.Fatal("pans should hold the same fixed zoom")
	}

	if _, ok := Motion(Shake, 150); ok {
		t.Fatal("shake is not a zoompan motion")
	}
	if _, ok := Motion(EffectNone, 150); ok {
		t.Fatal("none has no motion")
	}
}

func TestFilterChains(t *testing.T) {
	cases := []struct {
		filter    Filter
		wantSteps int
		wantFirst string
	}{
		{Grayscale, 1, "hue"},
		{Vintage, 3, "eq"},
		{Warm, 1, "colorchannelmixer"},
		{Cool, 1, "colorchannelmixer"},
		{HighContrast, 1, "eq"},
		{Soft, 2, "gblur"},
		{FilterNone, 0, ""},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			steps := filterChain(tc.filter)
			if len(steps) != tc.wantSteps {
				t.Fatalf("chain length = %d, want %d", len(steps), tc.wantSteps)
			}
			if tc.wantSteps > 0 && steps[0].name != tc.wantFirst {
				t.Fatalf("first step = %q, want %q", steps[0].name, tc.wantFirst)
			}
		})
	}
}

func TestAnimated(t *testing.T) {
	for _, k := range []Kind{KenBurnsIn, KenBurnsOut, ZoomIn, ZoomOut, PanLeft, PanRight, PanUp, PanDown} {
		if !k.Animated() {
			t.Errorf("%q should be animated", k)
		}
	}
	for _, k := range []Kind{EffectNone, Shake} {
		if k.Animated() {
			t.Errorf("%q should not be animated", k)
		}
	}
}

// zoompan must hold a still for the clip's full frame count but pass
// video through frame for frame; anything else multiplies the clip
// duration and desynchronizes every downstream transition offset.
func TestApplyFrameHold(t *testing.T) {
	compile := func(still bool) string {
		stream := Apply(ffmpeg.Input("in.jpg"), KenBurnsIn, 1080, 1920, 30, 6.5, still)
		return strings.Join(stream.Output("out.mp4").GetArgs(), " ")
	}

	stillArgs := compile(true)
	if !strings.Contains(stillArgs, "zoompan=d=195:") {
		t.Fatalf("still clip should hold 195 frames (6.5s at 30fps): %s", stillArgs)
	}

	videoArgs := compile(false)
	if !strings.Contains(videoArgs, "zoompan=d=1:") {
		t.Fatalf("video clip should emit one frame per input frame: %s", videoArgs)
	}
}

func TestAdjustmentsIdentity(t *testing.T) {
	if !(Adjustments{Brightness: 1, Contrast: 1, Saturation: 1}).identity() {
		t.Fatal("all-ones adjustments should be identity")
	}
	if (Adjustments{Brightness: 1.2, Contrast: 1, Saturation: 1}).identity() {
		t.Fatal("brightened adjustments are not identity")
	}
}

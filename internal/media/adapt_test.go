package media

import (
	"math"
	"testing"
)

func TestFitCropAndStretchFillTarget(t *testing.T) {
	cases := []struct {
		name string
		srcW, srcH int
		tgtW, tgtH int
		mode FitMode
	}{
		{"crop landscape into portrait", 1920, 1080, 1080, 1920, FitCrop},
		{"crop portrait into landscape", 720, 1280, 1920, 1080, FitCrop},
		{"crop same aspect", 1280, 720, 1920, 1080, FitCrop},
		{"stretch any", 640, 480, 1080, 1920, FitStretch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Fit(tc.srcW, tc.srcH, tc.tgtW, tc.tgtH, tc.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.TargetW != tc.tgtW || p.TargetH != tc.tgtH {
				t.Fatalf("target = %dx%d, want %dx%d", p.TargetW, p.TargetH, tc.tgtW, tc.tgtH)
			}
			if tc.mode == FitCrop {
				if p.ScaledW < tc.tgtW || p.ScaledH < tc.tgtH {
					t.Fatalf("crop scale %dx%d does not cover target %dx%d",
						p.ScaledW, p.ScaledH, tc.tgtW, tc.tgtH)
				}
				if p.OffsetX != (p.ScaledW-tc.tgtW)/2 || p.OffsetY != (p.ScaledH-tc.tgtH)/2 {
					t.Fatalf("crop window not centered: %+v", p)
				}
			}
			if tc.mode == FitStretch && (p.ScaledW != tc.tgtW || p.ScaledH != tc.tgtH) {
				t.Fatalf("stretch scale = %dx%d, want exact target", p.ScaledW, p.ScaledH)
			}
		})
	}
}

// A 16:9 source contained in a 9:16 frame keeps its own aspect ratio and
// sits centered with the remainder padded.
func TestFitContainPreservesSourceAspect(t *testing.T) {
	p, err := Fit(1280, 720, 1080, 1920, FitContain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ScaledW != 1080 {
		t.Fatalf("contained width = %d, want full 1080", p.ScaledW)
	}
	srcAspect := 1280.0 / 720.0
	gotAspect := float64(p.ScaledW) / float64(p.ScaledH)
	if math.Abs(gotAspect-srcAspect)/srcAspect >= 0.01 {
		t.Fatalf("content aspect %.4f deviates more than 1%% from source %.4f", gotAspect, srcAspect)
	}
	if p.OffsetX != (1080-p.ScaledW)/2 || p.OffsetY != (1920-p.ScaledH)/2 {
		t.Fatalf("content not centered: %+v", p)
	}
	if p.ScaledH >= 1920 {
		t.Fatalf("wide content should leave vertical padding, got height %d", p.ScaledH)
	}
}

func TestFitContainEvenDimensions(t *testing.T) {
	p, err := Fit(1001, 997, 1080, 1920, FitContain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ScaledW%2 != 0 || p.ScaledH%2 != 0 {
		t.Fatalf("odd scaled dimension: %dx%d", p.ScaledW, p.ScaledH)
	}
}

func TestFitRejectsDegenerateSizes(t *testing.T) {
	cases := []struct {
		name string
		srcW, srcH, tgtW, tgtH int
	}{
		{"zero source width", 0, 720, 1080, 1920},
		{"zero source height", 1280, 0, 1080, 1920},
		{"negative target", 1280, 720, -1080, 1920},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(tc.srcW, tc.srcH, tc.tgtW, tc.tgtH, FitCrop)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*AdapterError); !ok {
				t.Fatalf("error type %T, want *AdapterError", err)
			}
		})
	}
}

func TestParseFitMode(t *testing.T) {
	for _, n := range FitModeNames {
		if _, ok := ParseFitMode(n); !ok {
			t.Errorf("listed fit mode %q does not parse", n)
		}
	}
	if _, ok := ParseFitMode("tile"); ok {
		t.Error("unknown fit mode parsed")
	}
}

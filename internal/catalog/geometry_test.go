package catalog

import (
	"math"
	"testing"
)

func TestResolveGeometryKnownPairs(t *testing.T) {
	cat := New()

	cases := []struct {
		name       string
		resolution Resolution
		layout     Layout
		wantW      int
		wantH      int
	}{
		{"1080p portrait", Res1080p, Layout9x16, 1080, 1920},
		{"1080p landscape", Res1080p, Layout16x9, 1920, 1080},
		{"1080p 3:4", Res1080p, Layout3x4, 1080, 1440},
		{"1080p square", Res1080p, Layout1x1, 1080, 1080},
		{"1080p 4:3", Res1080p, Layout4x3, 1440, 1080},
		{"1080p ultrawide", Res1080p, Layout21x9, 2520, 1080},
		{"4k portrait", Res4K, Layout9x16, 2160, 3840},
		{"720p landscape", Res720p, Layout16x9, 1280, 720},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := cat.ResolveGeometry(tc.resolution, tc.layout)
			if g.Width != tc.wantW || g.Height != tc.wantH {
				t.Fatalf("ResolveGeometry(%s,%s) = %dx%d, want %dx%d",
					tc.resolution, tc.layout, g.Width, g.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestResolveGeometryAllPairs(t *testing.T) {
	cat := New()
	ratios := map[Layout]float64{
		Layout9x16: 9.0 / 16.0, Layout3x4: 3.0 / 4.0, Layout1x1: 1.0,
		Layout4x3: 4.0 / 3.0, Layout16x9: 16.0 / 9.0, Layout21x9: 21.0 / 9.0,
	}

	for _, res := range cat.Resolutions() {
		for _, lay := range cat.Layouts() {
			g := cat.ResolveGeometry(Resolution(res), Layout(lay))
			if g.Width <= 0 || g.Height <= 0 {
				t.Fatalf("%s/%s: non-positive geometry %dx%d", res, lay, g.Width, g.Height)
			}
			if g.Width%2 != 0 || g.Height%2 != 0 {
				t.Fatalf("%s/%s: odd dimension in %dx%d", res, lay, g.Width, g.Height)
			}
			want := ratios[Layout(lay)]
			got := float64(g.Width) / float64(g.Height)
			if math.Abs(got-want)/want >= 0.01 {
				t.Fatalf("%s/%s: ratio %.4f deviates more than 1%% from %.4f", res, lay, got, want)
			}
		}
	}
}

func TestResolveGeometryFallback(t *testing.T) {
	cat := New()
	got := cat.ResolveGeometry("8k", "17:3")
	want := cat.ResolveGeometry(Res1080p, Layout16x9)
	if got != want {
		t.Fatalf("unknown pair resolved to %v, want default %v", got, want)
	}
}

func TestBitrateTiers(t *testing.T) {
	cat := New()
	if got := cat.Bitrate(QualityLow); got != "2000k" {
		t.Fatalf("low bitrate = %s, want 2000k", got)
	}
	if got := cat.Bitrate(QualityUltra); got != "15000k" {
		t.Fatalf("ultra bitrate = %s, want 15000k", got)
	}
	if got := cat.Bitrate("bogus"); got != "8000k" {
		t.Fatalf("unknown quality bitrate = %s, want high default 8000k", got)
	}
}

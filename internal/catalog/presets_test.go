package catalog

import "testing"

func TestExpandPreset(t *testing.T) {
	cat := New()

	cases := []struct {
		preset string
		want   PresetSpec
	}{
		{"douyin", PresetSpec{Res1080p, Layout9x16, 30}},
		{"xiaohongshu", PresetSpec{Res1080p, Layout3x4, 30}},
		{"bilibili", PresetSpec{Res1080p, Layout16x9, 30}},
		{"instagram_feed", PresetSpec{Res1080p, Layout1x1, 30}},
	}
	for _, tc := range cases {
		t.Run(tc.preset, func(t *testing.T) {
			got, ok := cat.ExpandPreset(tc.preset)
			if !ok {
				t.Fatalf("preset %q not found", tc.preset)
			}
			if got != tc.want {
				t.Fatalf("ExpandPreset(%q) = %+v, want %+v", tc.preset, got, tc.want)
			}
		})
	}

	if _, ok := cat.ExpandPreset("myspace"); ok {
		t.Fatal("unknown preset should not expand")
	}
}

// Every preset triple must itself be catalog-valid, so expansion can never
// smuggle an invalid configuration past the validator.
func TestPresetClosure(t *testing.T) {
	cat := New()
	for _, name := range cat.PresetNames() {
		spec, ok := cat.ExpandPreset(name)
		if !ok {
			t.Fatalf("listed preset %q does not expand", name)
		}
		if !cat.ValidResolution(spec.Resolution) {
			t.Errorf("preset %q: invalid resolution %q", name, spec.Resolution)
		}
		if !cat.ValidLayout(spec.Layout) {
			t.Errorf("preset %q: invalid layout %q", name, spec.Layout)
		}
		if !cat.ValidFPS(spec.FPS) {
			t.Errorf("preset %q: invalid fps %d", name, spec.FPS)
		}
	}
}

func TestPresetGeometry(t *testing.T) {
	cat := New()
	spec, ok := cat.ExpandPreset("xiaohongshu")
	if !ok {
		t.Fatal("xiaohongshu preset missing")
	}
	g := cat.ResolveGeometry(spec.Resolution, spec.Layout)
	if g.Width != 1080 || g.Height != 1440 {
		t.Fatalf("xiaohongshu geometry = %dx%d, want 1080x1440", g.Width, g.Height)
	}
}

package catalog

import "sort"

// PresetSpec is the concrete triple a platform preset expands to. Every
// spec in the table is itself catalog-valid.
type PresetSpec struct {
	Resolution Resolution `json:"resolution"`
	Layout     Layout     `json:"layout"`
	FPS        int        `json:"fps"`
}

// presetTable maps publishing destinations to their tuned triples.
func presetTable() map[string]PresetSpec {
	return map[string]PresetSpec{
		"douyin":          {Resolution: Res1080p, Layout: Layout9x16, FPS: 30},
		"kuaishou":        {Resolution: Res1080p, Layout: Layout9x16, FPS: 30},
		"xiaohongshu":     {Resolution: Res1080p, Layout: Layout3x4, FPS: 30},
		"bilibili":        {Resolution: Res1080p, Layout: Layout16x9, FPS: 30},
		"youtube":         {Resolution: Res1080p, Layout: Layout16x9, FPS: 30},
		"instagram_reels": {Resolution: Res1080p, Layout: Layout9x16, FPS: 30},
		"instagram_feed":  {Resolution: Res1080p, Layout: Layout1x1, FPS: 30},
		"weixin":          {Resolution: Res1080p, Layout: Layout9x16, FPS: 30},
	}
}

// ExpandPreset resolves a platform preset name. The second return is false
// for unrecognized names.
func (c *Catalog) ExpandPreset(name string) (PresetSpec, bool) {
	spec, ok := c.presets[name]
	return spec, ok
}

// PresetNames returns the registered preset names sorted for stable
// client display.
func (c *Catalog) PresetNames() []string {
	names := make([]string, 0, len(c.presets))
	for n := range c.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package catalog

import "math"

// ResolveGeometry derives the target pixel size for a resolution/layout
// pair. Landscape layouts hold the tier's reference height and derive the
// width; portrait and square layouts reuse that same reference height
// value as the width and derive the height, so 1080p portrait renders at
// 1080 wide. Unknown names fall back to the defaults rather than erroring;
// strict callers validate first.
func (c *Catalog) ResolveGeometry(r Resolution, l Layout) Geometry {
	base, ok := c.resolutions[r]
	if !ok {
		base = c.resolutions[DefaultResolution]
	}
	rt, ok := c.layouts[l]
	if !ok {
		rt = c.layouts[Layout16x9]
	}

	var w, h int
	if rt.w >= rt.h {
		h = base.Height
		w = evenUp(float64(h) * float64(rt.w) / float64(rt.h))
	} else {
		w = base.Height
		h = evenUp(float64(w) * float64(rt.h) / float64(rt.w))
	}
	return Geometry{Width: w, Height: h}
}

// evenUp rounds to the nearest integer and bumps odd results up by one.
func evenUp(v float64) int {
	d := int(math.Round(v))
	if d%2 != 0 {
		d++
	}
	return d
}

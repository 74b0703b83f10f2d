// Package catalog holds the static registries every valid task
// configuration draws from: resolutions, layouts, frame rates, platform
// presets, quality tiers and the value ranges of the tunable fields. A
// Catalog is built once at startup and injected read-only into the
// validator, the planner and the API.
package catalog

import (
	"videomix/internal/effect"
	"videomix/internal/media"
	"videomix/internal/subtitle"
	"videomix/internal/transition"
)

// Resolution names a pixel density tier by its reference landscape pair.
type Resolution string

const (
	Res480p  Resolution = "480p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
	Res2K    Resolution = "2k"
	Res4K    Resolution = "4k"
)

// Layout names a target aspect ratio.
type Layout string

const (
	Layout9x16  Layout = "9:16"
	Layout3x4   Layout = "3:4"
	Layout1x1   Layout = "1:1"
	Layout4x3   Layout = "4:3"
	Layout16x9  Layout = "16:9"
	Layout21x9  Layout = "21:9"
)

// Quality names an output bitrate tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityUltra  Quality = "ultra"
)

// Defaults applied when a request leaves a field unset.
const (
	DefaultResolution  = Res1080p
	DefaultLayout      = Layout9x16
	DefaultFPS         = 30
	DefaultFitMode     = media.FitCrop
	DefaultQuality     = QualityHigh
	DefaultTransition  = transition.Fade
	DefaultClipMin     = 3.0
	DefaultClipMax     = 10.0
	DefaultTransDur    = 0.5
	DefaultBrightness  = 1.0
	DefaultContrast    = 1.0
	DefaultSaturation  = 1.0
	DefaultBGMVolume   = 0.3
	DefaultSubFont     = "Heiti-SC-Medium"
	DefaultSubSize     = 48
	DefaultSubColor    = "#FFFFFF"
	DefaultSubStroke   = "#000000"
	DefaultSubStrokeW  = 2.0
	DefaultSubPosition = subtitle.Bottom
)

// Valid ranges for the numeric fields.
const (
	ClipDurationMin    = 1.0
	ClipDurationMax    = 60.0
	ClipMinDurationCap = 30.0
	TransDurMin        = 0.3
	TransDurMax        = 2.0
	SubSizeMin         = 12
	SubSizeMax         = 120
	SubStrokeMin       = 0.0
	SubStrokeMax       = 10.0
	BrightnessMin      = 0.5
	BrightnessMax      = 2.0
	ContrastMin        = 0.5
	ContrastMax        = 2.0
	SaturationMin      = 0.0
	SaturationMax      = 2.0
	BGMVolumeMin       = 0.0
	BGMVolumeMax       = 1.0
	BGMFadeMin         = 0.0
	BGMFadeMax         = 5.0
)

// Geometry is a resolved even-integer pixel size.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ratio is a layout's aspect pair.
type ratio struct {
	w int
	h int
}

// Catalog is the process-wide registry set. Never mutated after New.
type Catalog struct {
	resolutions map[Resolution]Geometry
	layouts     map[Layout]ratio
	fpsOptions  map[int]bool
	presets     map[string]PresetSpec
	bitrates    map[Quality]string
}

// New builds the catalog. The resolution table stores the reference
// landscape pair per tier; the height doubles as the short-edge basis for
// portrait layouts.
func New() *Catalog {
	return &Catalog{
		resolutions: map[Resolution]Geometry{
			Res480p:  {Width: 854, Height: 480},
			Res720p:  {Width: 1280, Height: 720},
			Res1080p: {Width: 1920, Height: 1080},
			Res2K:    {Width: 2560, Height: 1440},
			Res4K:    {Width: 3840, Height: 2160},
		},
		layouts: map[Layout]ratio{
			Layout9x16: {w: 9, h: 16},
			Layout3x4:  {w: 3, h: 4},
			Layout1x1:  {w: 1, h: 1},
			Layout4x3:  {w: 4, h: 3},
			Layout16x9: {w: 16, h: 9},
			Layout21x9: {w: 21, h: 9},
		},
		fpsOptions: map[int]bool{24: true, 25: true, 30: true, 50: true, 60: true},
		presets:    presetTable(),
		bitrates: map[Quality]string{
			QualityLow:    "2000k",
			QualityMedium: "5000k",
			QualityHigh:   "8000k",
			QualityUltra:  "15000k",
		},
	}
}

// ValidResolution reports whether r is a registered tier.
func (c *Catalog) ValidResolution(r Resolution) bool {
	_, ok := c.resolutions[r]
	return ok
}

// ValidLayout reports whether l is a registered aspect ratio.
func (c *Catalog) ValidLayout(l Layout) bool {
	_, ok := c.layouts[l]
	return ok
}

// ValidFPS reports whether f is a supported frame rate.
func (c *Catalog) ValidFPS(f int) bool {
	return c.fpsOptions[f]
}

// ValidQuality reports whether q is a registered tier.
func (c *Catalog) ValidQuality(q Quality) bool {
	_, ok := c.bitrates[q]
	return ok
}

// Bitrate returns the video bitrate for a quality tier, defaulting to the
// high tier for unknown names.
func (c *Catalog) Bitrate(q Quality) string {
	if b, ok := c.bitrates[q]; ok {
		return b
	}
	return c.bitrates[DefaultQuality]
}

// Resolutions returns the registered tier names in a stable order.
func (c *Catalog) Resolutions() []string {
	return []string{string(Res480p), string(Res720p), string(Res1080p), string(Res2K), string(Res4K)}
}

// Layouts returns the registered aspect ratios in a stable order.
func (c *Catalog) Layouts() []string {
	return []string{
		string(Layout9x16), string(Layout3x4), string(Layout1x1),
		string(Layout4x3), string(Layout16x9), string(Layout21x9),
	}
}

// FPSOptions returns the supported frame rates in ascending order.
func (c *Catalog) FPSOptions() []int {
	return []int{24, 25, 30, 50, 60}
}

// Qualities returns the bitrate tier names in ascending order.
func (c *Catalog) Qualities() []string {
	return []string{string(QualityLow), string(QualityMedium), string(QualityHigh), string(QualityUltra)}
}

// Description is the catalog payload served to clients building a config.
type Description struct {
	Resolutions       []string `json:"resolutions"`
	Layouts           []string `json:"layouts"`
	FPSOptions        []int    `json:"fps_options"`
	PlatformPresets   []string `json:"platform_presets"`
	FitModes          []string `json:"fit_modes"`
	Transitions       []string `json:"transitions"`
	Effects           []string `json:"effects"`
	ColorFilters      []string `json:"color_filters"`
	SubtitlePositions []string `json:"subtitle_positions"`
	OutputQualities   []string `json:"output_qualities"`
}

// Describe returns every registry a client needs to build a valid config.
func (c *Catalog) Describe() Description {
	return Description{
		Resolutions:       c.Resolutions(),
		Layouts:           c.Layouts(),
		FPSOptions:        c.FPSOptions(),
		PlatformPresets:   c.PresetNames(),
		FitModes:          media.FitModeNames,
		Transitions:       transition.Names,
		Effects:           effect.Names,
		ColorFilters:      effect.FilterNames,
		SubtitlePositions: subtitle.PositionNames,
		OutputQualities:   c.Qualities(),
	}
}

package subtitle

import (
	"fmt"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Position places subtitles on a 3x3 grid. The bare "top", "center" and
// "bottom" names are the column-centered spellings clients actually send.
type Position string

const (
	TopLeft     Position = "top_left"
	Top         Position = "top"
	TopRight    Position = "top_right"
	CenterLeft  Position = "center_left"
	Center      Position = "center"
	CenterRight Position = "center_right"
	BottomLeft  Position = "bottom_left"
	Bottom      Position = "bottom"
	BottomRight Position = "bottom_right"
)

// PositionNames lists every valid subtitle position in catalog order.
var PositionNames = []string{
	string(TopLeft), string(Top), string(TopRight),
	string(CenterLeft), string(Center), string(CenterRight),
	string(BottomLeft), string(Bottom), string(BottomRight),
}

// ParsePosition maps a config string onto a Position.
func ParsePosition(s string) (Position, bool) {
	for _, n := range PositionNames {
		if s == n {
			return Position(s), true
		}
	}
	return Bottom, false
}

// Style carries the validated subtitle appearance fields.
type Style struct {
	Font        string
	Size        int
	Color       string
	StrokeColor string
	StrokeWidth float64
	Position    Position
	LineSpacing int
}

// margin keeps text off the frame edges, in pixels.
const margin = 40

// Placement returns the drawtext x/y expressions for a grid position.
// Expressions use the drawtext variables w/h/text_w/text_h so they hold
// for any frame size.
func Placement(p Position) (x, y string) {
	switch p {
	case TopLeft, CenterLeft, BottomLeft:
		x = fmt.Sprintf("%d", margin)
	case TopRight, CenterRight, BottomRight:
		x = fmt.Sprintf("w-text_w-%d", margin)
	default:
		x = "(w-text_w)/2"
	}
	switch p {
	case TopLeft, Top, TopRight:
		y = fmt.Sprintf("%d", margin)
	case CenterLeft, Center, CenterRight:
		y = "(h-text_h)/2"
	default:
		y = fmt.Sprintf("h-text_h-%d", margin)
	}
	return x, y
}

// Wrap breaks text into lines that fit the frame width. Glyph width is
// approximated by the font size, which is exact for CJK and conservative
// for latin text.
func Wrap(text string, videoWidth, fontSize int) []string {
	if fontSize <= 0 {
		return []string{text}
	}
	budget := (videoWidth - 2*margin) / fontSize
	if budget < 1 {
		budget = 1
	}
	runes := []rune(text)
	var lines []string
	for len(runes) > budget {
		lines = append(lines, string(runes[:budget]))
		runes = runes[budget:]
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

// escapeText quotes the characters drawtext treats specially.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
	)
	return r.Replace(s)
}

// Overlay chains one drawtext per cue onto the video stream, each enabled
// only over its cue's [start,end) interval.
func Overlay(in *ffmpeg.Stream, cues []Cue, st Style, videoWidth int) *ffmpeg.Stream {
	x, y := Placement(st.Position)
	out := in
	for _, c := range cues {
		text := strings.Join(Wrap(c.Text, videoWidth, st.Size), "\n")
		kwargs := ffmpeg.KwArgs{
			"text":      escapeText(text),
			"font":      st.Font,
			"fontsize":  st.Size,
			"fontcolor": st.Color,
			"x":         x,
			"y":         y,
			"enable":    fmt.Sprintf("between(t,%.3f,%.3f)", c.Start, c.End),
		}
		if st.StrokeWidth > 0 {
			kwargs["borderw"] = fmt.Sprintf("%.1f", st.StrokeWidth)
			kwargs["bordercolor"] = st.StrokeColor
		}
		if st.LineSpacing > 0 {
			kwargs["line_spacing"] = st.LineSpacing
		}
		out = out.Filter("drawtext", ffmpeg.Args{}, kwargs)
	}
	return out
}

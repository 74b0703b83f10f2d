package subtitle

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word is one narration token with the timestamps the speech engine
// reported for it.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Cue is one timed subtitle line. Cues are produced once per render and
// never overlap in time.
type Cue struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// sentenceEnd matches sentence-final punctuation in both CJK and latin
// scripts; the punctuation stays attached to its sentence.
var sentenceEnd = regexp.MustCompile(`[。！？.!?\n]+`)

// splitSentences breaks a script into sentences, keeping terminal
// punctuation and dropping empty fragments.
func splitSentences(text string) []string {
	marks := sentenceEnd.FindAllStringIndex(text, -1)
	var out []string
	prev := 0
	for _, m := range marks {
		s := strings.TrimSpace(text[prev:m[1]])
		if s != "" {
			out = append(out, s)
		}
		prev = m[1]
	}
	if tail := strings.TrimSpace(text[prev:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// latinish reports whether a rune belongs to a space-delimited script.
// CJK tokens concatenate directly; latin words need the space restored.
func latinish(r rune) bool {
	return r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// joinTokens concatenates word tokens, inserting a space only where two
// latin words would otherwise fuse together.
func joinTokens(parts []string) string {
	var b strings.Builder
	prev := rune(0)
	for _, p := range parts {
		if p == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(p)
		if latinish(prev) && latinish(first) {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		prev, _ = utf8.DecodeLastRuneInString(p)
	}
	return b.String()
}

// FromWords aggregates word-level timestamps into sentence cues. A cue
// closes at each sentence-final punctuation mark and spans from its first
// word's start to its last word's end.
func FromWords(words []Word) []Cue {
	var cues []Cue
	var parts []string
	start := 0.0
	end := 0.0
	for i, w := range words {
		if len(parts) == 0 {
			start = w.Start
		}
		parts = append(parts, w.Text)
		end = w.End
		if sentenceEnd.MatchString(w.Text) || i == len(words)-1 {
			text := strings.TrimSpace(joinTokens(parts))
			if text != "" && end > start {
				cues = append(cues, Cue{Text: text, Start: start, End: end})
			}
			parts = parts[:0]
		}
	}
	return cues
}

// EvenSplit divides a script's sentences evenly across the audio duration,
// for narration sources that report no word timestamps.
func EvenSplit(script string, audioDuration float64) []Cue {
	sentences := splitSentences(script)
	if len(sentences) == 0 || audioDuration <= 0 {
		return nil
	}
	per := audioDuration / float64(len(sentences))
	cues := make([]Cue, 0, len(sentences))
	for i, s := range sentences {
		cues = append(cues, Cue{
			Text:  s,
			Start: float64(i) * per,
			End:   float64(i+1) * per,
		})
	}
	return cues
}

// Validate rejects cue lists with inverted or overlapping intervals.
// Producers construct non-overlapping cues; this guards the renderer input.
func Validate(cues []Cue) bool {
	for i, c := range cues {
		if c.End <= c.Start {
			return false
		}
		if i > 0 && c.Start < cues[i-1].End {
			return false
		}
	}
	return true
}

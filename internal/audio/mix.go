package audio

import (
	"fmt"
	"math"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MixPlan describes how narration and background music combine under the
// final video. Narration always plays at full volume; BGM sits under it.
type MixPlan struct {
	VideoDuration float64
	BGMVolume     float64
	FadeIn        float64
	FadeOut       float64
	// Loops is how many extra times the BGM repeats to cover the video.
	// Zero means the track is long enough and only gets trimmed.
	Loops int
}

// PlanMix computes the BGM treatment for a video of the given duration.
// Short tracks loop until they cover the video, long tracks are trimmed,
// and the fade-out envelope ends exactly at the video's end.
func PlanMix(videoDur, bgmDur, volume, fadeIn, fadeOut float64) MixPlan {
	p := MixPlan{
		VideoDuration: videoDur,
		BGMVolume:     volume,
		FadeIn:        fadeIn,
		FadeOut:       fadeOut,
	}
	if bgmDur > 0 && bgmDur < videoDur {
		p.Loops = int(math.Ceil(videoDur/bgmDur)) - 1
	}
	if p.FadeOut > videoDur {
		p.FadeOut = videoDur
	}
	return p
}

// FadeOutStart returns where the fade-out envelope begins.
func (p MixPlan) FadeOutStart() float64 {
	return p.VideoDuration - p.FadeOut
}

// Build assembles the narration/BGM mix graph. A nil bgm stream yields the
// narration untouched. amix keeps the narration's duration so trailing BGM
// never stretches the video.
func Build(narration, bgm *ffmpeg.Stream, p MixPlan) *ffmpeg.Stream {
	if bgm == nil {
		return narration
	}
	track := bgm
	if p.Loops > 0 {
		track = track.Filter("aloop", ffmpeg.Args{}, ffmpeg.KwArgs{
			"loop": p.Loops,
			"size": 2147483647,
		})
	}
	track = track.Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{
		"duration": fmt.Sprintf("%.3f", p.VideoDuration),
	})
	track = track.Filter("volume", ffmpeg.Args{fmt.Sprintf("%.3f", p.BGMVolume)})
	if p.FadeIn > 0 {
		track = track.Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t": "in", "st": "0", "d": fmt.Sprintf("%.3f", p.FadeIn),
		})
	}
	if p.FadeOut > 0 {
		track = track.Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t": "out",
			"st": fmt.Sprintf("%.3f", p.FadeOutStart()),
			"d":  fmt.Sprintf("%.3f", p.FadeOut),
		})
	}
	// amix normalizes by default, which would halve the narration; the
	// volume filters above already set the intended levels.
	return ffmpeg.Filter([]*ffmpeg.Stream{narration, track}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs":             2,
		"duration":           "first",
		"dropout_transition": 0,
		"normalize":          0,
	})
}

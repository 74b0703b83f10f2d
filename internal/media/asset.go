package media

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Kind distinguishes still images from video clips.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset is one uploaded clip or image. The pipeline borrows assets
// read-only per segment and never touches the source bytes.
type Asset struct {
	Path     string  `json:"path"`
	Kind     Kind    `json:"kind"`
	Duration float64 `json:"duration,omitempty"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps,omitempty"`
}

// NotFoundError marks an asset missing at render time. The pipeline skips
// the asset with a warning instead of failing the task.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "media not found: " + e.Path
}

// AdapterError marks a corrupt or zero-size asset. Same recovery as
// NotFoundError.
type AdapterError struct {
	Reason string
}

func (e *AdapterError) Error() string {
	return "media adapter: " + e.Reason
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true,
}

// probeResult mirrors the ffprobe JSON fields we read.
type probeResult struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe inspects a media file and extracts the metadata the planner needs.
func Probe(path string) (Asset, error) {
	if _, err := os.Stat(path); err != nil {
		return Asset{}, &NotFoundError{Path: path}
	}

	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "probing %s", path)
	}
	var pr probeResult
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return Asset{}, errors.Wrapf(err, "parsing probe output for %s", path)
	}

	a := Asset{Path: path, Kind: KindVideo}
	if imageExts[strings.ToLower(filepath.Ext(path))] {
		a.Kind = KindImage
	}
	for _, s := range pr.Streams {
		if s.CodecType != "video" {
			continue
		}
		a.Width = s.Width
		a.Height = s.Height
		a.FPS = parseFrameRate(s.AvgFrameRate)
		if a.FPS == 0 {
			a.FPS = parseFrameRate(s.RFrameRate)
		}
		break
	}
	if d, err := strconv.ParseFloat(pr.Format.Duration, 64); err == nil {
		a.Duration = d
	}

	if a.Width <= 0 || a.Height <= 0 {
		return Asset{}, &AdapterError{Reason: "no video stream dimensions in " + path}
	}
	if a.Kind == KindVideo && a.Duration <= 0 {
		return Asset{}, &AdapterError{Reason: "zero duration in " + path}
	}
	return a, nil
}

// parseFrameRate converts ffprobe's "num/den" rate strings.
func parseFrameRate(s string) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

// AudioDuration reads the duration of an audio-only file.
func AudioDuration(path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &NotFoundError{Path: path}
	}
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.Wrapf(err, "probing %s", path)
	}
	var pr probeResult
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return 0, errors.Wrapf(err, "parsing probe output for %s", path)
	}
	d, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil || d <= 0 {
		return 0, &AdapterError{Reason: "no duration in " + path}
	}
	return d, nil
}

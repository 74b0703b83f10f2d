// Package pipeline drives a render task through its stages: plan segments
// against the narration, adapt each asset to the target geometry, decorate
// it, chain the segments with transitions, overlay subtitles, mix audio
// and encode the final MP4. One worker goroutine owns each task.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"videomix/internal/audio"
	"videomix/internal/catalog"
	"videomix/internal/effect"
	"videomix/internal/media"
	"videomix/internal/store"
	"videomix/internal/subtitle"
	"videomix/internal/taskconfig"
	"videomix/internal/transition"
)

// Inputs are the external collaborator outputs a render consumes: the
// script, the pre-recorded narration with optional word timestamps, the
// uploaded media files and an optional BGM track.
type Inputs struct {
	Script        string          `json:"script"`
	NarrationPath string          `json:"narration_path"`
	Words         []subtitle.Word `json:"words,omitempty"`
	MediaPaths    []string        `json:"media_paths"`
	BGMPath       string          `json:"bgm_path,omitempty"`
}

// Manager dispatches render tasks onto a bounded worker pool and mirrors
// task state into the store after every change.
type Manager struct {
	cat       *catalog.Catalog
	store     store.Store
	outputDir string
	tempDir   string
	sem       chan struct{}
	wg        sync.WaitGroup

	mu    sync.Mutex
	tasks map[string]*Task
}

// NewManager builds a manager rendering into outputDir with scratch space
// under tempDir and at most workers concurrent renders.
func NewManager(cat *catalog.Catalog, st store.Store, outputDir, tempDir string, workers int) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		cat:       cat,
		store:     st,
		outputDir: outputDir,
		tempDir:   tempDir,
		sem:       make(chan struct{}, workers),
		tasks:     make(map[string]*Task),
	}
}

// Submit registers a task and dispatches it. The call returns immediately
// with the pending snapshot; callers poll the store for progress.
func (m *Manager) Submit(cfg taskconfig.Config, in Inputs) Snapshot {
	t := NewTask(cfg)
	m.mu.Lock()
	m.tasks[t.ID()] = t
	m.mu.Unlock()
	m.persist(t)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sem <- struct{}{}
		defer func() { <-m.sem }()
		m.run(t, in)
	}()

	return t.Snapshot()
}

// Task returns the live task for an id, if this process owns it.
func (m *Manager) Task(id string) (*Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

// Wait blocks until every submitted task has finished. Used by the
// one-shot CLI path.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// persist mirrors the task's current snapshot into the store.
func (m *Manager) persist(t *Task) {
	if err := m.store.Save(context.Background(), t.Snapshot().record()); err != nil {
		log.Printf("task %s: store save failed: %v", t.ID(), err)
	}
}

// run executes the full stage sequence and settles the task.
func (m *Manager) run(t *Task, in Inputs) {
	t.start()
	t.setProgress(5, "starting render")
	m.persist(t)

	if err := m.render(t, in); err != nil {
		log.Printf("task %s failed: %v", t.ID(), err)
		t.fail(err)
		m.persist(t)
		return
	}
	m.persist(t)
}

func (m *Manager) render(t *Task, in Inputs) error {
	cfg := t.Config()
	geom := m.cat.ResolveGeometry(cfg.Resolution, cfg.Layout)
	t.setProgress(10, fmt.Sprintf("rendering at %dx%d", geom.Width, geom.Height))
	m.persist(t)

	if in.NarrationPath == "" {
		return &NarrationUnavailableError{Reason: "no narration file supplied"}
	}
	narrationDur, err := media.AudioDuration(in.NarrationPath)
	if err != nil {
		return &NarrationUnavailableError{Reason: err.Error()}
	}

	// Probe assets; individually broken ones are skipped with a warning
	// rather than failing the whole render.
	assets := make([]media.Asset, 0, len(in.MediaPaths))
	for _, p := range in.MediaPaths {
		a, err := media.Probe(p)
		if err != nil {
			log.Printf("task %s: skipping asset %s: %v", t.ID(), p, err)
			t.warn(fmt.Sprintf("skipped asset %s: %v", filepath.Base(p), err))
			continue
		}
		assets = append(assets, a)
	}
	if len(assets) == 0 {
		return errors.New("no usable media assets")
	}
	t.setProgress(20, fmt.Sprintf("%d assets ready", len(assets)))
	m.persist(t)

	var cues []subtitle.Cue
	if cfg.SubtitleEnabled {
		if len(in.Words) > 0 {
			cues = subtitle.FromWords(in.Words)
		} else {
			cues = subtitle.EvenSplit(in.Script, narrationDur)
		}
		if !subtitle.Validate(cues) {
			return errors.New("subtitle cues overlap or are inverted")
		}
	}

	segs := PlanSegments(assets, narrationDur, len(cues), cfg)
	if len(segs) == 0 {
		return errors.New("empty segment plan")
	}

	workDir := filepath.Join(m.tempDir, t.ID())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return errors.Wrap(err, "creating work dir")
	}
	defer os.RemoveAll(workDir)

	clipPaths := make([]string, len(segs))
	durs := make([]float64, len(segs))
	for i, seg := range segs {
		clip := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
		if err := m.renderSegment(assets[seg.AssetIndex], seg, cfg, geom, clip); err != nil {
			return errors.Wrapf(err, "segment %d", i)
		}
		clipPaths[i] = clip
		durs[i] = seg.Duration
		t.setProgress(30+(i+1)*25/len(segs), fmt.Sprintf("processed segment %d/%d", i+1, len(segs)))
		m.persist(t)
	}

	sequence, err := m.joinSegments(clipPaths, durs, TransitionOverlap(segs, cfg), cfg, workDir)
	if err != nil {
		return err
	}
	t.setProgress(55, "transitions applied")
	m.persist(t)

	video := ffmpeg.Input(sequence)
	if len(cues) > 0 {
		video = subtitle.Overlay(video, cues, cfg.Subtitle, geom.Width)
	}
	t.setProgress(65, "subtitles prepared")
	m.persist(t)

	mix, err := m.buildAudio(in, cfg, narrationDur, segs)
	if err != nil {
		return err
	}
	t.setProgress(80, "audio mixed")
	m.persist(t)

	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output dir")
	}
	outPath := filepath.Join(m.outputDir, t.ID()+".mp4")
	t.setProgress(90, "encoding")
	m.persist(t)

	err = ffmpeg.Output([]*ffmpeg.Stream{video, mix}, outPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"b:v":      m.cat.Bitrate(cfg.Quality),
		"r":        cfg.FPS,
		"pix_fmt":  "yuv420p",
		"c:a":      "aac",
		"b:a":      "128k",
		"ar":       44100,
		"ac":       2,
		"shortest": "",
		"movflags": "+faststart",
	}).OverWriteOutput().ErrorToStdOut().Run()
	if err != nil {
		os.Remove(outPath)
		return &EncodingError{Err: err}
	}

	out, err := media.Probe(outPath)
	if err != nil || out.Duration <= 0 {
		os.Remove(outPath)
		return &EncodingError{Err: errors.New("output failed duration check")}
	}
	var size int64
	if fi, err := os.Stat(outPath); err == nil {
		size = fi.Size()
	}

	t.complete(outPath, out.Duration, size)
	log.Printf("task %s completed: %s (%.1fs)", t.ID(), outPath, out.Duration)
	return nil
}

// segmentInput opens the trimmed source for one segment. Stills carrying
// an animated effect enter as a single frame, since zoompan generates the
// clip's frames itself; static stills loop at full rate for the clip
// duration, and video is seek-trimmed to its planned slice.
func segmentInput(a media.Asset, seg Segment, cfg taskconfig.Config) *ffmpeg.Stream {
	if a.Kind == media.KindImage {
		if cfg.Effect.Animated() {
			return ffmpeg.Input(a.Path)
		}
		return ffmpeg.Input(a.Path, ffmpeg.KwArgs{
			"loop":      1,
			"t":         fmt.Sprintf("%.3f", seg.Duration),
			"framerate": cfg.FPS,
		})
	}
	return ffmpeg.Input(a.Path, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", seg.Offset),
		"t":  fmt.Sprintf("%.3f", seg.Duration),
	})
}

// renderSegment trims one asset, adapts it to the target geometry and
// bakes its effect and color treatment into an intermediate clip. The
// output is capped at the planned duration so the transition chain's
// offsets always match the real clip lengths.
func (m *Manager) renderSegment(a media.Asset, seg Segment, cfg taskconfig.Config, geom catalog.Geometry, outPath string) error {
	input := segmentInput(a, seg, cfg)

	placement, err := media.Fit(a.Width, a.Height, geom.Width, geom.Height, cfg.FitMode)
	if err != nil {
		return err
	}
	stream := placement.Apply(input, "black")
	stream = effect.Apply(stream, cfg.Effect, geom.Width, geom.Height, cfg.FPS, seg.Duration, a.Kind == media.KindImage)
	stream = effect.ApplyColor(stream, cfg.ColorFilter, cfg.Adjustments)
	stream = stream.Filter("fps", ffmpeg.Args{fmt.Sprintf("%d", cfg.FPS)})
	stream = stream.Filter("setsar", ffmpeg.Args{"1"})

	err = stream.Output(outPath, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"preset":  "fast",
		"pix_fmt": "yuv420p",
		"t":       fmt.Sprintf("%.3f", seg.Duration),
		"an":      "",
	}).OverWriteOutput().ErrorToStdOut().Run()
	if err != nil {
		return &effect.Error{Reason: err.Error()}
	}
	return nil
}

// joinSegments chains the intermediate clips through the configured
// transition into one silent sequence file. The overlap arrives already
// clamped against the shortest segment.
func (m *Manager) joinSegments(clipPaths []string, durs []float64, overlap float64, cfg taskconfig.Config, workDir string) (string, error) {
	if len(clipPaths) == 1 {
		return clipPaths[0], nil
	}

	kind := cfg.Transition
	if !cfg.TransitionEnabled {
		kind = transition.None
	}
	clips := make([]*ffmpeg.Stream, len(clipPaths))
	for i, p := range clipPaths {
		clips[i] = ffmpeg.Input(p)
	}
	chained, err := transition.Chain(clips, durs, kind, overlap)
	if err != nil {
		return "", err
	}

	seqPath := filepath.Join(workDir, "sequence.mp4")
	err = chained.Output(seqPath, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"preset":  "fast",
		"pix_fmt": "yuv420p",
		"an":      "",
	}).OverWriteOutput().ErrorToStdOut().Run()
	if err != nil {
		return "", &transition.Error{Reason: err.Error()}
	}
	return seqPath, nil
}

// buildAudio assembles the narration/BGM graph for the final mux.
func (m *Manager) buildAudio(in Inputs, cfg taskconfig.Config, narrationDur float64, segs []Segment) (*ffmpeg.Stream, error) {
	narration := ffmpeg.Input(in.NarrationPath).Audio()
	if !cfg.BGMEnabled || in.BGMPath == "" {
		return narration, nil
	}

	bgmDur, err := media.AudioDuration(in.BGMPath)
	if err != nil {
		return nil, errors.Wrap(err, "probing bgm")
	}
	videoDur := PlannedDuration(segs, cfg)
	if narrationDur > videoDur {
		videoDur = narrationDur
	}
	plan := audio.PlanMix(videoDur, bgmDur, cfg.BGMVolume, cfg.BGMFadeIn, cfg.BGMFadeOut)
	return audio.Build(narration, ffmpeg.Input(in.BGMPath).Audio(), plan), nil
}

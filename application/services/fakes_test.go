package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// goPool runs every task on its own goroutine; tests do not need the
// bounded pool.
type goPool struct{ wg sync.WaitGroup }

func (p *goPool) Submit(task func()) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		task()
	}()
	return nil
}

func (p *goPool) wait() { p.wg.Wait() }

type fakeSynthesizer struct {
	mu          sync.Mutex
	calls       int
	failures    int
	audio       []byte
	maxChars    int
	fingerprint string
}

func (f *fakeSynthesizer) Name() string { return "fake" }

func (f *fakeSynthesizer) MaxChars() int { return f.maxChars }

func (f *fakeSynthesizer) ConfigFingerprint() string { return f.fingerprint }

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ outbound.SynthesizeRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("provider unavailable")
	}
	return f.audio, nil
}

type fakeCardRenderer struct {
	mu        sync.Mutex
	calls     int
	failures  int
	truncated bool
}

func (f *fakeCardRenderer) Name() string { return "fake" }

func (f *fakeCardRenderer) Render(_ context.Context, req outbound.RenderCardRequest) (*outbound.RenderedCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("renderer unavailable")
	}
	return &outbound.RenderedCard{PNG: tinyPNG(4, 3), Width: 4, Height: 3, Truncated: f.truncated}, nil
}

// memCache stores artifacts on disk under dir but tracks fills in memory;
// no locking, tests are the only writer per key.
type memCache struct {
	mu    sync.Mutex
	dir   string
	fills int
	paths map[string]string
}

func newMemCache(dir string) *memCache {
	return &memCache{dir: dir, paths: make(map[string]string)}
}

func (c *memCache) GetOrCreate(key, ext string, fill func() ([]byte, error)) (string, bool, error) {
	c.mu.Lock()
	if path, ok := c.paths[key]; ok {
		c.mu.Unlock()
		return path, false, nil
	}
	c.mu.Unlock()

	payload, err := fill()
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(c.dir, key+"."+ext)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", false, err
	}

	c.mu.Lock()
	c.paths[key] = path
	c.fills++
	c.mu.Unlock()
	return path, true, nil
}

type fakeToolkit struct {
	mu            sync.Mutex
	probeDuration time.Duration
	probeErr      error
	prepareErr    error
	renderErr     error
	renderedJobs  []domain.RenderJob
	renderOut     []string
	writeOutput   bool
}

func (f *fakeToolkit) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return f.probeDuration, f.probeErr
}

func (f *fakeToolkit) PrepareBackground(_ context.Context, req outbound.PrepareBackgroundRequest) (*outbound.PreparedBackground, error) {
	if f.prepareErr != nil {
		return nil, f.prepareErr
	}
	return &outbound.PreparedBackground{
		VideoPath: filepath.Join(req.WorkDir, "background.mp4"),
		AudioPath: req.AudioPath,
	}, nil
}

func (f *fakeToolkit) Render(_ context.Context, job domain.RenderJob, _ *outbound.PreparedBackground, outPath string) error {
	f.mu.Lock()
	f.renderedJobs = append(f.renderedJobs, job)
	f.renderOut = append(f.renderOut, outPath)
	f.mu.Unlock()
	if f.renderErr != nil {
		return f.renderErr
	}
	if f.writeOutput {
		return os.WriteFile(outPath, []byte("video"), 0o644)
	}
	return nil
}

type fakeFetcher struct {
	segments []domain.Segment
	err      error
}

func (f *fakeFetcher) FetchThread(_ context.Context, _ string, _ int) ([]domain.Segment, error) {
	return f.segments, f.err
}

type fakeBackgrounds struct {
	tracks outbound.BackgroundTracks
	err    error
}

func (f *fakeBackgrounds) Ensure(_ context.Context) (*outbound.BackgroundTracks, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.tracks, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	calls  int
	key    string
	err    error
	lastIn outbound.PublishVideoRequest
}

func (f *fakePublisher) Publish(_ context.Context, req outbound.PublishVideoRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastIn = req
	return f.key, f.err
}

// fakeNarrator resolves narration from a fixed duration table and fails the
// listed ordinals.
type fakeNarrator struct {
	durations map[int]time.Duration
	failOn    map[int]bool
	delays    map[int]time.Duration
}

func (f *fakeNarrator) Narrate(_ context.Context, segment domain.Segment) (domain.AudioArtifact, error) {
	if d, ok := f.delays[segment.Ordinal]; ok {
		time.Sleep(d)
	}
	if f.failOn[segment.Ordinal] {
		return domain.AudioArtifact{}, &domain.SynthesisError{Ordinal: segment.Ordinal, Provider: "fake", Err: errors.New("boom")}
	}
	return domain.AudioArtifact{
		Path:     fmt.Sprintf("%d.mp3", segment.Ordinal),
		Duration: f.durations[segment.Ordinal],
	}, nil
}

type fakeVisuals struct {
	failOn map[int]bool
}

func (f *fakeVisuals) Render(_ context.Context, segment domain.Segment) (domain.ImageArtifact, error) {
	if f.failOn[segment.Ordinal] {
		return domain.ImageArtifact{}, &domain.RenderError{Ordinal: segment.Ordinal, Provider: "fake", Err: errors.New("boom")}
	}
	return domain.ImageArtifact{Path: fmt.Sprintf("%d.png", segment.Ordinal), Width: 4, Height: 3}, nil
}

func tinyPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

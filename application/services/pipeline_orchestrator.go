package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/inbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/channel_utils"
	"github.com/kennydd0/RedditVideoMakerBot/config"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type pipelineOrchestrator struct {
	cfg         *config.Config
	logger      outbound.LoggerPort
	workerPool  outbound.TaskDispatcher
	fetcher     outbound.ThreadFetcherPort
	backgrounds outbound.BackgroundProviderPort
	narrator    inbound.NarrationServicePort
	renderer    inbound.VisualRendererPort
	timeline    inbound.TimelineBuilderPort
	composer    inbound.ComposerPort
	// publisher is optional; nil disables the publish step.
	publisher outbound.VideoPublisherPort
	now       func() time.Time
}

func NewPipelineOrchestrator(cfg *config.Config, logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	fetcher outbound.ThreadFetcherPort, backgrounds outbound.BackgroundProviderPort,
	narrator inbound.NarrationServicePort, renderer inbound.VisualRendererPort,
	timeline inbound.TimelineBuilderPort, composer inbound.ComposerPort,
	publisher outbound.VideoPublisherPort) inbound.PipelineOrchestratorPort {
	return &pipelineOrchestrator{
		cfg:         cfg,
		logger:      logger,
		workerPool:  workerPool,
		fetcher:     fetcher,
		backgrounds: backgrounds,
		narrator:    narrator,
		renderer:    renderer,
		timeline:    timeline,
		composer:    composer,
		publisher:   publisher,
		now:         time.Now,
	}
}

// stageOutcome is one resolved half of a segment's media: narration or
// visual render. index is the segment's position in the fetched slice;
// ordinals come from the fetcher and need not be dense or zero-based.
type stageOutcome struct {
	index int
	stage string
	audio domain.AudioArtifact
	image domain.ImageArtifact
}

// stageFailure pairs a recorded per-segment failure with the segment's
// position in the fetched slice.
type stageFailure struct {
	index   int
	failure domain.SegmentFailure
}

func (o *pipelineOrchestrator) Run(ctx context.Context) (*domain.RunResult, error) {
	runID := uuid.NewString()
	threadID := o.cfg.Thread.ID

	o.logger.InfoWithFields("pipeline run starting", map[string]interface{}{
		"run_id": runID,
		"thread": threadID,
	})

	segments, err := o.fetcher.FetchThread(ctx, threadID, o.cfg.Thread.MaxReplies)
	if err != nil {
		return nil, &domain.AcquisitionError{ThreadID: threadID, Err: err}
	}
	if len(segments) == 0 {
		return nil, &domain.AcquisitionError{ThreadID: threadID, Err: fmt.Errorf("thread yielded no narratable segments")}
	}

	tracks, err := o.backgrounds.Ensure(ctx)
	if err != nil {
		return nil, &domain.CompositionError{Err: fmt.Errorf("background assets: %w", err)}
	}

	workDir := filepath.Join(o.cfg.Pipeline.AssetsDir, "temp", runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, &domain.CompositionError{Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			o.logger.Error(rmErr, "failed to remove run temp directory")
		}
	}()

	media, failures, err := o.resolveMedia(ctx, segments)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		o.logger.WarnWithFields("segment dropped after repeated failures", map[string]interface{}{
			"ordinal": f.Ordinal,
			"stage":   f.Stage,
			"error":   f.Err.Error(),
		})
	}

	tl := o.timeline.Build(media)

	outName := fmt.Sprintf("%s-%s.mp4", threadID, o.now().UTC().Format("20060102-150405"))
	job := domain.RenderJob{
		RunID:            runID,
		ThreadID:         threadID,
		BackgroundVideo:  tracks.VideoPath,
		BackgroundAudio:  tracks.AudioPath,
		BackgroundVolume: o.cfg.Background.AudioVolume,
		DuckFactor:       o.cfg.Background.DuckFactor,
		OverlayOpacity:   o.cfg.Pipeline.OverlayOpacity,
		Timeline:         tl,
		WorkDir:          workDir,
		OutputPath:       filepath.Join(o.cfg.Output.Directory, outName),
		Width:            o.cfg.Output.Width,
		Height:           o.cfg.Output.Height,
		FrameRate:        o.cfg.Output.FrameRate,
	}

	outputPath, err := o.composer.Compose(ctx, job)
	if err != nil {
		return nil, err
	}

	result := &domain.RunResult{
		RunID:        runID,
		ThreadID:     threadID,
		OutputPath:   outputPath,
		Failures:     failures,
		DroppedByCap: tl.Dropped,
	}

	if o.publisher != nil {
		key, pubErr := o.publisher.Publish(ctx, outbound.PublishVideoRequest{
			ThreadID:  threadID,
			RunID:     runID,
			VideoPath: outputPath,
		})
		if pubErr != nil {
			// The local artifact is intact; publishing is best-effort.
			o.logger.Error(pubErr, "failed to publish finished video")
		} else {
			result.PublishedKey = key
		}
	}

	o.logSummary(result, len(segments))
	return result, nil
}

// resolveMedia fans narration and rendering out over the worker pool and
// blocks until every segment has either both artifacts or a recorded
// failure. Completion order is irrelevant: results are reassembled by
// fetch position before the timeline is built.
func (o *pipelineOrchestrator) resolveMedia(ctx context.Context, segments []domain.Segment) ([]domain.SegmentMedia, []domain.SegmentFailure, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomeCh, narrFailCh, rendFailCh, err := o.dispatch(runCtx, segments)
	if err != nil {
		return nil, nil, err
	}
	failCh, err := channel_utils.MergeChannels(o.workerPool, narrFailCh, rendFailCh)
	if err != nil {
		return nil, nil, err
	}

	type slot struct {
		audio  *domain.AudioArtifact
		image  *domain.ImageArtifact
		failed bool
	}
	slots := make([]slot, len(segments))

	expected := 2 * len(segments)
	received := 0
	var failures []domain.SegmentFailure
	for received < expected && (outcomeCh != nil || failCh != nil) {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case outcome, ok := <-outcomeCh:
			if !ok {
				outcomeCh = nil
				continue
			}
			received++
			s := &slots[outcome.index]
			switch outcome.stage {
			case "narrate":
				audio := outcome.audio
				s.audio = &audio
			case "render":
				image := outcome.image
				s.image = &image
			}
		case failure, ok := <-failCh:
			if !ok {
				failCh = nil
				continue
			}
			received++
			if o.cfg.Pipeline.Strict {
				cancel()
				return nil, nil, failure.failure.Err
			}
			if !slots[failure.index].failed {
				slots[failure.index].failed = true
				failures = append(failures, failure.failure)
			}
		}
	}

	media := make([]domain.SegmentMedia, 0, len(segments))
	for i, seg := range segments {
		s := slots[i]
		if s.failed || s.audio == nil || s.image == nil {
			continue
		}
		media = append(media, domain.SegmentMedia{
			Segment: seg,
			Audio:   *s.audio,
			Image:   *s.image,
		})
	}
	return media, failures, nil
}

// dispatch submits one narration task and one render task per segment. Each
// task reports exactly once, to the outcome channel on success or to its
// stage's failure channel otherwise.
func (o *pipelineOrchestrator) dispatch(ctx context.Context, segments []domain.Segment) (<-chan stageOutcome, <-chan stageFailure, <-chan stageFailure, error) {
	// Buffered so workers never block reporting: the pool can drain even
	// before the collector starts receiving.
	outcomeCh := make(chan stageOutcome, 2*len(segments))
	narrFailCh := make(chan stageFailure, len(segments))
	rendFailCh := make(chan stageFailure, len(segments))

	var wg sync.WaitGroup
	for i, segment := range segments {
		idx, seg := i, segment

		wg.Add(1)
		if err := o.workerPool.Submit(func() {
			defer wg.Done()
			audio, narrErr := o.narrator.Narrate(ctx, seg)
			if narrErr != nil {
				sendFailure(ctx, narrFailCh, stageFailure{
					index:   idx,
					failure: domain.SegmentFailure{Ordinal: seg.Ordinal, Stage: "narrate", Err: narrErr},
				})
				return
			}
			sendOutcome(ctx, outcomeCh, stageOutcome{index: idx, stage: "narrate", audio: audio})
		}); err != nil {
			wg.Done()
			return nil, nil, nil, err
		}

		wg.Add(1)
		if err := o.workerPool.Submit(func() {
			defer wg.Done()
			image, rendErr := o.renderer.Render(ctx, seg)
			if rendErr != nil {
				sendFailure(ctx, rendFailCh, stageFailure{
					index:   idx,
					failure: domain.SegmentFailure{Ordinal: seg.Ordinal, Stage: "render", Err: rendErr},
				})
				return
			}
			sendOutcome(ctx, outcomeCh, stageOutcome{index: idx, stage: "render", image: image})
		}); err != nil {
			wg.Done()
			return nil, nil, nil, err
		}
	}

	if err := o.workerPool.Submit(func() {
		wg.Wait()
		close(outcomeCh)
		close(narrFailCh)
		close(rendFailCh)
	}); err != nil {
		return nil, nil, nil, err
	}

	return outcomeCh, narrFailCh, rendFailCh, nil
}

func sendOutcome(ctx context.Context, ch chan<- stageOutcome, outcome stageOutcome) {
	select {
	case ch <- outcome:
	case <-ctx.Done():
	}
}

func sendFailure(ctx context.Context, ch chan<- stageFailure, failure stageFailure) {
	select {
	case ch <- failure:
	case <-ctx.Done():
	}
}

func (o *pipelineOrchestrator) logSummary(result *domain.RunResult, total int) {
	fields := map[string]interface{}{
		"run_id":         result.RunID,
		"thread":         result.ThreadID,
		"output":         result.OutputPath,
		"segments":       total,
		"failed":         len(result.Failures),
		"dropped_by_cap": result.DroppedByCap,
	}
	if result.PublishedKey != "" {
		fields["published_key"] = result.PublishedKey
	}
	o.logger.InfoWithFields("pipeline run finished", fields)
}

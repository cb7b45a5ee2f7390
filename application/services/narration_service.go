package services

import (
	"context"
	"fmt"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/inbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type narrationService struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	cache       outbound.ArtifactCachePort
	toolkit     outbound.MediaToolkitPort
	voice       string
	retry       RetryPolicy
}

func NewNarrationService(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	cache outbound.ArtifactCachePort, toolkit outbound.MediaToolkitPort, voice string,
	retry RetryPolicy) inbound.NarrationServicePort {
	return &narrationService{
		logger:      logger,
		synthesizer: synthesizer,
		cache:       cache,
		toolkit:     toolkit,
		voice:       voice,
		retry:       retry,
	}
}

func (s *narrationService) Narrate(ctx context.Context, segment domain.Segment) (domain.AudioArtifact, error) {
	if max := s.synthesizer.MaxChars(); max > 0 && len([]rune(segment.Text)) > max {
		return domain.AudioArtifact{}, &domain.SynthesisError{
			Ordinal:  segment.Ordinal,
			Provider: s.synthesizer.Name(),
			Err:      fmt.Errorf("text is %d characters, provider limit is %d", len([]rune(segment.Text)), max),
		}
	}

	key := artifactKey("audio", s.synthesizer.Name(), s.voice, s.synthesizer.ConfigFingerprint(), segment.Text)
	path, created, err := s.cache.GetOrCreate(key, "mp3", func() ([]byte, error) {
		var audio []byte
		retryErr := withRetry(ctx, s.retry, func() error {
			var synthErr error
			audio, synthErr = s.synthesizer.Synthesize(ctx, outbound.SynthesizeRequest{
				Text:  segment.Text,
				Voice: s.voice,
			})
			if synthErr != nil {
				s.logger.WarnWithFields("synthesis attempt failed", map[string]interface{}{
					"ordinal":  segment.Ordinal,
					"provider": s.synthesizer.Name(),
					"error":    synthErr.Error(),
				})
			}
			return synthErr
		})
		if retryErr != nil {
			return nil, retryErr
		}
		if len(audio) == 0 {
			return nil, fmt.Errorf("provider returned empty audio")
		}
		return audio, nil
	})
	if err != nil {
		return domain.AudioArtifact{}, &domain.SynthesisError{
			Ordinal:  segment.Ordinal,
			Provider: s.synthesizer.Name(),
			Err:      err,
		}
	}

	duration, err := s.toolkit.ProbeDuration(ctx, path)
	if err != nil {
		return domain.AudioArtifact{}, &domain.SynthesisError{
			Ordinal:  segment.Ordinal,
			Provider: s.synthesizer.Name(),
			Err:      fmt.Errorf("probe audio duration: %w", err),
		}
	}

	s.logger.DebugWithFields("segment narrated", map[string]interface{}{
		"ordinal":  segment.Ordinal,
		"cached":   !created,
		"duration": duration.String(),
	})

	return domain.AudioArtifact{Path: path, Duration: duration}, nil
}

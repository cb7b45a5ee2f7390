package services

import (
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/inbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type timelineBuilder struct {
	logger      outbound.LoggerPort
	padding     time.Duration
	introOffset time.Duration
	// maxDuration caps the output length; zero means uncapped.
	maxDuration time.Duration
}

func NewTimelineBuilder(logger outbound.LoggerPort, padding, introOffset, maxDuration time.Duration) inbound.TimelineBuilderPort {
	return &timelineBuilder{
		logger:      logger,
		padding:     padding,
		introOffset: introOffset,
		maxDuration: maxDuration,
	}
}

// Build walks media in ordinal order and schedules each segment for exactly
// its audio duration, separated by the configured padding. Entries never
// overlap; zero-duration audio yields a zero-width entry rather than being
// dropped, so every ordinal stays traceable. When the schedule exceeds the
// maximum duration, trailing entries are removed until the cap holds.
func (b *timelineBuilder) Build(media []domain.SegmentMedia) domain.Timeline {
	if len(media) == 0 {
		return domain.Timeline{}
	}

	entries := make([]domain.TimelineEntry, 0, len(media))
	cursor := b.introOffset
	for i, m := range media {
		if i > 0 {
			cursor += b.padding
		}
		entry := domain.TimelineEntry{
			SegmentMedia: m,
			Start:        cursor,
			End:          cursor + m.Audio.Duration,
		}
		entries = append(entries, entry)
		cursor = entry.End
	}

	dropped := 0
	if b.maxDuration > 0 {
		for len(entries) > 0 && entries[len(entries)-1].End > b.maxDuration {
			entries = entries[:len(entries)-1]
			dropped++
		}
	}
	if dropped > 0 {
		b.logger.WarnWithFields("timeline truncated to satisfy the duration cap", map[string]interface{}{
			"dropped": dropped,
			"cap":     b.maxDuration.String(),
		})
	}

	tl := domain.Timeline{Entries: entries, Dropped: dropped}
	if len(entries) > 0 {
		tl.Duration = entries[len(entries)-1].End
	}
	return tl
}

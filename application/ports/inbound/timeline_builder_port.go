package inbound

import "github.com/kennydd0/RedditVideoMakerBot/domain"

// TimelineBuilderPort schedules resolved segment media onto the output
// timeline. Input must already be in ordinal order.
type TimelineBuilderPort interface {
	Build(media []domain.SegmentMedia) domain.Timeline
}

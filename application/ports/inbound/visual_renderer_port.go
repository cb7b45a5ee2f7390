package inbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// VisualRendererPort turns a segment into a stored still image sized for
// the output video.
type VisualRendererPort interface {
	Render(ctx context.Context, segment domain.Segment) (domain.ImageArtifact, error)
}

package inbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// NarrationServicePort turns a segment's text into a stored audio artifact
// with its exact probed duration.
type NarrationServicePort interface {
	Narrate(ctx context.Context, segment domain.Segment) (domain.AudioArtifact, error)
}

package outbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// ThreadFetcherPort acquires the ordered segments of one discussion thread.
// The pipeline treats it as an opaque, fallible, rate-limited dependency.
type ThreadFetcherPort interface {
	FetchThread(ctx context.Context, threadID string, maxItems int) ([]domain.Segment, error)
}

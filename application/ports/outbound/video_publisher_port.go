package outbound

import "context"

type PublishVideoRequest struct {
	ThreadID  string
	RunID     string
	VideoPath string
}

// VideoPublisherPort uploads a finished video to remote storage. Optional;
// the orchestrator skips it when not configured.
type VideoPublisherPort interface {
	Publish(ctx context.Context, req PublishVideoRequest) (key string, err error)
}

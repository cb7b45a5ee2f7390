package inbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// PipelineOrchestratorPort drives the full content-to-video sequence for
// one thread and reports the terminal outcome.
type PipelineOrchestratorPort interface {
	Run(ctx context.Context) (*domain.RunResult, error)
}

package inbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// ComposerPort renders one job into the final output file and returns its
// path. On any failure no file is left at the output path.
type ComposerPort interface {
	Compose(ctx context.Context, job domain.RenderJob) (string, error)
}

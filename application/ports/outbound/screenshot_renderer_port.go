package outbound

import (
	"context"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type RenderCardRequest struct {
	Segment domain.Segment
	Theme   string
	Width   int
}

type RenderedCard struct {
	PNG       []byte
	Width     int
	Height    int
	Truncated bool
}

// ScreenshotRendererPort is the capability contract for a visual provider.
// Rendering must be deterministic: the same segment and style produce
// byte-identical output.
type ScreenshotRendererPort interface {
	Name() string
	Render(ctx context.Context, req RenderCardRequest) (*RenderedCard, error)
}

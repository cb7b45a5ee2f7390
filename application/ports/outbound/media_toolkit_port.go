package outbound

import (
	"context"
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type PrepareBackgroundRequest struct {
	VideoPath string
	AudioPath string
	// Duration is the minimum length the prepared tracks must cover.
	Duration time.Duration
	Width    int
	Height   int
	WorkDir  string
}

type PreparedBackground struct {
	VideoPath string
	AudioPath string
}

// MediaToolkitPort wraps the external media tooling (ffmpeg/ffprobe).
type MediaToolkitPort interface {
	// ProbeDuration returns the exact duration of a media file.
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	// PrepareBackground crops the background video to the output aspect
	// ratio and trims or loops both tracks to cover the requested duration.
	PrepareBackground(ctx context.Context, req PrepareBackgroundRequest) (*PreparedBackground, error)
	// Render encodes the composed tracks for job into outPath using the
	// prepared background.
	Render(ctx context.Context, job domain.RenderJob, bg *PreparedBackground, outPath string) error
}

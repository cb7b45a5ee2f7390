package outbound

import "context"

type BackgroundTracks struct {
	VideoPath string
	// AudioPath is empty when no background music is configured.
	AudioPath string
}

// BackgroundProviderPort resolves the configured background choices to local
// files, downloading catalog entries once into the assets directory.
type BackgroundProviderPort interface {
	Ensure(ctx context.Context) (*BackgroundTracks, error)
}

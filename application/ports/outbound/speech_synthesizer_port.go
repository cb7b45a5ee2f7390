package outbound

import "context"

type SynthesizeRequest struct {
	Text  string
	Voice string
}

// SpeechSynthesizerPort is the capability contract for a narration provider.
// One concrete adapter per provider is selected by configuration at startup.
type SpeechSynthesizerPort interface {
	// Name identifies the provider in cache keys and error reports.
	Name() string
	// MaxChars is the provider's per-request text limit; zero means none.
	MaxChars() int
	// ConfigFingerprint captures every provider setting beyond the voice
	// that changes the produced audio, so cached artifacts are not reused
	// across setting changes. Empty when the provider has none.
	ConfigFingerprint() string
	Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error)
}

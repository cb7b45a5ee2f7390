package adapters

import (
	"fmt"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/config"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// SelectSynthesizer resolves the configured narration provider name to its
// adapter. Selection happens once at startup; the pipeline only ever sees
// the capability interface.
func SelectSynthesizer(cfg *config.Config, fetcher ContentFetcher, logger outbound.LoggerPort) (outbound.SpeechSynthesizerPort, error) {
	switch cfg.TTS.Provider {
	case "tiktok":
		return NewTikTokSynthesizer(fetcher, logger, cfg.Secrets.TikTokSessionID), nil
	case "streamlabspolly":
		return NewStreamlabsSynthesizer(fetcher, logger), nil
	case "elevenlabs":
		return NewElevenLabsSynthesizer(fetcher, logger, cfg), nil
	case "awspolly":
		return NewPollySynthesizer(logger, cfg.TTS.PollyRegion)
	case "googletranslate":
		return NewGTTSSynthesizer(fetcher, cfg.TTS.GTTSLanguage), nil
	default:
		return nil, &domain.ConfigurationError{Key: "tts.provider", Err: fmt.Errorf("unknown provider %q", cfg.TTS.Provider)}
	}
}

// SelectRenderer resolves the configured visual style to its adapter.
func SelectRenderer(cfg *config.Config, fetcher ContentFetcher, logger outbound.LoggerPort) (outbound.ScreenshotRendererPort, error) {
	switch cfg.Render.Style {
	case "card":
		return NewCardRenderer(cfg.Render.MaxLines), nil
	case "hcti":
		return NewHCTIRenderer(fetcher, logger, cfg), nil
	default:
		return nil, &domain.ConfigurationError{Key: "render.style", Err: fmt.Errorf("unknown style %q", cfg.Render.Style)}
	}
}

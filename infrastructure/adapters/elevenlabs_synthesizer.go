package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/config"
)

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings elevenVoiceSetting `json:"voice_settings"`
}

type elevenVoiceSetting struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsSynthesizer struct {
	ContentFetcher
	logger outbound.LoggerPort
	cfg    *config.Config
}

func NewElevenLabsSynthesizer(fetcher ContentFetcher, logger outbound.LoggerPort, cfg *config.Config) outbound.SpeechSynthesizerPort {
	return &elevenLabsSynthesizer{
		ContentFetcher: fetcher,
		logger:         logger,
		cfg:            cfg,
	}
}

func (e *elevenLabsSynthesizer) Name() string { return "elevenlabs" }

func (e *elevenLabsSynthesizer) MaxChars() int { return 2500 }

// ConfigFingerprint covers the model and voice settings sent with every
// request; cached audio for one tuning must not serve another.
func (e *elevenLabsSynthesizer) ConfigFingerprint() string {
	return fmt.Sprintf("%s|%.3f|%.3f", e.cfg.TTS.ElevenModel, e.cfg.TTS.ElevenStability, e.cfg.TTS.ElevenBoost)
}

func (e *elevenLabsSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	httpReq, err := e.getRequest(ctx, req)
	if err != nil {
		e.logger.Error(err, "failed to build the elevenlabs request")
		return nil, err
	}
	return e.FetchContent(httpReq)
}

func (e *elevenLabsSynthesizer) getRequest(ctx context.Context, req outbound.SynthesizeRequest) (*http.Request, error) {
	body := elevenLabsRequest{
		Text:    req.Text,
		ModelID: e.cfg.TTS.ElevenModel,
		VoiceSettings: elevenVoiceSetting{
			Stability:       e.cfg.TTS.ElevenStability,
			SimilarityBoost: e.cfg.TTS.ElevenBoost,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.cfg.TTS.ElevenAPIURL+"/"+req.Voice, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", e.cfg.Secrets.ElevenLabsAPIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

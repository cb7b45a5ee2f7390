package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

const defaultStreamlabsAPIURL = "https://streamlabs.com/polly/speak"

type streamlabsResponse struct {
	SpeakURL string `json:"speak_url"`
	Error    string `json:"error"`
}

// streamlabsSynthesizer uses the unofficial Streamlabs Polly relay: one POST
// yields a temporary speak_url, a second GET fetches the audio from it.
type streamlabsSynthesizer struct {
	ContentFetcher
	logger outbound.LoggerPort
	apiURL string
}

func NewStreamlabsSynthesizer(fetcher ContentFetcher, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &streamlabsSynthesizer{
		ContentFetcher: fetcher,
		logger:         logger,
		apiURL:         defaultStreamlabsAPIURL,
	}
}

func (s *streamlabsSynthesizer) Name() string { return "streamlabspolly" }

func (s *streamlabsSynthesizer) MaxChars() int { return 550 }

// ConfigFingerprint is empty: the voice is the only knob.
func (s *streamlabsSynthesizer) ConfigFingerprint() string { return "" }

func (s *streamlabsSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	form := url.Values{}
	form.Set("voice", capitalize(req.Voice))
	form.Set("text", req.Text)
	form.Set("service", "polly")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Referer", "https://streamlabs.com/")

	raw, err := s.FetchContent(httpReq)
	if err != nil {
		return nil, err
	}

	var res streamlabsResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		s.logger.Error(err, "streamlabs returned malformed JSON")
		return nil, err
	}
	if res.SpeakURL == "" {
		if res.Error != "" {
			return nil, fmt.Errorf("streamlabs rejected the request: %s", res.Error)
		}
		return nil, fmt.Errorf("streamlabs response is missing speak_url")
	}

	audioReq, err := http.NewRequestWithContext(ctx, http.MethodGet, res.SpeakURL, nil)
	if err != nil {
		return nil, err
	}
	return s.FetchContent(audioReq)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

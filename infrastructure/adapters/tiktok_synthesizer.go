package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

const defaultTikTokAPIURL = "https://api16-normal-c-useast1a.tiktokv.com/media/api/text/speech/invoke/"

// tiktokResponse is the provider's envelope; audio arrives base64-encoded
// in data.v_str.
type tiktokResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       struct {
		VStr string `json:"v_str"`
	} `json:"data"`
}

type tiktokSynthesizer struct {
	ContentFetcher
	logger    outbound.LoggerPort
	apiURL    string
	sessionID string
}

func NewTikTokSynthesizer(fetcher ContentFetcher, logger outbound.LoggerPort, sessionID string) outbound.SpeechSynthesizerPort {
	return &tiktokSynthesizer{
		ContentFetcher: fetcher,
		logger:         logger,
		apiURL:         defaultTikTokAPIURL,
		sessionID:      sessionID,
	}
}

func (t *tiktokSynthesizer) Name() string { return "tiktok" }

func (t *tiktokSynthesizer) MaxChars() int { return 200 }

// ConfigFingerprint is empty: the voice is the only knob.
func (t *tiktokSynthesizer) ConfigFingerprint() string { return "" }

func (t *tiktokSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	httpReq, err := t.getRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := t.FetchContent(httpReq)
	if err != nil {
		return nil, err
	}

	var res tiktokResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		t.logger.Error(err, "tiktok returned malformed JSON")
		return nil, err
	}
	if res.StatusCode != 0 {
		return nil, fmt.Errorf("tiktok rejected the request: code %d: %s", res.StatusCode, res.Message)
	}
	if res.Data.VStr == "" {
		return nil, fmt.Errorf("tiktok response is missing audio data")
	}

	audio, err := base64.StdEncoding.DecodeString(res.Data.VStr)
	if err != nil {
		t.logger.Error(err, "tiktok audio payload is not valid base64")
		return nil, err
	}
	return audio, nil
}

func (t *tiktokSynthesizer) getRequest(ctx context.Context, req outbound.SynthesizeRequest) (*http.Request, error) {
	// The endpoint chokes on a few characters; match the upstream client's
	// substitutions.
	text := strings.NewReplacer("+", "plus", "&", "and", "r/", "").Replace(req.Text)

	params := url.Values{}
	params.Set("req_text", text)
	params.Set("speaker_map_type", "0")
	params.Set("aid", "1233")
	if req.Voice != "" {
		params.Set("text_speaker", req.Voice)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent",
		"com.zhiliaoapp.musically/2022600030 (Linux; U; Android 7.1.2; es_ES; SM-G988N; Build/NRD90M;tt-ok/3.12.13.1)")
	httpReq.Header.Set("Cookie", "sessionid="+t.sessionID)
	return httpReq, nil
}

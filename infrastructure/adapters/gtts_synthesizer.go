package adapters

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

const defaultGTTSAPIURL = "https://translate.google.com/translate_tts"

// gttsSynthesizer uses the public Google Translate speech endpoint. The
// voice is a language code rather than a speaker name.
type gttsSynthesizer struct {
	ContentFetcher
	language string
}

func NewGTTSSynthesizer(fetcher ContentFetcher, language string) outbound.SpeechSynthesizerPort {
	return &gttsSynthesizer{ContentFetcher: fetcher, language: language}
}

func (g *gttsSynthesizer) Name() string { return "googletranslate" }

func (g *gttsSynthesizer) MaxChars() int { return 200 }

// ConfigFingerprint carries the configured language, which picks the
// speaker whenever the request names no voice.
func (g *gttsSynthesizer) ConfigFingerprint() string { return g.language }

func (g *gttsSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	lang := req.Voice
	if lang == "" {
		lang = g.language
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, defaultGTTSAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return g.FetchContent(httpReq)
}

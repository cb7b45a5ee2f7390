package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"image/png"
	"net/http"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/config"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type hctiRequest struct {
	HTML          string `json:"html"`
	CSS           string `json:"css"`
	ViewportWidth int    `json:"viewport_width"`
}

type hctiResponse struct {
	URL string `json:"url"`
}

// hctiRenderer renders segment cards through the HTML/CSS-to-Image service:
// one POST creates the image, a second request downloads it.
type hctiRenderer struct {
	ContentFetcher
	logger outbound.LoggerPort
	cfg    *config.Config
}

func NewHCTIRenderer(fetcher ContentFetcher, logger outbound.LoggerPort, cfg *config.Config) outbound.ScreenshotRendererPort {
	return &hctiRenderer{
		ContentFetcher: fetcher,
		logger:         logger,
		cfg:            cfg,
	}
}

func (h *hctiRenderer) Name() string { return "hcti" }

func (h *hctiRenderer) Render(ctx context.Context, req outbound.RenderCardRequest) (*outbound.RenderedCard, error) {
	payload, err := json.Marshal(hctiRequest{
		HTML:          cardHTML(req.Segment),
		CSS:           cardCSS(req.Theme, req.Width, req.Segment.Depth),
		ViewportWidth: req.Width,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.Render.HCTIAPIURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(h.cfg.Secrets.HCTIUserID, h.cfg.Secrets.HCTIAPIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := h.FetchContent(httpReq)
	if err != nil {
		return nil, err
	}

	var res hctiResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		h.logger.Error(err, "hcti returned malformed JSON")
		return nil, err
	}
	if res.URL == "" {
		return nil, fmt.Errorf("hcti response is missing the image url")
	}

	imgReq, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL+".png", nil)
	if err != nil {
		return nil, err
	}
	img, err := h.FetchContent(imgReq)
	if err != nil {
		return nil, err
	}

	dims, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("hcti returned malformed image data: %w", err)
	}
	return &outbound.RenderedCard{
		PNG:    img,
		Width:  dims.Width,
		Height: dims.Height,
	}, nil
}

func cardHTML(seg domain.Segment) string {
	author := seg.Author
	if author == "" {
		author = "[deleted]"
	}
	var b strings.Builder
	b.WriteString(`<div class="card"><span class="author">u/`)
	b.WriteString(html.EscapeString(author))
	b.WriteString(`</span><p class="body">`)
	b.WriteString(html.EscapeString(seg.Text))
	b.WriteString(`</p></div>`)
	return b.String()
}

func cardCSS(theme string, width, depth int) string {
	bg, fg := "#1a1a1b", "#d7dadc"
	switch theme {
	case "light":
		bg, fg = "#ffffff", "#1c1c1c"
	case "transparent":
		bg, fg = "transparent", "#ffffff"
	}
	indent := depth * 24
	return fmt.Sprintf(
		`.card{width:%dpx;margin-left:%dpx;background:%s;color:%s;`+
			`font-family:"IBM Plex Sans",sans-serif;padding:16px;border-radius:8px}`+
			`.author{color:#818384;font-size:14px}.body{font-size:18px;margin:8px 0 0}`,
		width-indent, indent, bg, fg)
}

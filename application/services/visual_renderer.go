package services

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/inbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type visualRenderer struct {
	logger   outbound.LoggerPort
	renderer outbound.ScreenshotRendererPort
	cache    outbound.ArtifactCachePort
	theme    string
	width    int
	retry    RetryPolicy
}

func NewVisualRenderer(logger outbound.LoggerPort, renderer outbound.ScreenshotRendererPort,
	cache outbound.ArtifactCachePort, theme string, width int, retry RetryPolicy) inbound.VisualRendererPort {
	return &visualRenderer{
		logger:   logger,
		renderer: renderer,
		cache:    cache,
		theme:    theme,
		width:    width,
		retry:    retry,
	}
}

// cardMeta is cached beside the PNG so dimensions and the truncation flag
// survive cache hits in later runs.
type cardMeta struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Truncated bool `json:"truncated"`
}

func (v *visualRenderer) Render(ctx context.Context, segment domain.Segment) (domain.ImageArtifact, error) {
	var card *outbound.RenderedCard

	renderCard := func() (*outbound.RenderedCard, error) {
		var rendered *outbound.RenderedCard
		retryErr := withRetry(ctx, v.retry, func() error {
			var renderErr error
			rendered, renderErr = v.renderer.Render(ctx, outbound.RenderCardRequest{
				Segment: segment,
				Theme:   v.theme,
				Width:   v.width,
			})
			if renderErr != nil {
				v.logger.WarnWithFields("render attempt failed", map[string]interface{}{
					"ordinal":  segment.Ordinal,
					"provider": v.renderer.Name(),
					"error":    renderErr.Error(),
				})
			}
			return renderErr
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return rendered, nil
	}

	key := artifactKey("image", v.renderer.Name(), v.theme, strconv.Itoa(v.width),
		segment.Author, string(segment.Kind), strconv.Itoa(segment.Depth), segment.Text)
	path, _, err := v.cache.GetOrCreate(key, "png", func() ([]byte, error) {
		rendered, renderErr := renderCard()
		if renderErr != nil {
			return nil, renderErr
		}
		card = rendered
		return rendered.PNG, nil
	})
	if err != nil {
		return domain.ImageArtifact{}, &domain.RenderError{
			Ordinal:  segment.Ordinal,
			Provider: v.renderer.Name(),
			Err:      err,
		}
	}

	// Rendering is deterministic, so filling a missing metadata entry from
	// a fresh render yields the same answer the cached image came from.
	metaPath, _, err := v.cache.GetOrCreate(key+"-meta", "json", func() ([]byte, error) {
		if card == nil {
			rendered, renderErr := renderCard()
			if renderErr != nil {
				return nil, renderErr
			}
			card = rendered
		}
		return json.Marshal(cardMeta{Width: card.Width, Height: card.Height, Truncated: card.Truncated})
	})
	if err != nil {
		return domain.ImageArtifact{}, &domain.RenderError{
			Ordinal:  segment.Ordinal,
			Provider: v.renderer.Name(),
			Err:      err,
		}
	}

	meta, err := readCardMeta(metaPath)
	if err != nil {
		return domain.ImageArtifact{}, &domain.RenderError{
			Ordinal:  segment.Ordinal,
			Provider: v.renderer.Name(),
			Err:      err,
		}
	}

	if meta.Truncated {
		v.logger.WarnWithFields("segment text truncated to fit the canvas", map[string]interface{}{
			"ordinal": segment.Ordinal,
			"author":  segment.Author,
		})
	}
	return domain.ImageArtifact{
		Path:      path,
		Width:     meta.Width,
		Height:    meta.Height,
		Truncated: meta.Truncated,
	}, nil
}

func readCardMeta(path string) (cardMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return cardMeta{}, err
	}
	var meta cardMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return cardMeta{}, err
	}
	return meta, nil
}

package adapters

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

// ContentFetcher executes an HTTP request and returns the response body.
// Shared by every HTTP-backed provider adapter.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})
		return nil, err
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.logger.Error(closeErr, "failed to close response body")
		}
	}()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.ErrorWithFields(nil, "HTTP request returned non-OK status", map[string]interface{}{
			"method":  req.Method,
			"url":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(payload),
		})
		return nil, fmt.Errorf("HTTP %d from %s", res.StatusCode, req.URL.Host)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Error(err, "failed to read response body")
		return nil, err
	}
	return payload, nil
}

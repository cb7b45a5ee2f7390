package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

const redditUserAgent = "RedditVideoMakerBot/1.0 (background video assembler)"

type redditFetcher struct {
	logger         outbound.LoggerPort
	contentFetcher ContentFetcher
	baseURL        string
	includeBody    bool
	minReplyLength int
	maxReplyLength int
}

func NewRedditFetcher(logger outbound.LoggerPort, contentFetcher ContentFetcher, baseURL string, includeBody bool, minReplyLength, maxReplyLength int) outbound.ThreadFetcherPort {
	return &redditFetcher{
		logger:         logger,
		contentFetcher: contentFetcher,
		baseURL:        strings.TrimRight(baseURL, "/"),
		includeBody:    includeBody,
		minReplyLength: minReplyLength,
		maxReplyLength: maxReplyLength,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	Title    string `json:"title"`
	Selftext string `json:"selftext"`
	Body     string `json:"body"`
	Author   string `json:"author"`
	Stickied bool   `json:"stickied"`
}

func (f *redditFetcher) FetchThread(ctx context.Context, threadID string, maxItems int) ([]domain.Segment, error) {
	url := fmt.Sprintf("%s/comments/%s.json?limit=%d&depth=1", f.baseURL, threadID, maxItems+10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build thread request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	body, err := f.contentFetcher.FetchContent(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thread %s: %w", threadID, err)
	}

	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	if len(listings) < 2 || len(listings[0].Data.Children) == 0 {
		return nil, fmt.Errorf("thread %s: response is missing the post listing", threadID)
	}

	post := listings[0].Data.Children[0].Data
	title := cleanThreadText(post.Title)
	if title == "" {
		return nil, fmt.Errorf("thread %s: post has no title", threadID)
	}

	ordinal := 0
	segments := []domain.Segment{
		domain.NewSegment(threadID, domain.PostTitleSegment, post.Author, title, ordinal),
	}
	ordinal++

	if f.includeBody {
		if selftext := cleanThreadText(post.Selftext); selftext != "" && !isRemoved(selftext) {
			segments = append(segments, domain.NewSegment(threadID, domain.PostBodySegment, post.Author, selftext, ordinal))
			ordinal++
		}
	}

	skipped := 0
	for _, child := range listings[1].Data.Children {
		if len(segments) >= maxItems+2 {
			break
		}
		if child.Kind != "t1" {
			continue
		}
		comment := child.Data
		text := cleanThreadText(comment.Body)
		if comment.Stickied || isRemoved(text) || isRemoved(comment.Author) {
			skipped++
			continue
		}
		if len(text) < f.minReplyLength || len(text) > f.maxReplyLength {
			skipped++
			continue
		}
		segments = append(segments, domain.NewSegment(threadID, domain.ReplySegment, comment.Author, text, ordinal))
		ordinal++
	}

	f.logger.InfoWithFields("fetched thread", map[string]interface{}{
		"thread_id": threadID,
		"segments":  len(segments),
		"skipped":   skipped,
	})
	return segments, nil
}

func isRemoved(s string) bool {
	return s == "" || s == "[deleted]" || s == "[removed]"
}

// cleanThreadText trims the text and collapses runs of blank lines; card
// layout and narration both behave badly on raggedy markdown spacing.
func cleanThreadText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

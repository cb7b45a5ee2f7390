package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

const threadJSON = `[
  {"data": {"children": [
    {"kind": "t3", "data": {"title": "An interesting question", "selftext": "Some context.", "author": "op_user"}}
  ]}},
  {"data": {"children": [
    {"kind": "t1", "data": {"body": "First sensible answer with enough text.", "author": "replier_one"}},
    {"kind": "t1", "data": {"body": "Pinned housekeeping notice from the mods.", "author": "a_mod", "stickied": true}},
    {"kind": "t1", "data": {"body": "[removed]", "author": "ghost"}},
    {"kind": "t1", "data": {"body": "ok", "author": "terse_user"}},
    {"kind": "t1", "data": {"body": "Second sensible answer, also long enough.", "author": "replier_two"}}
  ]}}
]`

func redditTestServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request is missing a User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(payload)); err != nil {
			t.Error("failed to write response:", err)
		}
	}))
}

func TestRedditFetcher_BuildsOrderedSegments(t *testing.T) {
	srv := redditTestServer(t, threadJSON)
	defer srv.Close()

	logger := NewZerologWrapper("error")
	fetcher := NewRedditFetcher(logger, NewContentFetcher(logger), srv.URL, true, 10, 500)

	segments, err := fetcher.FetchThread(context.Background(), "abc123", 10)
	if err != nil {
		t.Fatal("fetch failed:", err)
	}

	// Title, body, then the two acceptable replies. Stickied, removed and
	// too-short comments are filtered.
	if len(segments) != 4 {
		t.Fatal("segment count:", len(segments))
	}
	if segments[0].Kind != domain.PostTitleSegment || segments[0].Text != "An interesting question" {
		t.Error("first segment:", segments[0])
	}
	if segments[1].Kind != domain.PostBodySegment || segments[1].Author != "op_user" {
		t.Error("second segment:", segments[1])
	}
	if segments[2].Author != "replier_one" || segments[3].Author != "replier_two" {
		t.Error("reply order:", segments[2].Author, segments[3].Author)
	}
	for i, s := range segments {
		if s.Ordinal != i {
			t.Errorf("segment %d has ordinal %d", i, s.Ordinal)
		}
		if s.ThreadID != "abc123" {
			t.Error("segment thread id:", s.ThreadID)
		}
	}
}

func TestRedditFetcher_ExcludesBodyWhenDisabled(t *testing.T) {
	srv := redditTestServer(t, threadJSON)
	defer srv.Close()

	logger := NewZerologWrapper("error")
	fetcher := NewRedditFetcher(logger, NewContentFetcher(logger), srv.URL, false, 10, 500)

	segments, err := fetcher.FetchThread(context.Background(), "abc123", 10)
	if err != nil {
		t.Fatal("fetch failed:", err)
	}
	for _, s := range segments {
		if s.Kind == domain.PostBodySegment {
			t.Fatal("body segment present despite include_body=false")
		}
	}
}

func TestRedditFetcher_HonorsReplyCap(t *testing.T) {
	srv := redditTestServer(t, threadJSON)
	defer srv.Close()

	logger := NewZerologWrapper("error")
	fetcher := NewRedditFetcher(logger, NewContentFetcher(logger), srv.URL, true, 10, 500)

	segments, err := fetcher.FetchThread(context.Background(), "abc123", 1)
	if err != nil {
		t.Fatal("fetch failed:", err)
	}
	replies := 0
	for _, s := range segments {
		if s.Kind == domain.ReplySegment {
			replies++
		}
	}
	if replies != 1 {
		t.Error("reply count with cap 1:", replies)
	}
}

func TestRedditFetcher_MissingPostListingFails(t *testing.T) {
	srv := redditTestServer(t, `[{"data": {"children": []}}]`)
	defer srv.Close()

	logger := NewZerologWrapper("error")
	fetcher := NewRedditFetcher(logger, NewContentFetcher(logger), srv.URL, true, 10, 500)

	if _, err := fetcher.FetchThread(context.Background(), "abc123", 10); err == nil {
		t.Fatal("malformed listing should fail")
	}
}

func TestCleanThreadText(t *testing.T) {
	in := "  first line \r\n\r\n\r\n second line \n\n"
	want := "first line\n\nsecond line"
	if got := cleanThreadText(in); got != want {
		t.Errorf("cleanThreadText: %q, want %q", got, want)
	}
}

package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

func tiktokWithServer(t *testing.T, handler http.HandlerFunc) (outbound.SpeechSynthesizerPort, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	logger := NewZerologWrapper("error")
	return &tiktokSynthesizer{
		ContentFetcher: NewContentFetcher(logger),
		logger:         logger,
		apiURL:         srv.URL,
		sessionID:      "test-session",
	}, srv
}

func TestTikTokSynthesizer_DecodesAudio(t *testing.T) {
	audio := []byte("mp3-bytes")
	synth, srv := tiktokWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("text_speaker"); got != "en_us_001" {
			t.Error("voice parameter:", got)
		}
		if got := r.URL.Query().Get("req_text"); got != "hello world" {
			t.Error("text parameter:", got)
		}
		if cookie := r.Header.Get("Cookie"); cookie != "sessionid=test-session" {
			t.Error("session cookie:", cookie)
		}
		fmt.Fprintf(w, `{"status_code": 0, "data": {"v_str": %q}}`, base64.StdEncoding.EncodeToString(audio))
	})
	defer srv.Close()

	got, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "hello world", Voice: "en_us_001"})
	if err != nil {
		t.Fatal("synthesize failed:", err)
	}
	if !bytes.Equal(got, audio) {
		t.Error("decoded audio mismatch")
	}
}

func TestTikTokSynthesizer_SanitizesText(t *testing.T) {
	synth, srv := tiktokWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("req_text"); got != "cats and dogs plus AskReddit" {
			t.Error("sanitized text:", got)
		}
		fmt.Fprintf(w, `{"status_code": 0, "data": {"v_str": %q}}`, base64.StdEncoding.EncodeToString([]byte("x")))
	})
	defer srv.Close()

	if _, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "cats & dogs + r/AskReddit"}); err != nil {
		t.Fatal("synthesize failed:", err)
	}
}

func TestTikTokSynthesizer_RejectedRequestFails(t *testing.T) {
	synth, srv := tiktokWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code": 5, "message": "session expired"}`)
	})
	defer srv.Close()

	if _, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "hello"}); err == nil {
		t.Fatal("provider rejection should fail")
	}
}

func TestTikTokSynthesizer_MissingAudioFails(t *testing.T) {
	synth, srv := tiktokWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code": 0, "data": {"v_str": ""}}`)
	})
	defer srv.Close()

	if _, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "hello"}); err == nil {
		t.Fatal("empty audio payload should fail")
	}
}

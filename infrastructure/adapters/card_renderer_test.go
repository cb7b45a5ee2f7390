package adapters

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

func cardRequest(text string) outbound.RenderCardRequest {
	return outbound.RenderCardRequest{
		Segment: domain.NewSegment("t3_abc", domain.ReplySegment, "someone", text, 1),
		Theme:   "dark",
		Width:   720,
	}
}

func TestCardRenderer_IsDeterministic(t *testing.T) {
	renderer := NewCardRenderer(22)

	first, err := renderer.Render(context.Background(), cardRequest("the same comment text"))
	if err != nil {
		t.Fatal("first render failed:", err)
	}
	second, err := renderer.Render(context.Background(), cardRequest("the same comment text"))
	if err != nil {
		t.Fatal("second render failed:", err)
	}

	if !bytes.Equal(first.PNG, second.PNG) {
		t.Fatal("identical input produced different images")
	}
}

func TestCardRenderer_OutputMatchesReportedDimensions(t *testing.T) {
	renderer := NewCardRenderer(22)

	card, err := renderer.Render(context.Background(), cardRequest("short text"))
	if err != nil {
		t.Fatal("render failed:", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(card.PNG))
	if err != nil {
		t.Fatal("output is not a decodable PNG:", err)
	}
	if cfg.Width != card.Width || cfg.Height != card.Height {
		t.Errorf("decoded %dx%d, reported %dx%d", cfg.Width, cfg.Height, card.Width, card.Height)
	}
	if card.Width != 720 {
		t.Error("card width:", card.Width)
	}
}

func TestCardRenderer_TruncatesLongText(t *testing.T) {
	renderer := NewCardRenderer(3)

	card, err := renderer.Render(context.Background(), cardRequest(strings.Repeat("many words that will not fit ", 40)))
	if err != nil {
		t.Fatal("render failed:", err)
	}
	if !card.Truncated {
		t.Error("long text did not report truncation")
	}
}

func TestCardRenderer_UnknownThemeFallsBackToDark(t *testing.T) {
	renderer := NewCardRenderer(22)

	dark, err := renderer.Render(context.Background(), cardRequest("text"))
	if err != nil {
		t.Fatal("render failed:", err)
	}

	req := cardRequest("text")
	req.Theme = "sepia"
	fallback, err := renderer.Render(context.Background(), req)
	if err != nil {
		t.Fatal("render failed:", err)
	}
	if !bytes.Equal(dark.PNG, fallback.PNG) {
		t.Error("unknown theme should render like the dark theme")
	}
}

func TestWrapText(t *testing.T) {
	lines, truncated := wrapText("one two three four", 9, 10)
	if truncated {
		t.Fatal("unexpected truncation")
	}
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatal("line count:", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapText_SplitsOversizedWords(t *testing.T) {
	lines, _ := wrapText("abcdefghij", 4, 10)
	if len(lines) != 3 || lines[0] != "abcd" || lines[1] != "efgh" || lines[2] != "ij" {
		t.Error("oversized word split:", lines)
	}
}

func TestWrapText_EllipsisOnTruncation(t *testing.T) {
	lines, truncated := wrapText("aaa bbb ccc ddd", 3, 2)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if len(lines) != 2 {
		t.Fatal("line count after truncation:", lines)
	}
	if !strings.HasSuffix(lines[1], "...") {
		t.Error("last line has no ellipsis:", lines[1])
	}
}

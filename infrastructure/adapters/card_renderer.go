package adapters

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cardMargin   = 12
	cardLineGap  = 4
	cardIndent   = 16
	glyphWidth   = 7
	glyphHeight  = 13
	glyphAscent  = 11
	renderScale  = 2
	maxIndentLvl = 4
)

type cardTheme struct {
	background color.RGBA
	text       color.RGBA
	author     color.RGBA
	accent     color.RGBA
	opaque     bool
}

var cardThemes = map[string]cardTheme{
	"dark": {
		background: color.RGBA{R: 26, G: 26, B: 27, A: 255},
		text:       color.RGBA{R: 215, G: 218, B: 220, A: 255},
		author:     color.RGBA{R: 129, G: 131, B: 132, A: 255},
		accent:     color.RGBA{R: 255, G: 69, B: 0, A: 255},
		opaque:     true,
	},
	"light": {
		background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		text:       color.RGBA{R: 28, G: 28, B: 28, A: 255},
		author:     color.RGBA{R: 120, G: 124, B: 126, A: 255},
		accent:     color.RGBA{R: 0, G: 121, B: 211, A: 255},
		opaque:     true,
	},
	"transparent": {
		background: color.RGBA{},
		text:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		author:     color.RGBA{R: 200, G: 200, B: 200, A: 255},
		accent:     color.RGBA{R: 255, G: 69, B: 0, A: 255},
	},
}

// cardRenderer draws a styled comment card entirely in-process. The same
// segment and style always produce byte-identical PNG output.
type cardRenderer struct {
	maxLines int
}

func NewCardRenderer(maxLines int) outbound.ScreenshotRendererPort {
	if maxLines < 2 {
		maxLines = 2
	}
	return &cardRenderer{maxLines: maxLines}
}

func (c *cardRenderer) Name() string { return "card" }

func (c *cardRenderer) Render(_ context.Context, req outbound.RenderCardRequest) (*outbound.RenderedCard, error) {
	theme, ok := cardThemes[req.Theme]
	if !ok {
		theme = cardThemes["dark"]
	}

	logicalWidth := req.Width / renderScale
	if logicalWidth < 2*cardMargin+4*glyphWidth {
		logicalWidth = 2*cardMargin + 4*glyphWidth
	}

	indent := req.Segment.Depth
	if indent > maxIndentLvl {
		indent = maxIndentLvl
	}
	indentPx := indent * cardIndent

	cols := (logicalWidth - 2*cardMargin - indentPx) / glyphWidth
	lines, truncated := wrapText(req.Segment.Text, cols, c.maxLines)

	height := 2*cardMargin + glyphHeight + cardLineGap + len(lines)*(glyphHeight+cardLineGap)
	img := image.NewRGBA(image.Rect(0, 0, logicalWidth, height))
	if theme.opaque {
		draw.Draw(img, img.Bounds(), image.NewUniform(theme.background), image.Point{}, draw.Src)
	}

	// Indent guide for nested replies.
	if indentPx > 0 {
		bar := image.Rect(indentPx-cardIndent/2, cardMargin, indentPx-cardIndent/2+2, height-cardMargin)
		draw.Draw(img, bar, image.NewUniform(theme.accent), image.Point{}, draw.Src)
	}

	x := cardMargin + indentPx
	y := cardMargin + glyphAscent

	author := req.Segment.Author
	if author == "" {
		author = "[deleted]"
	}
	drawLine(img, "u/"+author, x, y, theme.author)
	y += glyphHeight + cardLineGap

	for _, line := range lines {
		drawLine(img, line, x, y, theme.text)
		y += glyphHeight + cardLineGap
	}

	scaled := scaleNearest(img, renderScale)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return &outbound.RenderedCard{
		PNG:       buf.Bytes(),
		Width:     scaled.Bounds().Dx(),
		Height:    scaled.Bounds().Dy(),
		Truncated: truncated,
	}, nil
}

func drawLine(dst draw.Image, text string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrapText breaks text into lines of at most cols characters, preferring
// word boundaries, and cuts to maxLines with an ellipsis marker when the
// text does not fit.
func wrapText(text string, cols, maxLines int) ([]string, bool) {
	if cols < 1 {
		cols = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		current := ""
		for _, word := range words {
			for len([]rune(word)) > cols {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				runes := []rune(word)
				lines = append(lines, string(runes[:cols]))
				word = string(runes[cols:])
			}
			switch {
			case current == "":
				current = word
			case len([]rune(current))+1+len([]rune(word)) <= cols:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if len(lines) <= maxLines {
		return lines, false
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) > cols-3 {
		last = last[:cols-3]
	}
	lines[maxLines-1] = string(last) + "..."
	return lines, true
}

func scaleNearest(src *image.RGBA, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < b.Dy()*factor; y++ {
		for x := 0; x < b.Dx()*factor; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(x/factor, y/factor))
		}
	}
	return dst
}

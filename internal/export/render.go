// Package export rasterizes flashcards to PNG images and hands them to a sink.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"

	"github.com/pep299/iqcraft/internal/flashcard"
)

// Canvas size: 800x1200 at 2x.
const (
	Width  = 1600
	Height = 2400
)

const (
	margin          = 120
	titleStartY     = 200
	titleLineHeight = 110
	pointsOffset    = 160
	pointInset      = 600
	pointLineHeight = 72
	pointPadding    = 165
	pointSpacing    = 50
	pointRadius     = 32
	bulletX         = 160
	pointTextX      = 260
	footerOffset    = 140
	badgeOffsetX    = 180
	brandOffsetX    = 140
	badgePadding    = 24
	badgeRadius     = 40
)

var (
	titleColor = color.NRGBA{R: 0x31, G: 0x1d, B: 0x30, A: 0xff}
	pointColor = color.NRGBA{R: 0x46, G: 0x39, B: 0x49, A: 0xff}
	badgeText  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	brandColor = color.NRGBA{R: 0xd9, G: 0x35, B: 0xa0, A: 0xff}
	shadeColor = color.NRGBA{A: 26}
	pointFill  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Renderer draws flashcards. Font faces are not safe for concurrent use, so
// Render serializes callers.
type Renderer struct {
	brand string

	mu          sync.Mutex
	titleFace   font.Face
	measureFace font.Face
	pointFace   font.Face
	bulletFace  font.Face
	brandFace   font.Face
	badgeFace   font.Face
}

// NewRenderer loads the Go fonts and returns a renderer labelling cards with brand.
func NewRenderer(brand string) (*Renderer, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	medium, err := truetype.Parse(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse medium font: %w", err)
	}

	return &Renderer{
		brand:       brand,
		titleFace:   newFace(bold, 96),
		measureFace: newFace(medium, 56),
		pointFace:   newFace(medium, 65),
		bulletFace:  newFace(bold, 70),
		brandFace:   newFace(bold, 64),
		badgeFace:   newFace(medium, 52),
	}, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Render draws card as the index-th (zero-based) of total cards.
func (r *Renderer) Render(card flashcard.Flashcard, index, total int) image.Image {
	return r.draw(card, index, total).Image()
}

func (r *Renderer) draw(card flashcard.Flashcard, index, total int) *gg.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(Width, Height)

	dc.SetColor(flashcard.ColorForIndex(index))
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	dc.SetColor(shadeColor)
	dc.SetLineWidth(4)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Stroke()

	dc.SetFontFace(r.titleFace)
	dc.SetColor(titleColor)
	y := float64(titleStartY)
	for _, line := range WrapText(dc.MeasureString, card.Title, Width-2*margin) {
		dc.DrawString(line, margin, y)
		y += titleLineHeight
	}
	y += pointsOffset

	for _, point := range card.Points {
		dc.SetFontFace(r.measureFace)
		lines := WrapText(dc.MeasureString, point, Width-pointInset)
		height := float64(len(lines)*pointLineHeight + pointPadding)

		dc.SetColor(pointFill)
		dc.DrawRoundedRectangle(margin, y-90, Width-2*margin, height, pointRadius)
		dc.Fill()

		dc.SetColor(pointColor)
		dc.SetFontFace(r.bulletFace)
		dc.DrawString("•", bulletX, y+10)

		dc.SetFontFace(r.pointFace)
		lineY := y
		for _, line := range lines {
			dc.DrawString(line, pointTextX, lineY)
			lineY += pointLineHeight
		}

		y += height + pointSpacing
	}

	footerY := float64(Height - footerOffset)
	dc.SetColor(shadeColor)
	dc.DrawRectangle(0, footerY-50, Width, 4)
	dc.Fill()

	dc.SetFontFace(r.brandFace)
	dc.SetColor(brandColor)
	dc.DrawStringAnchored(r.brand, Width/2-brandOffsetX, footerY+40, 0.5, 0)

	dc.SetFontFace(r.badgeFace)
	number := fmt.Sprintf("%d/%d", index+1, total)
	numberWidth, _ := dc.MeasureString(number)
	numberX := float64(Width/2 + badgeOffsetX)
	numberY := footerY + 40
	badgeW := numberWidth + 2*badgePadding
	badgeH := 68.0
	dc.SetColor(shadeColor)
	dc.DrawRoundedRectangle(numberX-badgeW/2, numberY-48, badgeW, badgeH, min(badgeRadius, badgeH/2, badgeW/2))
	dc.Fill()

	dc.SetColor(badgeText)
	dc.DrawStringAnchored(number, numberX, numberY, 0.5, 0)

	return dc
}

// EncodePNG renders card and writes it to w as PNG.
func (r *Renderer) EncodePNG(w io.Writer, card flashcard.Flashcard, index, total int) error {
	dc := r.draw(card, index, total)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// PNG renders card and returns the encoded bytes.
func (r *Renderer) PNG(card flashcard.Flashcard, index, total int) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf, card, index, total); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WrapText greedily packs space-separated words into lines no wider than
// maxWidth. A single word wider than maxWidth gets a line of its own.
func WrapText(measure func(string) (float64, float64), text string, maxWidth float64) []string {
	var lines []string
	current := ""

	for _, word := range strings.Split(text, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := measure(candidate); w > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

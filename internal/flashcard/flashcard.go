// Package flashcard builds flashcards from a bullet-point summary.
package flashcard

import (
	"fmt"
	"image/color"

	"github.com/pep299/iqcraft/internal/segment"
)

// Flashcard is a titled group of one or two summary points.
type Flashcard struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// Palette is the fixed set of card background colors, cycled by card index.
var Palette = []color.NRGBA{
	{R: 0xf5, G: 0xee, B: 0xe6, A: 0xff},
	{R: 0xe8, G: 0xf3, B: 0xe8, A: 0xff},
	{R: 0xe2, G: 0xe7, B: 0xf3, A: 0xff},
	{R: 0xee, G: 0xe2, B: 0xf0, A: 0xff},
	{R: 0xf7, G: 0xeb, B: 0xe4, A: 0xff},
	{R: 0xf3, G: 0xdd, B: 0xdd, A: 0xff},
	{R: 0xe5, G: 0xf3, B: 0xf0, A: 0xff},
}

// ColorForIndex returns the palette color of the i-th card.
func ColorForIndex(i int) color.NRGBA {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Build groups the summary's bullet points into flashcards. Cards are titled
// with articleTitle, or "Key Concept N" when it is empty. A summary without
// bullet points yields a single placeholder card.
func Build(summary, articleTitle string) []Flashcard {
	var cards []Flashcard

	for _, points := range segment.GroupPoints(segment.ExtractBullets(summary)) {
		title := articleTitle
		if title == "" {
			title = fmt.Sprintf("Key Concept %d", len(cards)+1)
		}
		cards = append(cards, Flashcard{Title: title, Points: points})
	}

	if len(cards) == 0 {
		title := articleTitle
		if title == "" {
			title = "Summary"
		}
		cards = append(cards, Flashcard{
			Title: title,
			Points: []string{
				"No bullet points found in summary",
				"Try a different article",
				"Or paste text directly",
			},
		})
	}

	return cards
}

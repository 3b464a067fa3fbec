package export

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/pep299/iqcraft/internal/flashcard"
)

// DefaultDelay separates consecutive exports.
const DefaultDelay = 200 * time.Millisecond

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// FileName names the n-th (one-based) exported card: the first four title
// words joined by '-', stripped of anything but ASCII letters, digits and '-'.
func FileName(title string, n int) string {
	words := strings.Split(title, " ")
	if len(words) > 4 {
		words = words[:4]
	}
	sanitized := unsafeNameRe.ReplaceAllString(strings.Join(words, "-"), "")
	return fmt.Sprintf("%s-%d-IQ-Craft-Flashcard.png", sanitized, n)
}

// Exporter renders cards one at a time and stores them in a sink.
type Exporter struct {
	renderer *Renderer
	sink     Sink
	delay    time.Duration
	status   func(string)
}

// NewExporter creates an exporter. A negative delay selects DefaultDelay.
func NewExporter(renderer *Renderer, sink Sink, delay time.Duration) *Exporter {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Exporter{renderer: renderer, sink: sink, delay: delay}
}

// WithStatus returns a copy that reports progress to fn.
func (e *Exporter) WithStatus(fn func(string)) *Exporter {
	c := *e
	c.status = fn
	return &c
}

func (e *Exporter) report(message string) {
	if e.status != nil {
		e.status(message)
	}
}

// Export renders and stores every card in order, waiting between cards.
// It returns the names of the files stored before any error.
func (e *Exporter) Export(ctx context.Context, cards []flashcard.Flashcard) ([]string, error) {
	start := time.Now()
	names := make([]string, 0, len(cards))

	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			return names, err
		}
		e.report(fmt.Sprintf("Downloading flashcard %d of %d… ⮯", i+1, len(cards)))

		data, err := e.renderer.PNG(card, i, len(cards))
		if err != nil {
			return names, err
		}

		name := FileName(card.Title, i+1)
		if err := e.sink.Put(ctx, name, data); err != nil {
			return names, fmt.Errorf("storing %s: %w", name, err)
		}
		names = append(names, name)

		if i < len(cards)-1 && e.delay > 0 {
			select {
			case <-ctx.Done():
				return names, ctx.Err()
			case <-time.After(e.delay):
			}
		}
	}

	log.Printf("✅ Exported flashcards count=%d duration_ms=%d", len(names), time.Since(start).Milliseconds())
	e.report(fmt.Sprintf("All %d flashcards downloaded! ✔", len(cards)))
	return names, nil
}

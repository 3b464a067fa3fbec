// Package carousel tracks the paginated position of the flashcard and quiz
// views and the answers and submission flow of a quiz.
package carousel

import "fmt"

const (
	// FlashcardPageSize is the number of flashcards visible at once.
	FlashcardPageSize = 2
	// QuizPageSize is the number of questions visible at once.
	QuizPageSize = 1
)

// Key is a navigation key.
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
)

// Carousel is a bounded position over itemCount items shown pageSize at a time.
type Carousel struct {
	itemCount int
	pageSize  int
	position  int
}

// New creates a carousel positioned at the first page.
func New(itemCount, pageSize int) *Carousel {
	if pageSize < 1 {
		pageSize = 1
	}
	if itemCount < 0 {
		itemCount = 0
	}
	return &Carousel{itemCount: itemCount, pageSize: pageSize}
}

// NewFlashcards creates the two-up flashcard carousel.
func NewFlashcards(cardCount int) *Carousel {
	return New(cardCount, FlashcardPageSize)
}

// Position returns the index of the first visible item.
func (c *Carousel) Position() int { return c.position }

// ItemCount returns the number of items.
func (c *Carousel) ItemCount() int { return c.itemCount }

// MaxPosition returns the last valid position.
func (c *Carousel) MaxPosition() int {
	return max(0, c.itemCount-c.pageSize)
}

// CanPrev reports whether the previous button is enabled.
func (c *Carousel) CanPrev() bool { return c.position > 0 }

// CanNext reports whether the next button is enabled.
func (c *Carousel) CanNext() bool { return c.position < c.MaxPosition() }

// Prev moves one item back. It is a no-op at the first position.
func (c *Carousel) Prev() bool {
	if !c.CanPrev() {
		return false
	}
	c.position--
	return true
}

// Next moves one item forward. It is a no-op at the last position.
func (c *Carousel) Next() bool {
	if !c.CanNext() {
		return false
	}
	c.position++
	return true
}

// HandleKey maps the left and right arrow keys to Prev and Next.
func (c *Carousel) HandleKey(k Key) bool {
	switch k {
	case KeyLeft:
		return c.Prev()
	case KeyRight:
		return c.Next()
	}
	return false
}

// Visible returns the half-open range [start, end) of visible item indexes.
func (c *Carousel) Visible() (start, end int) {
	return c.position, min(c.position+c.pageSize, c.itemCount)
}

// Indicator describes the visible range, "1-2 of 7" for multi-item pages and
// "1 of 10" for single-item pages.
func (c *Carousel) Indicator() string {
	start, end := c.Visible()
	if c.pageSize == 1 {
		return fmt.Sprintf("%d of %d", c.position+1, c.itemCount)
	}
	return fmt.Sprintf("%d-%d of %d", start+1, end, c.itemCount)
}

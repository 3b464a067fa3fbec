// Package segment splits article text into sentence-bounded chunks and
// summaries into flashcard-sized groups of bullet points.
package segment

import (
	"regexp"
	"strings"

	"github.com/pep299/iqcraft/internal/textutil"
)

const (
	// MaxPairLength is the combined length above which two points are not
	// put on the same card.
	MaxPairLength = 500
	// MaxSingleLength is the length above which a point always gets its own card.
	MaxSingleLength = 300
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// ChunkSentences splits text into chunks of whole sentences whose length does
// not exceed maxLen. A sentence longer than maxLen becomes a chunk of its own.
// Text without any sentence terminator is returned as a single chunk.
func ChunkSentences(text string, maxLen int) []string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range sentences {
		n := textutil.Len(sentence)
		if currentLen+n > maxLen && currentLen > 0 {
			flush()
		}
		current.WriteString(sentence)
		currentLen += n
	}
	flush()

	return chunks
}

// ExtractBullets returns the text of every line starting with "*" or "-",
// with the marker stripped.
func ExtractBullets(summary string) []string {
	var points []string
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if !IsBullet(trimmed) {
			continue
		}
		if point := strings.TrimSpace(trimmed[1:]); point != "" {
			points = append(points, point)
		}
	}
	return points
}

// IsBullet reports whether an already trimmed line is a bullet point.
func IsBullet(trimmed string) bool {
	return strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "-")
}

// GroupPoints walks the points pairwise and groups them into cards of one or
// two points depending on their length.
func GroupPoints(points []string) [][]string {
	var groups [][]string

	i := 0
	for i < len(points) {
		current := points[i]
		currentLen := textutil.Len(current)

		hasNext := i+1 < len(points)
		nextLen := 0
		if hasNext {
			nextLen = textutil.Len(points[i+1])
		}

		switch {
		case hasNext && currentLen+nextLen > MaxPairLength:
			groups = append(groups, []string{current})
			i++
		case currentLen > MaxSingleLength:
			groups = append(groups, []string{current})
			i++
		case hasNext:
			groups = append(groups, []string{current, points[i+1]})
			i += 2
		default:
			groups = append(groups, []string{current})
			i++
		}
	}

	return groups
}

package segment

import (
	"strings"
	"testing"
)

func TestChunkSentences(t *testing.T) {
	text := "One two. Three four! Five six? Seven eight."

	chunks := ChunkSentences(text, 20)
	expected := []string{"One two. Three four!", "Five six?", "Seven eight."}

	if len(chunks) != len(expected) {
		t.Fatalf("Expected %d chunks, got %d: %q", len(expected), len(chunks), chunks)
	}
	for i := range expected {
		if chunks[i] != expected[i] {
			t.Errorf("Chunk %d: expected %q, got %q", i, expected[i], chunks[i])
		}
	}
}

func TestChunkSentencesPreservesSentenceOrder(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("This is a reasonably long sentence number ")
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(". ")
	}
	text := sb.String()

	chunks := ChunkSentences(text, 500)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if len(chunk) > 500 {
			t.Errorf("Chunk %d exceeds budget: %d", i, len(chunk))
		}
	}

	rejoined := strings.Join(chunks, " ")
	if strings.Join(strings.Fields(rejoined), " ") != strings.Join(strings.Fields(text), " ") {
		t.Error("Expected chunks to reproduce the original sentence sequence")
	}
}

func TestChunkSentencesOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 50) + "end."
	text := "Short one. " + long + " Short two."

	chunks := ChunkSentences(text, 40)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[1] != strings.TrimSpace(long) {
		t.Errorf("Expected the long sentence to be its own chunk, got %q", chunks[1])
	}
}

func TestChunkSentencesWithoutTerminators(t *testing.T) {
	text := "no terminators here at all"
	chunks := ChunkSentences(text, 5)
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("Expected the whole text as one chunk, got %q", chunks)
	}

	if chunks := ChunkSentences("", 10); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty text, got %q", chunks)
	}
}

func TestExtractBullets(t *testing.T) {
	summary := `Intro paragraph
* First point
  - Second point
-
Plain line
*   Third point  `

	points := ExtractBullets(summary)
	expected := []string{"First point", "Second point", "Third point"}

	if len(points) != len(expected) {
		t.Fatalf("Expected %d points, got %d: %q", len(expected), len(points), points)
	}
	for i := range expected {
		if points[i] != expected[i] {
			t.Errorf("Point %d: expected %q, got %q", i, expected[i], points[i])
		}
	}
}

func TestGroupPoints(t *testing.T) {
	long := strings.Repeat("a", 501)
	medium := strings.Repeat("m", 301)

	tests := []struct {
		name     string
		points   []string
		expected [][]string
	}{
		{
			name:     "two short points grouped",
			points:   []string{"cats are mammals", "dogs are mammals"},
			expected: [][]string{{"cats are mammals", "dogs are mammals"}},
		},
		{
			name:     "long point alone",
			points:   []string{long, "short"},
			expected: [][]string{{long}, {"short"}},
		},
		{
			name:     "single long last point alone",
			points:   []string{medium},
			expected: [][]string{{medium}},
		},
		{
			name:     "odd count",
			points:   []string{"a", "b", "c"},
			expected: [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:     "combined length over limit",
			points:   []string{strings.Repeat("x", 250), strings.Repeat("y", 251), "z"},
			expected: [][]string{{strings.Repeat("x", 250)}, {strings.Repeat("y", 251), "z"}},
		},
		{
			name:     "empty",
			points:   nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupPoints(tt.points)
			if len(groups) != len(tt.expected) {
				t.Fatalf("Expected %d groups, got %d", len(tt.expected), len(groups))
			}
			for i := range groups {
				if strings.Join(groups[i], "|") != strings.Join(tt.expected[i], "|") {
					t.Errorf("Group %d: expected %q, got %q", i, tt.expected[i], groups[i])
				}
			}
		})
	}
}

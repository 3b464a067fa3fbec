package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pep299/iqcraft/internal/textutil"
)

func paragraph(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestExtract(t *testing.T) {
	long := paragraph("content", 40)

	tests := []struct {
		name        string
		html        string
		expected    string
		notExpected []string
	}{
		{
			name:     "article element wins",
			html:     `<html><body><nav>Menu</nav><article><p>` + long + `</p></article><footer>Footer</footer></body></html>`,
			expected: long,
		},
		{
			name:        "later selector when earlier one is short",
			html:        `<html><body><article>tiny</article><div class="post-content">` + long + `</div></body></html>`,
			expected:    long,
			notExpected: []string{"tiny"},
		},
		{
			name:     "body fallback when every block is short",
			html:     `<html><body><main>short main</main><p>other text</p></body></html>`,
			expected: "short mainother text",
		},
		{
			name:        "scripts and styles removed",
			html:        `<html><head><style>body{color:red}</style></head><body><script>alert('x')</script><p>Visible</p></body></html>`,
			expected:    "Visible",
			notExpected: []string{"alert", "color:red"},
		},
		{
			name:     "whitespace normalized",
			html:     "<html><body><p>Multiple     spaces\t\tand</p>\n\n\n\n<p>lines</p></body></html>",
			expected: "Multiple spaces and\n\nlines",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text, err := Extract(strings.NewReader(test.html))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if text != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, text)
			}
			for _, s := range test.notExpected {
				if strings.Contains(text, s) {
					t.Errorf("Expected text not to contain %q", s)
				}
			}
		})
	}
}

func TestFetch(t *testing.T) {
	long := paragraph("word", 60)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected User-Agent header")
		}
		switch r.URL.Path {
		case "/article":
			fmt.Fprintf(w, `<html><body><article>%s</article></body></html>`, long)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 0)
	ctx := context.Background()

	text, err := fetcher.Fetch(ctx, server.URL+"/article")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != long {
		t.Errorf("Unexpected text: %q", text)
	}

	_, err = fetcher.Fetch(ctx, server.URL+"/missing")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("Expected ErrFetchFailure, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected FetchError with status 404, got %v", err)
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher(time.Second, 0).Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetchFailure) {
		t.Errorf("Expected ErrFetchFailure, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	long := paragraph("sentence", 30)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/short" {
			fmt.Fprint(w, `<html><body><p>Too short.</p></body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><article>%s</article></body></html>`, long)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 150)
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		if _, err := fetcher.Resolve(ctx, "   "); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("short text", func(t *testing.T) {
		if _, err := fetcher.Resolve(ctx, "just a few words"); !errors.Is(err, ErrTooShort) {
			t.Errorf("Expected ErrTooShort, got %v", err)
		}
	})

	t.Run("short page", func(t *testing.T) {
		if _, err := fetcher.Resolve(ctx, server.URL+"/short"); !errors.Is(err, ErrTooShort) {
			t.Errorf("Expected ErrTooShort, got %v", err)
		}
	})

	t.Run("url is fetched and truncated", func(t *testing.T) {
		text, err := fetcher.Resolve(ctx, server.URL+"/article")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if textutil.Len(text) > 150 {
			t.Errorf("Expected at most 150 characters, got %d", textutil.Len(text))
		}
		if !strings.HasPrefix(text, "sentence sentence") {
			t.Errorf("Unexpected text: %q", text)
		}
	})

	t.Run("plain text is not truncated", func(t *testing.T) {
		raw := paragraph("pasted", 60)
		text, err := fetcher.Resolve(ctx, raw)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if text != strings.TrimSpace(raw) {
			t.Errorf("Expected pasted text to be kept whole, got %d characters", textutil.Len(text))
		}
	})

	t.Run("plain text is normalized", func(t *testing.T) {
		raw := "Line one\r\n\r\n\r\n\r\n" + strings.Repeat("x", 120)
		text, err := fetcher.Resolve(ctx, raw)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if strings.Contains(text, "\r") || strings.Contains(text, "\n\n\n") {
			t.Errorf("Expected normalized text, got %q", text)
		}
	})
}

func TestResolveText(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, `<html><body><article>%s</article></body></html>`, paragraph("fetched", 40))
	}))
	defer server.Close()

	t.Run("url text is not fetched", func(t *testing.T) {
		_, err := ResolveText(server.URL + "/article")
		if !errors.Is(err, ErrTooShort) {
			t.Errorf("Expected ErrTooShort, got %v", err)
		}
		if requests != 0 {
			t.Errorf("Expected no request, got %d", requests)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ResolveText(" \r\n\t "); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("text", func(t *testing.T) {
		raw := "First paragraph.\r\n\r\n\r\n" + paragraph("second", 30)
		text, err := ResolveText(raw)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.HasPrefix(text, "First paragraph.\n\nsecond") {
			t.Errorf("Unexpected text: %q", text)
		}
	})
}

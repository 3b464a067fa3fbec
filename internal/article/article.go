// Package article downloads web pages and extracts their main readable text.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pep299/iqcraft/internal/textutil"
)

const (
	// MinSelectorLength is the text length at which a content selector wins.
	MinSelectorLength = 200
	// MinArticleLength is the shortest text worth summarizing.
	MinArticleLength = 100
	// DefaultMaxLength caps the article text handed to summarization.
	DefaultMaxLength = 100000

	userAgent    = "Mozilla/5.0 (compatible; IQ-Craft/1.0; +https://github.com/pep299/iqcraft)"
	maxBodyBytes = 10 << 20
)

// Selectors are tried in order when looking for the main content block.
var Selectors = []string{
	"article",
	`[role="main"]`,
	".article-content",
	".post-content",
	".entry-content",
	".content",
	"main",
	"#content",
}

var (
	ErrFetchFailure = errors.New("unable to fetch article")
	ErrTooShort     = errors.New("article text too short or could not be extracted, try pasting the article text directly")
	ErrEmptyInput   = errors.New("please paste an article URL or text")
)

// FetchError describes a failed download. It matches ErrFetchFailure.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailure }

// Fetcher downloads articles over HTTP.
type Fetcher struct {
	httpClient *http.Client
	maxLength  int
}

// NewFetcher creates a fetcher with the given request timeout and maximum
// article length in characters. A non-positive maxLength selects DefaultMaxLength.
func NewFetcher(timeout time.Duration, maxLength int) *Fetcher {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxLength:  maxLength,
	}
}

// Fetch downloads url and returns its normalized main text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	text, err := Extract(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return text, nil
}

// Extract parses an HTML document and returns the normalized text of the
// first content block longer than MinSelectorLength, or of the whole body.
func Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	var text string
	for _, selector := range Selectors {
		selection := doc.Find(selector).First()
		if selection.Length() == 0 {
			continue
		}
		text = selection.Text()
		if textutil.Len(text) > MinSelectorLength {
			break
		}
	}

	if textutil.Len(text) < MinSelectorLength {
		text = doc.Find("body").Text()
	}

	return textutil.Normalize(text), nil
}

// Resolve turns raw user input into article text. URLs are fetched and the
// page text is capped at maxLength characters; anything else is handled by
// ResolveText.
func (f *Fetcher) Resolve(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !textutil.IsURL(raw) {
		return ResolveText(raw)
	}

	fetched, err := f.Fetch(ctx, raw)
	if err != nil {
		return "", err
	}
	text := textutil.Normalize(fetched)

	if n := textutil.Len(text); n > f.maxLength {
		log.Printf("Article too long chars=%d, using first %d", n, f.maxLength)
		text = textutil.Normalize(textutil.Truncate(text, f.maxLength))
	}
	return checkLength(text)
}

// ResolveText normalizes pasted or uploaded text. It never fetches, even
// when the text is a URL.
func ResolveText(raw string) (string, error) {
	text := textutil.Normalize(raw)
	if text == "" {
		return "", ErrEmptyInput
	}
	return checkLength(text)
}

func checkLength(text string) (string, error) {
	if n := textutil.Len(text); n < MinArticleLength {
		return "", fmt.Errorf("%w: received %d characters, minimum %d", ErrTooShort, n, MinArticleLength)
	}
	return text, nil
}

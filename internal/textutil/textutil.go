// Package textutil holds the text cleanup helpers shared by every input path
// (pasted text, uploaded files and fetched articles).
package textutil

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F\x7F]`)
	spaceRunRe     = regexp.MustCompile(` +`)
	newlineRunRe   = regexp.MustCompile(`\n{3,}`)
)

// ErrFileTypeRejected is returned for uploads that are not plain .txt files.
var ErrFileTypeRejected = errors.New("please upload a .txt file")

// Normalize removes control characters and normalizes whitespace.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = controlCharsRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// IsURL reports whether input is an absolute http or https URL.
func IsURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// CheckFileName rejects anything that is not a .txt file.
func CheckFileName(name string) error {
	if !strings.HasSuffix(name, ".txt") {
		return fmt.Errorf("%s: %w", name, ErrFileTypeRejected)
	}
	return nil
}

// ReadTextFile validates the file name, reads the whole content and
// normalizes it.
func ReadTextFile(name string, r io.Reader) (string, error) {
	if err := CheckFileName(name); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return Normalize(string(data)), nil
}

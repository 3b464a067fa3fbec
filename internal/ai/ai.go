// Package ai defines the summarization and language-model capabilities the
// study flow depends on.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Availability reports whether a capability can be used.
type Availability string

const (
	Unavailable   Availability = "unavailable"
	AfterDownload Availability = "after-download"
	Downloading   Availability = "downloading"
	Available     Availability = "available"
)

// Usable reports whether a session can be created, possibly after a model download.
func (a Availability) Usable() bool {
	return a == Available || a == AfterDownload || a == Downloading
}

// Capability names used in errors and logs.
const (
	SummarizerName    = "summarizer"
	LanguageModelName = "language model"
)

// ErrCapabilityUnavailable is returned when a capability cannot be used.
var ErrCapabilityUnavailable = errors.New("AI capability unavailable")

// CapabilityError names the capability and the state it reported.
type CapabilityError struct {
	Capability string
	State      Availability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s status: %q", e.Capability, e.State)
}

func (e *CapabilityError) Unwrap() error {
	return ErrCapabilityUnavailable
}

// SummarizerOptions configure a summarizer session.
type SummarizerOptions struct {
	SharedContext string
	Type          string
	Format        string
	Length        string
}

// SummarizerSession summarizes text. Destroy must be called once the session is done.
type SummarizerSession interface {
	Summarize(ctx context.Context, text, hint string) (string, error)
	Destroy()
}

// SummarizerCapability creates summarizer sessions.
type SummarizerCapability interface {
	Availability(ctx context.Context) (Availability, error)
	Create(ctx context.Context, opts SummarizerOptions) (SummarizerSession, error)
}

// LanguageModelSession answers free-form prompts.
type LanguageModelSession interface {
	Prompt(ctx context.Context, prompt string) (string, error)
	Destroy()
}

// LanguageModelCapability creates language-model sessions.
type LanguageModelCapability interface {
	Availability(ctx context.Context) (Availability, error)
	Create(ctx context.Context) (LanguageModelSession, error)
}

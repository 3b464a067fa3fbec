// Package aitest provides in-memory fakes of the AI capabilities.
package aitest

import (
	"context"
	"sync"

	"github.com/pep299/iqcraft/internal/ai"
)

// SummarizeCall records one Summarize invocation.
type SummarizeCall struct {
	Text    string
	Context string
}

// Summarizer is a fake ai.SummarizerCapability.
type Summarizer struct {
	State     ai.Availability
	CreateErr error
	// SummarizeFunc computes the summary; nil echoes a bullet per call.
	SummarizeFunc func(text, hint string) (string, error)

	mu        sync.Mutex
	Options   []ai.SummarizerOptions
	Calls     []SummarizeCall
	Created   int
	Destroyed int
}

// NewSummarizer returns an available summarizer answering with fn.
func NewSummarizer(fn func(text, hint string) (string, error)) *Summarizer {
	return &Summarizer{State: ai.Available, SummarizeFunc: fn}
}

func (s *Summarizer) Availability(ctx context.Context) (ai.Availability, error) {
	return s.State, nil
}

func (s *Summarizer) Create(ctx context.Context, opts ai.SummarizerOptions) (ai.SummarizerSession, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created++
	s.Options = append(s.Options, opts)
	return &summarizerSession{parent: s}, nil
}

// CallCount returns the number of Summarize calls.
func (s *Summarizer) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

type summarizerSession struct {
	parent *Summarizer
}

func (ss *summarizerSession) Summarize(ctx context.Context, text, hint string) (string, error) {
	s := ss.parent
	s.mu.Lock()
	s.Calls = append(s.Calls, SummarizeCall{Text: text, Context: hint})
	s.mu.Unlock()

	if s.SummarizeFunc == nil {
		return "* summary point", nil
	}
	return s.SummarizeFunc(text, hint)
}

func (ss *summarizerSession) Destroy() {
	ss.parent.mu.Lock()
	ss.parent.Destroyed++
	ss.parent.mu.Unlock()
}

// LanguageModel is a fake ai.LanguageModelCapability.
type LanguageModel struct {
	State     ai.Availability
	CreateErr error
	// PromptFunc answers prompts; nil returns Response.
	PromptFunc func(prompt string) (string, error)
	Response   string

	mu        sync.Mutex
	Prompts   []string
	Created   int
	Destroyed int
}

// NewLanguageModel returns an available language model answering with response.
func NewLanguageModel(response string) *LanguageModel {
	return &LanguageModel{State: ai.Available, Response: response}
}

func (l *LanguageModel) Availability(ctx context.Context) (ai.Availability, error) {
	return l.State, nil
}

func (l *LanguageModel) Create(ctx context.Context) (ai.LanguageModelSession, error) {
	if l.CreateErr != nil {
		return nil, l.CreateErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Created++
	return &languageModelSession{parent: l}, nil
}

type languageModelSession struct {
	parent *LanguageModel
}

func (ls *languageModelSession) Prompt(ctx context.Context, prompt string) (string, error) {
	l := ls.parent
	l.mu.Lock()
	l.Prompts = append(l.Prompts, prompt)
	l.mu.Unlock()

	if l.PromptFunc != nil {
		return l.PromptFunc(prompt)
	}
	return l.Response, nil
}

func (ls *languageModelSession) Destroy() {
	ls.parent.mu.Lock()
	ls.parent.Destroyed++
	ls.parent.mu.Unlock()
}

// Package study turns article text into a titled summary and a quiz using
// the injected AI capabilities.
package study

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pep299/iqcraft/internal/ai"
	"github.com/pep299/iqcraft/internal/cache"
	"github.com/pep299/iqcraft/internal/quiz"
	"github.com/pep299/iqcraft/internal/segment"
	"github.com/pep299/iqcraft/internal/textutil"
)

const (
	// MaxChunkLength is the largest text handed to a single summarize call.
	MaxChunkLength = 12000
	// TitleInputLength bounds the summary prefix used for the title prompt.
	TitleInputLength = 3000
)

const (
	sharedContext = "This is an article or document, summarize it including all essential points in"
	directContext = "This is an article or document, summarize it in a very detailed bullet points and include all essential topics"
	reduceContext = "Combine these key points into a cohesive detailed overview."
	titlePrompt   = "In **one line**, provide **only one title** of **no more than 8 words** for this text: "
)

// SummarizerOptions are the options every summarizer session is created with.
var SummarizerOptions = ai.SummarizerOptions{
	SharedContext: sharedContext,
	Type:          "key-points",
	Format:        "markdown",
	Length:        "long",
}

// StatusFunc receives human-readable progress messages.
type StatusFunc func(message string)

// Result is a titled summary.
type Result struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Chunks  int    `json:"chunks"`
	Cached  bool   `json:"cached"`
}

// Quiz is a generated quiz. Fallback is set when the model answer could not be used.
type Quiz struct {
	Questions []quiz.Question `json:"questions"`
	Fallback  bool            `json:"fallback"`
}

// Orchestrator drives summarization, titling and quiz generation.
type Orchestrator struct {
	summarizer ai.SummarizerCapability
	model      ai.LanguageModelCapability
	cache      *cache.Manager
	status     StatusFunc
}

// New creates an orchestrator over the given capabilities.
func New(summarizer ai.SummarizerCapability, model ai.LanguageModelCapability) *Orchestrator {
	return &Orchestrator{summarizer: summarizer, model: model}
}

// WithCache returns a copy that consults m before summarizing.
func (o *Orchestrator) WithCache(m *cache.Manager) *Orchestrator {
	c := *o
	c.cache = m
	return &c
}

// WithStatus returns a copy that reports progress to fn.
func (o *Orchestrator) WithStatus(fn StatusFunc) *Orchestrator {
	c := *o
	c.status = fn
	return &c
}

func (o *Orchestrator) report(message string) {
	if o.status != nil {
		o.status(message)
	}
}

// Summarize produces a markdown key-point summary of text and a short title for it.
func (o *Orchestrator) Summarize(ctx context.Context, text string) (Result, error) {
	start := time.Now()

	availability, err := o.summarizer.Availability(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("checking summarizer availability: %w", err)
	}
	switch availability {
	case ai.Unavailable:
		return Result{}, &ai.CapabilityError{Capability: ai.SummarizerName, State: availability}
	case ai.AfterDownload, ai.Downloading:
		o.report("Preparing AI model… (first time only)")
	}

	if entry, err := o.cache.GetSummary(ctx, text); err == nil {
		log.Printf("✅ Summary cache hit key=%s", entry.Key)
		o.report("Summarization Done [✔]")
		return Result{Title: entry.Title, Summary: entry.Summary, Cached: true}, nil
	}

	summary, chunks, err := o.summarize(ctx, text)
	if err != nil {
		return Result{}, err
	}

	o.report("Generating title… Ⓣ")
	title, err := o.title(ctx, summary)
	if err != nil {
		return Result{}, err
	}

	if err := o.cache.SetSummary(ctx, text, title, summary); err != nil {
		log.Printf("❌ Failed to cache summary: %v", err)
	}

	log.Printf("✅ Summarized article chars=%d summary_chars=%d chunks=%d duration_ms=%d",
		textutil.Len(text), textutil.Len(summary), chunks, time.Since(start).Milliseconds())
	o.report("Summarization Done [✔]")

	return Result{Title: title, Summary: summary, Chunks: chunks}, nil
}

// summarize runs the direct or chunked path within a single summarizer session.
func (o *Orchestrator) summarize(ctx context.Context, text string) (string, int, error) {
	session, err := o.summarizer.Create(ctx, SummarizerOptions)
	if err != nil {
		return "", 0, fmt.Errorf("creating summarizer session: %w", err)
	}
	defer session.Destroy()

	if textutil.Len(text) <= MaxChunkLength {
		o.report("Summarizing at once… ✦")
		summary, err := session.Summarize(ctx, text, directContext)
		if err != nil {
			return "", 1, fmt.Errorf("summarizing article: %w", err)
		}
		return summary, 1, nil
	}

	o.report("Processing large article in chunks…")
	chunks := segment.ChunkSentences(text, MaxChunkLength)

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", len(chunks), err
		}
		o.report(fmt.Sprintf("Summarizing part %d of %d… ⮔", i+1, len(chunks)))
		hint := fmt.Sprintf("This is part %d of %d of a longer article. Extract all key points.", i+1, len(chunks))
		partial, err := session.Summarize(ctx, chunk, hint)
		if err != nil {
			return "", len(chunks), fmt.Errorf("summarizing part %d of %d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	combined := strings.Join(partials, "\n\n")
	if textutil.Len(combined) <= MaxChunkLength {
		return combined, len(chunks), nil
	}

	if err := ctx.Err(); err != nil {
		return "", len(chunks), err
	}
	o.report("Creating final summary… ✦")
	final, err := session.Summarize(ctx, combined, reduceContext)
	if err != nil {
		return "", len(chunks), fmt.Errorf("combining summaries: %w", err)
	}
	return final, len(chunks), nil
}

func (o *Orchestrator) languageSession(ctx context.Context) (ai.LanguageModelSession, error) {
	availability, err := o.model.Availability(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking language model availability: %w", err)
	}
	if availability != ai.Available {
		return nil, &ai.CapabilityError{Capability: ai.LanguageModelName, State: availability}
	}

	session, err := o.model.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating language model session: %w", err)
	}
	return session, nil
}

func (o *Orchestrator) title(ctx context.Context, summary string) (string, error) {
	session, err := o.languageSession(ctx)
	if err != nil {
		return "", err
	}
	defer session.Destroy()

	raw, err := session.Prompt(ctx, titlePrompt+textutil.Truncate(summary, TitleInputLength))
	if err != nil {
		return "", fmt.Errorf("generating title: %w", err)
	}
	return CleanTitle(raw), nil
}

// CleanTitle strips markdown heading, emphasis and list markers from a model title.
func CleanTitle(raw string) string {
	return strings.TrimSpace(titleMarkers.Replace(strings.TrimSpace(raw)))
}

var titleMarkers = strings.NewReplacer("#", "", "*", "", "-", "")

// GenerateQuiz asks the language model for a 10-question quiz about summary.
// A response that cannot be parsed is replaced by quiz.Fallback; only
// capability and session errors are returned.
func (o *Orchestrator) GenerateQuiz(ctx context.Context, summary string) (Quiz, error) {
	o.report("Checking AI availability… 🔍")
	o.report("Creating AI session… ✦")
	session, err := o.languageSession(ctx)
	if err != nil {
		o.report("Error Occurred ⛌")
		return Quiz{}, err
	}

	o.report("Creating quiz questions… ⍰")
	o.report("Generating quiz question with AI… ✎")
	raw, err := session.Prompt(ctx, QuizPrompt(summary))
	session.Destroy()
	if err != nil {
		return Quiz{}, fmt.Errorf("generating quiz: %w", err)
	}

	o.report("Processing and rendering quiz data… ⮔")
	questions, err := quiz.ParseResponse(raw)
	if err != nil {
		log.Printf("❌ Failed to parse quiz response, using fallback: %v", err)
		o.report("Using fallback quiz generation… ⟳")
		o.report("Quiz ready! [✔]")
		return Quiz{Questions: quiz.Fallback(summary), Fallback: true}, nil
	}

	for _, problem := range quiz.Validate(questions) {
		log.Printf("⚠️ Quiz question flagged: %v", problem)
	}

	o.report("Quiz ready! [✔]")
	return Quiz{Questions: questions}, nil
}

// QuizPrompt builds the quiz generation prompt for summary.
func QuizPrompt(summary string) string {
	return `Based on this summary, create exactly 10 multiple-choice quiz questions to test understanding of this topic of students.
    Summary: ` + summary + `
    Return ONLY a valid JSON array with exactly 10 questions in this format:
    [
      {
        "question": "What is the main topic?",
        "options": ["Option A", "Option B", "Option C", "Option D"],
        "correct_answer": "Option A"
      }
    ]
    Requirements:
    - Exactly 10 questions
    - Each question must have exactly 4 options
    - Questions should test key concepts from the summary
    - Options should be plausible but only one correct
    - Make sure the correct_answer is exactly same as the correct options in options list
    - Return ONLY the JSON array code, no additional text`
}

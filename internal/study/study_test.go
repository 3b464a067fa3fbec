package study

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pep299/iqcraft/internal/ai"
	"github.com/pep299/iqcraft/internal/ai/aitest"
	"github.com/pep299/iqcraft/internal/cache"
	"github.com/pep299/iqcraft/internal/quiz"
)

func TestSummarizeDirect(t *testing.T) {
	summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) {
		return "* first point\n* second point", nil
	})
	model := aitest.NewLanguageModel("## **Great Title**\n")

	var statuses []string
	o := New(summarizer, model).WithStatus(func(m string) { statuses = append(statuses, m) })

	result, err := o.Summarize(context.Background(), "A short article. It has two sentences.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Title != "Great Title" {
		t.Errorf("Expected title 'Great Title', got '%s'", result.Title)
	}
	if result.Summary != "* first point\n* second point" {
		t.Errorf("Unexpected summary: %q", result.Summary)
	}
	if result.Chunks != 1 {
		t.Errorf("Expected 1 chunk, got %d", result.Chunks)
	}

	if len(summarizer.Calls) != 1 || summarizer.Calls[0].Context != directContext {
		t.Errorf("Expected one direct summarize call, got %+v", summarizer.Calls)
	}
	if !reflect.DeepEqual(summarizer.Options, []ai.SummarizerOptions{SummarizerOptions}) {
		t.Errorf("Unexpected summarizer options: %+v", summarizer.Options)
	}
	if summarizer.Destroyed != 1 || model.Destroyed != 1 {
		t.Errorf("Expected both sessions destroyed, got %d/%d", summarizer.Destroyed, model.Destroyed)
	}
	if len(model.Prompts) != 1 || !strings.HasPrefix(model.Prompts[0], titlePrompt) {
		t.Errorf("Unexpected title prompt: %v", model.Prompts)
	}
	if len(statuses) == 0 || statuses[len(statuses)-1] != "Summarization Done [✔]" {
		t.Errorf("Expected final status 'Summarization Done [✔]', got %v", statuses)
	}
}

func longArticle(sentences, sentenceLength int) string {
	return strings.Repeat(strings.Repeat("a", sentenceLength-1)+". ", sentences)
}

func TestSummarizeInChunks(t *testing.T) {
	summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) {
		return "* partial", nil
	})
	model := aitest.NewLanguageModel("Chunked")

	result, err := New(summarizer, model).Summarize(context.Background(), longArticle(3, 5000))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Chunks != 2 {
		t.Fatalf("Expected 2 chunks, got %d", result.Chunks)
	}
	if result.Summary != "* partial\n\n* partial" {
		t.Errorf("Unexpected combined summary: %q", result.Summary)
	}

	expected := []string{
		"This is part 1 of 2 of a longer article. Extract all key points.",
		"This is part 2 of 2 of a longer article. Extract all key points.",
	}
	for i, call := range summarizer.Calls {
		if call.Context != expected[i] {
			t.Errorf("Call %d: expected context %q, got %q", i, expected[i], call.Context)
		}
	}
	if summarizer.Created != 1 || summarizer.Destroyed != 1 {
		t.Errorf("Expected a single summarizer session, got created=%d destroyed=%d", summarizer.Created, summarizer.Destroyed)
	}
}

func TestSummarizeReducesLongCombination(t *testing.T) {
	summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) {
		if hint == reduceContext {
			return "* final overview", nil
		}
		return strings.Repeat("b", 7000), nil
	})
	model := aitest.NewLanguageModel("Reduced")

	result, err := New(summarizer, model).Summarize(context.Background(), longArticle(3, 5000))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Summary != "* final overview" {
		t.Errorf("Expected reduced summary, got %q", result.Summary)
	}
	if len(summarizer.Calls) != 3 {
		t.Fatalf("Expected 2 chunk calls and 1 reduction, got %d", len(summarizer.Calls))
	}
	if summarizer.Calls[2].Context != reduceContext {
		t.Errorf("Expected last call to be the reduction, got %q", summarizer.Calls[2].Context)
	}
}

func TestSummarizeUnavailable(t *testing.T) {
	summarizer := aitest.NewSummarizer(nil)
	summarizer.State = ai.Unavailable

	_, err := New(summarizer, aitest.NewLanguageModel("x")).Summarize(context.Background(), "text")
	if !errors.Is(err, ai.ErrCapabilityUnavailable) {
		t.Fatalf("Expected ErrCapabilityUnavailable, got %v", err)
	}

	var capErr *ai.CapabilityError
	if !errors.As(err, &capErr) || capErr.Capability != ai.SummarizerName {
		t.Errorf("Expected summarizer CapabilityError, got %v", err)
	}
	if summarizer.Created != 0 {
		t.Error("Expected no session to be created")
	}
}

func TestSummarizeAfterDownload(t *testing.T) {
	summarizer := aitest.NewSummarizer(nil)
	summarizer.State = ai.AfterDownload

	var statuses []string
	o := New(summarizer, aitest.NewLanguageModel("Title")).WithStatus(func(m string) { statuses = append(statuses, m) })

	if _, err := o.Summarize(context.Background(), "text"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if statuses[0] != "Preparing AI model… (first time only)" {
		t.Errorf("Expected preparing status first, got %v", statuses)
	}
}

func TestSummarizeReleasesSessionsOnError(t *testing.T) {
	t.Run("summarize failure", func(t *testing.T) {
		summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) {
			return "", errors.New("model crashed")
		})

		_, err := New(summarizer, aitest.NewLanguageModel("x")).Summarize(context.Background(), "text")
		if err == nil {
			t.Fatal("Expected error")
		}
		if summarizer.Destroyed != 1 {
			t.Errorf("Expected session destroyed, got %d", summarizer.Destroyed)
		}
	})

	t.Run("title model not ready", func(t *testing.T) {
		summarizer := aitest.NewSummarizer(nil)
		model := aitest.NewLanguageModel("x")
		model.State = ai.AfterDownload

		_, err := New(summarizer, model).Summarize(context.Background(), "text")
		if !errors.Is(err, ai.ErrCapabilityUnavailable) {
			t.Fatalf("Expected ErrCapabilityUnavailable, got %v", err)
		}
		if summarizer.Destroyed != 1 {
			t.Errorf("Expected summarizer destroyed, got %d", summarizer.Destroyed)
		}
		if model.Created != 0 {
			t.Error("Expected no language model session")
		}
	})

	t.Run("title prompt failure", func(t *testing.T) {
		summarizer := aitest.NewSummarizer(nil)
		model := aitest.NewLanguageModel("")
		model.PromptFunc = func(string) (string, error) { return "", errors.New("prompt failed") }

		if _, err := New(summarizer, model).Summarize(context.Background(), "text"); err == nil {
			t.Fatal("Expected error")
		}
		if model.Destroyed != 1 {
			t.Errorf("Expected language model session destroyed, got %d", model.Destroyed)
		}
	})
}

func TestSummarizeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) {
		cancel()
		return "* partial", nil
	})

	_, err := New(summarizer, aitest.NewLanguageModel("x")).Summarize(ctx, longArticle(3, 5000))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if summarizer.CallCount() != 1 {
		t.Errorf("Expected summarization to stop after the first chunk, got %d calls", summarizer.CallCount())
	}
	if summarizer.Destroyed != 1 {
		t.Error("Expected session destroyed after cancellation")
	}
}

func TestSummarizeUsesCache(t *testing.T) {
	manager, _ := cache.NewManager("memory", time.Hour)
	summarizer := aitest.NewSummarizer(nil)
	model := aitest.NewLanguageModel("Cached Title")
	o := New(summarizer, model).WithCache(manager)
	ctx := context.Background()

	first, err := o.Summarize(ctx, "same article")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := o.Summarize(ctx, "same article")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Errorf("Expected only the second result to be cached, got %v/%v", first.Cached, second.Cached)
	}
	if second.Title != "Cached Title" || second.Summary != first.Summary {
		t.Errorf("Unexpected cached result: %+v", second)
	}
	if summarizer.CallCount() != 1 {
		t.Errorf("Expected one summarize call, got %d", summarizer.CallCount())
	}
}

func TestTitlePromptTruncatesSummary(t *testing.T) {
	summary := strings.Repeat("é", 5000)
	summarizer := aitest.NewSummarizer(func(text, hint string) (string, error) { return summary, nil })
	model := aitest.NewLanguageModel("Title")

	if _, err := New(summarizer, model).Summarize(context.Background(), "text"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := titlePrompt + strings.Repeat("é", TitleInputLength)
	if model.Prompts[0] != expected {
		t.Errorf("Expected title prompt to carry %d characters of summary", TitleInputLength)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Plain Title", "Plain Title"},
		{"  # Heading Title  \n", "Heading Title"},
		{"**Bold Title**", "Bold Title"},
		{"- Listed Title", "Listed Title"},
		{"Well-Known Facts", "WellKnown Facts"},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			if got := CleanTitle(test.raw); got != test.expected {
				t.Errorf("Expected '%s', got '%s'", test.expected, got)
			}
		})
	}
}

func TestGenerateQuiz(t *testing.T) {
	questions := quiz.Fallback("* one\n* two")
	body, _ := json.Marshal(questions)
	model := aitest.NewLanguageModel("Here is your quiz:\n```json\n" + string(body) + "\n```")

	result, err := New(aitest.NewSummarizer(nil), model).GenerateQuiz(context.Background(), "* summary")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Fallback {
		t.Error("Expected model questions, got fallback")
	}
	if !reflect.DeepEqual(result.Questions, questions) {
		t.Errorf("Unexpected questions: %+v", result.Questions)
	}
	if model.Destroyed != 1 {
		t.Errorf("Expected session destroyed, got %d", model.Destroyed)
	}
	if !strings.Contains(model.Prompts[0], "Summary: * summary") {
		t.Error("Expected summary embedded in quiz prompt")
	}
}

func TestGenerateQuizFallback(t *testing.T) {
	tests := map[string]string{
		"no json":      "I cannot help with that.",
		"invalid json": "[{broken",
		"wrong count":  `[{"question":"q","options":["a","b","c","d"],"correct_answer":"a"}]`,
	}

	for name, response := range tests {
		t.Run(name, func(t *testing.T) {
			summary := "* point one\n* point two"
			model := aitest.NewLanguageModel(response)

			result, err := New(aitest.NewSummarizer(nil), model).GenerateQuiz(context.Background(), summary)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !result.Fallback {
				t.Error("Expected fallback quiz")
			}
			if !reflect.DeepEqual(result.Questions, quiz.Fallback(summary)) {
				t.Error("Expected questions from quiz.Fallback")
			}
		})
	}
}

func TestGenerateQuizErrors(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		model := aitest.NewLanguageModel("")
		model.State = ai.Unavailable

		_, err := New(aitest.NewSummarizer(nil), model).GenerateQuiz(context.Background(), "* s")
		if !errors.Is(err, ai.ErrCapabilityUnavailable) {
			t.Errorf("Expected ErrCapabilityUnavailable, got %v", err)
		}
	})

	t.Run("prompt failure", func(t *testing.T) {
		model := aitest.NewLanguageModel("")
		model.PromptFunc = func(string) (string, error) { return "", errors.New("boom") }

		_, err := New(aitest.NewSummarizer(nil), model).GenerateQuiz(context.Background(), "* s")
		if err == nil {
			t.Fatal("Expected error")
		}
		if model.Destroyed != 1 {
			t.Errorf("Expected session destroyed, got %d", model.Destroyed)
		}
	})
}

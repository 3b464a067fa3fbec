// Package quiz holds the multiple-choice quiz model: parsing generated
// questions, the deterministic fallback quiz and scoring.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pep299/iqcraft/internal/segment"
	"github.com/pep299/iqcraft/internal/textutil"
)

const (
	// Size is the number of questions in every quiz.
	Size = 10
	// OptionCount is the number of options of every question.
	OptionCount = 4

	fallbackAnswerLength = 50
)

// ErrParse is returned when a generated quiz cannot be used as is.
var ErrParse = errors.New("invalid quiz response")

// Question is a single multiple-choice question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ParseResponse extracts the JSON array of questions from a raw model
// response. The array must hold exactly Size questions.
func ParseResponse(raw string) ([]Question, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: could not find JSON in response", ErrParse)
	}

	var questions []Question
	if err := json.Unmarshal([]byte(raw[start:end+1]), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(questions) != Size {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrParse, Size, len(questions))
	}

	return questions, nil
}

// Validate reports questions that break the quiz contract: wrong option
// count, or a correct answer that is not one of the options.
func Validate(questions []Question) []error {
	var problems []error
	for i, q := range questions {
		if len(q.Options) != OptionCount {
			problems = append(problems, fmt.Errorf("question %d: expected %d options, got %d", i+1, OptionCount, len(q.Options)))
		}
		if !containsExact(q.Options, q.CorrectAnswer) {
			problems = append(problems, fmt.Errorf("question %d: correct answer %q is not an option", i+1, q.CorrectAnswer))
		}
	}
	return problems
}

// Fallback builds a quiz from the summary's bullet points without any model.
// Each of the first Size bullets becomes a question whose answer is the start
// of the bullet text; the quiz is padded with placeholder questions.
func Fallback(summary string) []Question {
	questions := make([]Question, 0, Size)

	for _, line := range strings.Split(summary, "\n") {
		if len(questions) == Size {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !segment.IsBullet(trimmed) {
			continue
		}

		point := strings.TrimSpace(trimmed[1:])
		answer := textutil.Truncate(point, fallbackAnswerLength) + "..."
		questions = append(questions, Question{
			Question: "Which statement is true about the topic?",
			Options: []string{
				answer,
				"This is incorrect option A",
				"This is incorrect option B",
				"This is incorrect option C",
			},
			CorrectAnswer: answer,
		})
	}

	for len(questions) < Size {
		questions = append(questions, Question{
			Question:      fmt.Sprintf("Question %d about the topic?", len(questions)+1),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: "Option A",
		})
	}

	return questions
}

func containsExact(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

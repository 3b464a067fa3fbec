package carousel

import (
	"errors"
	"testing"

	"github.com/pep299/iqcraft/internal/quiz"
)

func TestQuizNavigation(t *testing.T) {
	q := NewQuiz(quiz.Fallback(""))

	if q.MaxPosition() != 9 {
		t.Errorf("Expected max position 9, got %d", q.MaxPosition())
	}
	if q.Indicator() != "1 of 10" {
		t.Errorf("Expected '1 of 10', got '%s'", q.Indicator())
	}

	for q.Next() {
	}
	if q.Position() != 9 || q.Indicator() != "10 of 10" {
		t.Errorf("Expected last question, got position %d (%s)", q.Position(), q.Indicator())
	}
	if q.Current().Question != "Question 10 about the topic?" {
		t.Errorf("Unexpected current question: %q", q.Current().Question)
	}
}

func TestQuizSelectOverwritesOnlyThatQuestion(t *testing.T) {
	q := NewQuiz(quiz.Fallback(""))

	if err := q.Select(0, "Option B"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := q.Select(1, "Option C"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := q.Select(0, "Option A"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a, _ := q.Answer(0); a != "Option A" {
		t.Errorf("Expected overwritten answer 'Option A', got '%s'", a)
	}
	if a, _ := q.Answer(1); a != "Option C" {
		t.Errorf("Expected untouched answer 'Option C', got '%s'", a)
	}
	if _, ok := q.Answer(2); ok {
		t.Error("Expected question 3 to be unanswered")
	}

	if err := q.Select(10, "Option A"); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("Expected ErrNoSuchQuestion, got %v", err)
	}
	if err := q.Select(2, "Option Z"); !errors.Is(err, ErrNoSuchOption) {
		t.Errorf("Expected ErrNoSuchOption, got %v", err)
	}
}

func TestQuizSubmitConfirmation(t *testing.T) {
	q := NewQuiz(quiz.Fallback(""))
	q.Select(0, "Option A")

	if _, err := q.Confirm(); !errors.Is(err, ErrNotConfirming) {
		t.Errorf("Expected ErrNotConfirming before RequestSubmit, got %v", err)
	}

	q.RequestSubmit()
	if !q.Confirming() {
		t.Fatal("Expected confirmation to be pending")
	}
	if err := q.Cancel(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.Confirming() {
		t.Error("Expected cancel to close the confirmation")
	}
	if _, ok := q.Result(); ok {
		t.Error("Expected no result after cancel")
	}
	if a, _ := q.Answer(0); a != "Option A" {
		t.Error("Expected cancel to leave answers unchanged")
	}

	q.RequestSubmit()
	result, err := q.Confirm()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("Expected score 1, got %d", result.Score)
	}
	if stored, ok := q.Result(); !ok || stored.Score != 1 {
		t.Error("Expected result to be stored")
	}
	if err := q.Select(1, "Option A"); !errors.Is(err, ErrSubmitted) {
		t.Errorf("Expected ErrSubmitted after scoring, got %v", err)
	}
}

package carousel

import (
	"errors"

	"github.com/pep299/iqcraft/internal/quiz"
)

var (
	// ErrNoSuchQuestion is returned for answers outside the quiz.
	ErrNoSuchQuestion = errors.New("no such question")
	// ErrNoSuchOption is returned when the selected text is not an option.
	ErrNoSuchOption = errors.New("not an option of this question")
	// ErrNotConfirming is returned by Confirm and Cancel without a pending submit.
	ErrNotConfirming = errors.New("no submission awaiting confirmation")
	// ErrSubmitted is returned when answering a quiz that was already scored.
	ErrSubmitted = errors.New("quiz already submitted")
)

// Quiz is the single-question carousel with answer tracking and a
// confirmation step before scoring.
type Quiz struct {
	*Carousel

	questions  []quiz.Question
	answers    [quiz.Size]string
	confirming bool
	result     *quiz.Result
}

// NewQuiz creates a quiz carousel over exactly quiz.Size slots.
func NewQuiz(questions []quiz.Question) *Quiz {
	return &Quiz{
		Carousel:  New(quiz.Size, QuizPageSize),
		questions: questions,
	}
}

// Questions returns the quiz questions.
func (q *Quiz) Questions() []quiz.Question { return q.questions }

// Current returns the question at the current position.
func (q *Quiz) Current() quiz.Question {
	if q.position < len(q.questions) {
		return q.questions[q.position]
	}
	return quiz.Question{}
}

// Select records option as the answer of question i, replacing any previous
// answer of that question only.
func (q *Quiz) Select(i int, option string) error {
	if q.result != nil {
		return ErrSubmitted
	}
	if i < 0 || i >= quiz.Size || i >= len(q.questions) {
		return ErrNoSuchQuestion
	}
	found := false
	for _, o := range q.questions[i].Options {
		if o == option {
			found = true
			break
		}
	}
	if !found {
		return ErrNoSuchOption
	}
	q.answers[i] = option
	return nil
}

// Answer returns the selected option of question i and whether one is set.
func (q *Quiz) Answer(i int) (string, bool) {
	if i < 0 || i >= quiz.Size {
		return "", false
	}
	return q.answers[i], q.answers[i] != ""
}

// Answers returns the selected options keyed by question index.
func (q *Quiz) Answers() quiz.Answers {
	answers := quiz.Answers{}
	for i, a := range q.answers {
		if a != "" {
			answers[i] = a
		}
	}
	return answers
}

// AnsweredCount returns the number of answered questions.
func (q *Quiz) AnsweredCount() int {
	return len(q.Answers())
}

// RequestSubmit opens the confirmation step.
func (q *Quiz) RequestSubmit() error {
	if q.result != nil {
		return ErrSubmitted
	}
	q.confirming = true
	return nil
}

// Confirming reports whether a submission awaits confirmation.
func (q *Quiz) Confirming() bool { return q.confirming }

// Cancel closes the confirmation step without touching answers.
func (q *Quiz) Cancel() error {
	if !q.confirming {
		return ErrNotConfirming
	}
	q.confirming = false
	return nil
}

// Confirm closes the confirmation step and scores the quiz.
func (q *Quiz) Confirm() (quiz.Result, error) {
	if !q.confirming {
		return quiz.Result{}, ErrNotConfirming
	}
	q.confirming = false
	result := quiz.Evaluate(q.questions, q.Answers())
	q.result = &result
	return result, nil
}

// Result returns the score once the quiz was submitted.
func (q *Quiz) Result() (quiz.Result, bool) {
	if q.result == nil {
		return quiz.Result{}, false
	}
	return *q.result, true
}

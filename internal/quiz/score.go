package quiz

// NotAnswered is reported as the user answer of skipped questions.
const NotAnswered = "Not answered"

// Tier is the feedback band of a score.
type Tier string

const (
	TierCelebratory Tier = "celebratory"
	TierHappy       Tier = "happy"
	TierNeutral     Tier = "neutral"
	TierSad         Tier = "sad"
)

// Emoji returns the emoji shown next to the score.
func (t Tier) Emoji() string {
	switch t {
	case TierCelebratory:
		return "🎉"
	case TierHappy:
		return "😊"
	case TierNeutral:
		return "😐"
	default:
		return "😢"
	}
}

// TierFor maps a percentage to its tier.
func TierFor(percentage float64) Tier {
	switch {
	case percentage >= 80:
		return TierCelebratory
	case percentage >= 60:
		return TierHappy
	case percentage >= 40:
		return TierNeutral
	default:
		return TierSad
	}
}

// Answers maps a question index to the selected option. Unanswered
// questions are absent.
type Answers map[int]string

// ItemResult is the review line of one question.
type ItemResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Correct       bool   `json:"correct"`
}

// Result is a scored quiz submission.
type Result struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage float64      `json:"percentage"`
	Tier       Tier         `json:"tier"`
	Emoji      string       `json:"emoji"`
	Items      []ItemResult `json:"items"`
}

// Evaluate scores answers against the questions. An answer is correct only
// when it is exactly equal to the question's correct answer.
func Evaluate(questions []Question, answers Answers) Result {
	result := Result{Total: Size, Items: make([]ItemResult, 0, len(questions))}

	for i, q := range questions {
		answer := answers[i]
		answered := answer != ""
		correct := answered && answer == q.CorrectAnswer

		item := ItemResult{
			Question:   q.Question,
			UserAnswer: answer,
			Correct:    correct,
		}
		if !answered {
			item.UserAnswer = NotAnswered
		}
		if correct {
			result.Score++
		} else {
			item.CorrectAnswer = q.CorrectAnswer
		}
		result.Items = append(result.Items, item)
	}

	result.Percentage = float64(result.Score) / float64(Size) * 100
	result.Tier = TierFor(result.Percentage)
	result.Emoji = result.Tier.Emoji()

	return result
}

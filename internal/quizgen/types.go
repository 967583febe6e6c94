package quizgen

import (
	"time"

	"github.com/abhisek/grammarquiz/internal/llm"
)

// Question is one multiple-choice grammar item.
type Question struct {
	// ID is the storage surrogate key. Zero until the question is persisted.
	ID int `json:"id,omitempty"`

	// Question is the prompt shown to the learner. A blank to fill is
	// marked with "..." or "___".
	Question string `json:"question"`

	// Options holds exactly 4 display strings.
	Options []string `json:"options"`

	// Answer is the 1-based index into Options of the correct choice.
	Answer int `json:"answer"`

	// Explanation says why the answer is correct. Always written in
	// ExplanationLanguage.
	Explanation string `json:"explanation"`
}

// IsCorrect reports whether choice (1-based) is the right answer.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.Answer
}

// AnswerText returns the text of the correct option, or "" when Answer is
// out of range.
func (q Question) AnswerText() string {
	if q.Answer < 1 || q.Answer > len(q.Options) {
		return ""
	}
	return q.Options[q.Answer-1]
}

// GenerateInput holds everything needed to request one batch.
type GenerateInput struct {
	Difficulty Difficulty

	// Hint is an optional free-text constraint appended to the prompt.
	Hint string
}

// Batch is the outcome of one generation call.
type Batch struct {
	// Questions are the validated records, in the order the model returned
	// them. IDs are zero.
	Questions []Question

	// Raw is the text the provider returned, before extraction.
	Raw string

	// Model is the model that served the request.
	Model string

	Usage   llm.Usage
	Latency time.Duration

	// SizeMismatch is set when the model returned a number of records other
	// than BatchSize.
	SizeMismatch bool
}

package quiz

import (
	"github.com/abhisek/grammarquiz/internal/quizgen"
)

// questionsLoadedMsg carries the stored batch read at startup.
type questionsLoadedMsg struct {
	Questions []quizgen.Question
	Err       error
}

// RestartMsg asks the quiz screen to walk the current batch again.
type RestartMsg struct{}

// GenerateMsg asks the quiz screen to request a new batch.
type GenerateMsg struct{}

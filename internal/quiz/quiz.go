// Package quiz walks a learner through a stored question batch one question
// at a time.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/grammarquiz/internal/quizgen"
)

var (
	// ErrNoQuestion is returned when there is no current question.
	ErrNoQuestion = errors.New("no current question")

	// ErrAlreadyAnswered is returned when the current question already has
	// a selection.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Feedback is the result of answering one question.
type Feedback struct {
	Index       int // 0-based question index
	Question    string
	Choice      int
	Correct     bool
	Answer      int    // 1-based correct option
	AnswerText  string // text of the correct option
	Explanation string
}

// Session tracks progress through a batch.
type Session struct {
	questions []quizgen.Question
	index     int
	answered  bool
	feedback  Feedback
	correct   int
	attempted int
	results   []Feedback
}

// New starts a session at the first question. The slice is copied.
func New(qs []quizgen.Question) *Session {
	cp := make([]quizgen.Question, len(qs))
	copy(cp, qs)
	return &Session{questions: cp}
}

// Current returns the question to display and its 0-based index. ok is
// false when the batch is empty or finished.
func (s *Session) Current() (q quizgen.Question, index int, ok bool) {
	if s.index >= len(s.questions) {
		return quizgen.Question{}, s.index, false
	}
	return s.questions[s.index], s.index, true
}

// Select records the learner's choice (1-based) for the current question.
// Each question accepts one selection.
func (s *Session) Select(choice int) (Feedback, error) {
	q, idx, ok := s.Current()
	if !ok {
		return Feedback{}, ErrNoQuestion
	}
	if s.answered {
		return s.feedback, ErrAlreadyAnswered
	}
	if choice < 1 || choice > len(q.Options) {
		return Feedback{}, fmt.Errorf("choice %d is outside 1..%d", choice, len(q.Options))
	}

	fb := Feedback{
		Index:       idx,
		Question:    q.Question,
		Choice:      choice,
		Correct:     q.IsCorrect(choice),
		Answer:      q.Answer,
		AnswerText:  q.AnswerText(),
		Explanation: q.Explanation,
	}
	s.answered = true
	s.feedback = fb
	s.attempted++
	s.results = append(s.results, fb)
	if fb.Correct {
		s.correct++
	}
	return fb, nil
}

// Answered reports whether the current question has a selection, and returns
// its feedback.
func (s *Session) Answered() (Feedback, bool) {
	return s.feedback, s.answered
}

// Advance moves to the next question. It returns false once the batch is
// finished.
func (s *Session) Advance() bool {
	if s.index >= len(s.questions) {
		return false
	}
	s.index++
	s.answered = false
	s.feedback = Feedback{}
	return s.index < len(s.questions)
}

// Results returns the feedback of every answered question in order.
func (s *Session) Results() []Feedback {
	out := make([]Feedback, len(s.results))
	copy(out, s.results)
	return out
}

// Questions returns a copy of the batch.
func (s *Session) Questions() []quizgen.Question {
	out := make([]quizgen.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.correct }

// Attempted returns the number of answered questions.
func (s *Session) Attempted() int { return s.attempted }

// Total returns the number of questions in the batch.
func (s *Session) Total() int { return len(s.questions) }

// Finished reports whether every question has been passed.
func (s *Session) Finished() bool { return s.index >= len(s.questions) }

// Accuracy returns the fraction of answered questions that were correct.
func (s *Session) Accuracy() float64 {
	if s.attempted == 0 {
		return 0
	}
	return float64(s.correct) / float64(s.attempted)
}

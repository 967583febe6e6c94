// Package quiz is the main screen: it requests question batches and walks
// the learner through the stored one.
package quiz

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarquiz/internal/generation"
	"github.com/abhisek/grammarquiz/internal/i18n"
	qz "github.com/abhisek/grammarquiz/internal/quiz"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/screen"
	"github.com/abhisek/grammarquiz/internal/screens/history"
	"github.com/abhisek/grammarquiz/internal/screens/summary"
	"github.com/abhisek/grammarquiz/internal/store"
	"github.com/abhisek/grammarquiz/internal/ui/components"
	"github.com/abhisek/grammarquiz/internal/ui/layout"
)

const hintCharLimit = 200

// Config holds the screen's collaborators.
type Config struct {
	Orchestrator *generation.Orchestrator

	// Events feeds the history screen. Nil disables it.
	Events store.EventRepo

	Translator *i18n.Translator

	// Difficulty is preselected in the level picker.
	Difficulty quizgen.Difficulty
}

// QuizScreen implements screen.Screen for generating and answering
// questions.
type QuizScreen struct {
	orch   *generation.Orchestrator
	events store.EventRepo
	tr     *i18n.Translator

	difficulties []quizgen.Difficulty
	difficulty   components.Selector
	hint         components.TextInput
	generate     components.Button
	spinner      spinner.Model

	session *qz.Session
	choices components.MultiChoice

	loaded bool
	banner string // last failure, cleared by the next attempt
	notice string // last success
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

func New(cfg Config) *QuizScreen {
	tr := cfg.Translator
	if tr == nil {
		tr = i18n.MustNew("en")
	}

	diffs := quizgen.Difficulties()
	labels := make([]string, len(diffs))
	selected := 0
	for i, d := range diffs {
		labels[i] = d.Label()
		if d == cfg.Difficulty {
			selected = i
		}
	}

	return &QuizScreen{
		orch:         cfg.Orchestrator,
		events:       cfg.Events,
		tr:           tr,
		difficulties: diffs,
		difficulty:   components.NewSelector(tr.T("Difficulty"), labels, selected),
		hint:         components.NewTextInput(tr.T("Hint"), tr.T("HintPlaceholder"), hintCharLimit),
		generate:     components.NewButton(tr.T("Generate"), tr.T("Generating"), "g"),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		session:      qz.New(nil),
	}
}

// Init reads the previously stored batch. It runs on the UI loop, so the
// store is only ever touched from here and from Complete.
func (s *QuizScreen) Init() tea.Cmd {
	qs, err := s.orch.Load(context.Background())
	return func() tea.Msg { return questionsLoadedMsg{Questions: qs, Err: err} }
}

func (s *QuizScreen) Title() string {
	return s.tr.T("QuizTitle")
}

// Status shows the selected level, or progress while a request is out.
func (s *QuizScreen) Status() string {
	if s.orch.Busy() {
		return s.spinner.View() + " " + s.tr.T("Generating")
	}
	return s.selectedDifficulty().Level()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.hint.Focused() {
		return []layout.KeyHint{
			{Key: "Enter/Esc", Description: s.tr.T("KeyDone")},
		}
	}

	hints := []layout.KeyHint{
		{Key: "←→", Description: s.tr.T("KeyDifficulty")},
		{Key: "Tab", Description: s.tr.T("KeyHint")},
	}
	if !s.orch.Busy() {
		hints = append(hints, layout.KeyHint{Key: "g", Description: s.tr.T("KeyGenerate")})
	}
	if _, _, ok := s.session.Current(); ok {
		if _, answered := s.session.Answered(); answered {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: s.tr.T("KeyNext")})
		} else {
			hints = append(hints, layout.KeyHint{Key: "1-4", Description: s.tr.T("KeyAnswer")})
		}
	} else if s.session.Total() > 0 {
		hints = append(hints, layout.KeyHint{Key: "r", Description: s.tr.T("KeyRestart")})
	}
	if s.events != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: s.tr.T("KeyHistory")})
	}
	return append(hints, layout.KeyHint{Key: "q", Description: s.tr.T("KeyQuit")})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.banner = s.tr.Td("LoadFailed", map[string]any{"Error": msg.Err.Error()})
			return s, nil
		}
		s.startSession(msg.Questions)
		return s, nil

	case generation.ResultMsg:
		return s.handleResult(msg)

	case spinner.TickMsg:
		// The tick loop ends when the request does.
		if !s.orch.Busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.ChoiceMsg:
		return s.handleChoice(msg)

	case RestartMsg:
		s.startSession(s.session.Questions())
		return s, nil

	case GenerateMsg:
		return s, s.startGeneration()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.hint.Focused() {
		var cmd tea.Cmd
		s.hint, cmd = s.hint.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.hint.Focused() {
		switch key {
		case "enter", "esc", "tab":
			s.hint.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.hint, cmd = s.hint.Update(msg)
		return s, cmd
	}

	switch key {
	case "q":
		return s, tea.Quit
	case "tab":
		return s, s.hint.Focus()
	case "g":
		return s, s.startGeneration()
	case "left", "right":
		s.difficulty, _ = s.difficulty.Update(msg)
		return s, nil
	case "h":
		if s.events == nil {
			return s, nil
		}
		hs := history.New(s.events, s.tr)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
	case "r":
		if s.session.Total() > 0 {
			s.startSession(s.session.Questions())
		}
		return s, nil
	}

	if _, _, ok := s.session.Current(); !ok {
		return s, nil
	}
	if _, answered := s.session.Answered(); answered {
		switch key {
		case "enter", "n", "space":
			return s.advance()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

// startGeneration asks the orchestrator for a new batch. It is a no-op
// while a request is outstanding.
func (s *QuizScreen) startGeneration() tea.Cmd {
	input := quizgen.GenerateInput{
		Difficulty: s.selectedDifficulty(),
		Hint:       s.hint.Value(),
	}
	cmd, ok := s.orch.Start(input)
	if !ok {
		return nil
	}
	s.banner = ""
	s.notice = ""
	s.setBusy(true)
	return tea.Batch(cmd, s.spinner.Tick)
}

func (s *QuizScreen) handleResult(msg generation.ResultMsg) (screen.Screen, tea.Cmd) {
	defer s.setBusy(false)
	out := s.orch.Complete(context.Background(), msg)

	switch out.Status {
	case generation.OutcomeSucceeded:
		s.startSession(out.Questions)
		s.notice = s.tr.Tp("GenerationSucceeded", len(out.Questions))
		if out.SizeMismatch && msg.Batch != nil {
			s.notice += " " + s.tr.Td("SizeMismatch", map[string]any{
				"Count":    len(msg.Batch.Questions),
				"Expected": quizgen.BatchSize,
			})
		}
	case generation.OutcomePersistFailed:
		s.banner = s.tr.Td("SaveFailed", map[string]any{"Error": errText(out.Err)})
	default:
		s.banner = s.tr.Td("GenerationFailed", map[string]any{"Error": errText(out.Err)})
	}
	return s, nil
}

func (s *QuizScreen) handleChoice(msg components.ChoiceMsg) (screen.Screen, tea.Cmd) {
	fb, err := s.session.Select(msg.Choice)
	if err != nil {
		return s, nil
	}
	s.choices.Reveal(fb.Choice, fb.Answer)
	return s, nil
}

// advance moves to the next question, or shows the results after the last.
func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	if s.session.Advance() {
		s.resetChoices()
		return s, nil
	}
	res := summary.Result{
		Score:      s.session.Score(),
		Total:      s.session.Total(),
		Answers:    s.session.Results(),
		Difficulty: s.selectedDifficulty().Label(),
	}
	sum := summary.New(res, s.tr, RestartMsg{}, GenerateMsg{})
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: sum} }
}

func (s *QuizScreen) startSession(qs []quizgen.Question) {
	s.session = qz.New(qs)
	s.resetChoices()
}

func (s *QuizScreen) resetChoices() {
	q, _, ok := s.session.Current()
	if !ok {
		s.choices = components.NewMultiChoice(nil)
		return
	}
	s.choices = components.NewMultiChoice(q.Options)
}

func (s *QuizScreen) setBusy(busy bool) {
	s.generate.Disabled = busy
	s.difficulty.Disabled = busy
}

func (s *QuizScreen) selectedDifficulty() quizgen.Difficulty {
	if s.difficulty.Selected < 0 || s.difficulty.Selected >= len(s.difficulties) {
		return quizgen.DefaultDifficulty
	}
	return s.difficulties[s.difficulty.Selected]
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return fmt.Sprint(err)
}

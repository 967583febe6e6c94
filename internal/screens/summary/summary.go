// Package summary shows the score after the last question of a batch.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/i18n"
	qz "github.com/abhisek/grammarquiz/internal/quiz"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/screen"
	"github.com/abhisek/grammarquiz/internal/ui/components"
	"github.com/abhisek/grammarquiz/internal/ui/layout"
	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// Result is a finished walk-through.
type Result struct {
	Score      int
	Total      int
	Answers    []qz.Feedback
	Difficulty string
}

// Accuracy is Score over answered questions.
func (r Result) Accuracy() float64 {
	if len(r.Answers) == 0 {
		return 0
	}
	return float64(r.Score) / float64(len(r.Answers))
}

// SummaryScreen displays a Result.
type SummaryScreen struct {
	result Result
	tr     *i18n.Translator

	// Sent to the screen below after popping.
	restartMsg  tea.Msg
	generateMsg tea.Msg
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. On r or g it pops itself and then delivers
// restartMsg or generateMsg to the screen underneath.
func New(result Result, tr *i18n.Translator, restartMsg, generateMsg tea.Msg) *SummaryScreen {
	return &SummaryScreen{result: result, tr: tr, restartMsg: restartMsg, generateMsg: generateMsg}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return s.tr.T("SummaryTitle")
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: s.tr.T("KeyRestart")},
		{Key: "g", Description: s.tr.T("KeyGenerate")},
		{Key: "Enter/Esc", Description: s.tr.T("KeyBack")},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, pop
	case "r":
		return s, s.popThen(s.restartMsg)
	case "g":
		return s, s.popThen(s.generateMsg)
	}
	return s, nil
}

func pop() tea.Msg { return router.PopScreenMsg{} }

func (s *SummaryScreen) popThen(next tea.Msg) tea.Cmd {
	if next == nil {
		return pop
	}
	return tea.Sequence(pop, func() tea.Msg { return next })
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render(s.tr.Td("FinalScore", map[string]any{
		"Score": r.Score,
		"Total": r.Total,
	}))))
	b.WriteString("\n")
	if r.Difficulty != "" {
		b.WriteString(center(theme.Label.Render(r.Difficulty)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bar := components.NewProgressBar(r.Score, r.Total, min(40, width-8))
	b.WriteString(center(bar.View()))
	b.WriteString("\n")
	b.WriteString(center(theme.Body.Render(s.tr.Td("Accuracy", map[string]any{
		"Percent": fmt.Sprintf("%.0f", r.Accuracy()*100),
	}))))
	b.WriteString("\n\n")

	listWidth := min(width-8, 80)
	var list strings.Builder
	for _, a := range r.Answers {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		line := s.tr.Td("SummaryLine", map[string]any{
			"Index":  a.Index + 1,
			"Choice": a.Choice,
			"Answer": a.Answer,
		})
		list.WriteString(mark + " " + theme.Body.Render(line) + "\n")
		list.WriteString(theme.Muted.Width(listWidth).Render("   "+a.Question) + "\n")
	}
	if skipped := r.Total - len(r.Answers); skipped > 0 {
		list.WriteString(theme.Hint.Render(s.tr.Tp("SummaryUnanswered", skipped)) + "\n")
	}
	b.WriteString(center(list.String()))

	b.WriteString("\n")
	b.WriteString(center(theme.Hint.Render(s.tr.T("PlayAgain"))))
	return b.String()
}

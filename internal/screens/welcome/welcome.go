// Package welcome is the splash screen shown before the quiz.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/i18n"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/screen"
	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bookEnd      = 400 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

const bookArt = ` _______ _______
|  A a  |  B b  |
|  ───  |  ───  |
|  ───  |  ───  |
|_______|_______|`

type tickMsg time.Time

// WelcomeScreen shows the book, then the banner, then hands over to the
// screen built by next. Any key skips ahead.
type WelcomeScreen struct {
	next         func() screen.Screen
	tr           *i18n.Translator
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen, tr *i18n.Translator) *WelcomeScreen {
	return &WelcomeScreen{next: next, tr: tr}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	s := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt)}

	if w.elapsed >= bookEnd {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			theme.Body.Bold(true).Render(w.tr.T("WelcomeTagline")),
		)
	}
	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render(w.tr.T("PressAnyKey")))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

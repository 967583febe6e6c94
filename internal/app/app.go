// Package app is the root Bubble Tea model: it frames the active screen
// with the header and footer and owns global keys.
package app

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarquiz/internal/generation"
	"github.com/abhisek/grammarquiz/internal/i18n"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/screen"
	"github.com/abhisek/grammarquiz/internal/screens/quiz"
	"github.com/abhisek/grammarquiz/internal/screens/welcome"
	"github.com/abhisek/grammarquiz/internal/store"
	"github.com/abhisek/grammarquiz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Orchestrator *generation.Orchestrator
	Events       store.EventRepo
	Translator   *i18n.Translator
	Difficulty   quizgen.Difficulty

	// SkipWelcome starts directly on the quiz screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	tr     *i18n.Translator
	width  int
	height int
}

// New builds the root model.
func New(opts Options) AppModel {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.MustNew("en")
	}
	newQuiz := func() screen.Screen {
		return quiz.New(quiz.Config{
			Orchestrator: opts.Orchestrator,
			Events:       opts.Events,
			Translator:   tr,
			Difficulty:   opts.Difficulty,
		})
	}

	var first screen.Screen
	if opts.SkipWelcome {
		first = newQuiz()
	} else {
		first = welcome.New(newQuiz, tr)
	}
	return AppModel{router: router.New(first), tr: tr}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case generation.ResultMsg, spinner.TickMsg:
		// Generation belongs to the quiz screen even when another screen
		// is on top.
		return m, m.router.UpdateBottom(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// The bottom screen gets esc for its own use.
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.tr.Td("TooSmall", map[string]any{
			"MinWidth":  layout.MinWidth,
			"MinHeight": layout.MinHeight,
			"Width":     m.width,
			"Height":    m.height,
		}), m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	hints := m.defaultHints()
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			hints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(m.tr.T("AppTitle"), title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) defaultHints() []layout.KeyHint {
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: m.tr.T("KeyBack")},
			{Key: "Ctrl+C", Description: m.tr.T("KeyQuit")},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: m.tr.T("KeyContinue")},
		{Key: "Ctrl+C", Description: m.tr.T("KeyQuit")},
	}
}

// Run starts the program and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

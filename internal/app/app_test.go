package app

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarquiz/internal/generation"
	"github.com/abhisek/grammarquiz/internal/i18n"
	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/store"
)

func newTestApp(t *testing.T, skipWelcome bool) AppModel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.Open(filepath.Join(t.TempDir(), "app.db"), store.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	orch := generation.New(generation.Config{
		Generator: quizgen.New(llm.NewMockProvider(), quizgen.DefaultConfig(), logger),
		Questions: s.Questions(),
		Events:    s.Events(),
		Logger:    logger,
	})
	return New(Options{
		Orchestrator: orch,
		Events:       s.Events(),
		Translator:   i18n.MustNew("en"),
		Difficulty:   quizgen.Intermediate,
		SkipWelcome:  skipWelcome,
	})
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestApp_RendersFrame(t *testing.T) {
	m := newTestApp(t, true)
	m, _ = update(m, m.Init()())
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	content := m.render()
	assert.Contains(t, content, "Grammar Quiz")
	assert.Contains(t, content, "CEFR B1")
	assert.Contains(t, content, "No questions yet")
}

func TestApp_TooSmall(t *testing.T) {
	m := newTestApp(t, true)
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.True(t, strings.Contains(m.render(), "Terminal too small"))
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newTestApp(t, true)
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_EscPopsOnlyAboveBottom(t *testing.T) {
	m := newTestApp(t, true)

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		_, isPop := cmd().(router.PopScreenMsg)
		assert.False(t, isPop, "bottom screen is never popped")
	}

	_, cmd = update(m, tea.KeyPressMsg{Code: 'h', Text: "h"})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	require.Equal(t, 2, m.router.Depth())

	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, isPop := cmd().(router.PopScreenMsg)
	assert.True(t, isPop)
}

func TestApp_WelcomeHandsOverToQuiz(t *testing.T) {
	m := newTestApp(t, false)
	assert.Equal(t, "", m.router.Active().Title())

	_, cmd := update(m, tea.KeyPressMsg{Code: ' ', Text: " "})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Equal(t, "Quiz", m.router.Active().Title())
}

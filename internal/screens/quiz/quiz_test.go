package quiz

import (
	"context"
	"fmt"
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
	"github.com/abhisek/grammarquiz/internal/ui/components"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func batchJSON(n int, prefix string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"question":"%s %d: She ___ watching TV.","options":["is","was","be","are"],"answer":2,"explanation":"過去進行形です。"}`, prefix, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

type fixture struct {
	screen *QuizScreen
	store  *store.Store
	mock   *llm.MockProvider
}

func newFixture(t *testing.T, stored []quizgen.Question, responses ...llm.MockResponse) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"), store.WithLogger(discardLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	if len(stored) > 0 {
		_, err := s.Questions().ReplaceAll(context.Background(), stored)
		require.NoError(t, err)
	}

	mock := llm.NewMockProvider(responses...)
	orch := generation.New(generation.Config{
		Generator: quizgen.New(mock, quizgen.DefaultConfig(), discardLogger()),
		Questions: s.Questions(),
		Events:    s.Events(),
		Provider:  "mock",
		Model:     "mock",
		Logger:    discardLogger(),
	})
	scr := New(Config{
		Orchestrator: orch,
		Events:       s.Events(),
		Translator:   i18n.MustNew("en"),
		Difficulty:   quizgen.Intermediate,
	})
	scr.Update(scr.Init()())
	return &fixture{screen: scr, store: s, mock: mock}
}

func storedQuestions(n int) []quizgen.Question {
	qs := make([]quizgen.Question, n)
	for i := range qs {
		qs[i] = quizgen.Question{
			Question:    fmt.Sprintf("Stored %d: I have lived here ___ 2010.", i+1),
			Options:     []string{"for", "since", "from", "at"},
			Answer:      2,
			Explanation: "起点を表すときは since を使います。",
		}
	}
	return qs
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func resultIn(t *testing.T, msgs []tea.Msg) generation.ResultMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(generation.ResultMsg); ok {
			return r
		}
	}
	t.Fatalf("no ResultMsg in %v", msgs)
	return generation.ResultMsg{}
}

// answer presses key and feeds the resulting ChoiceMsg back.
func (f *fixture) answer(t *testing.T, key rune) {
	t.Helper()
	_, cmd := f.screen.Update(keyPress(key))
	require.NotNil(t, cmd)
	f.screen.Update(cmd())
}

func TestQuizScreen_Title(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, "Quiz", f.screen.Title())
}

func TestQuizScreen_ShowsStoredBatchOnStart(t *testing.T) {
	f := newFixture(t, storedQuestions(3))

	view := f.screen.View(100, 40)
	assert.Contains(t, view, "Question 1 of 3")
	assert.Contains(t, view, "Stored 1: I have lived here")
	assert.Contains(t, view, "2. since")
}

func TestQuizScreen_EmptyStore(t *testing.T) {
	f := newFixture(t, nil)
	assert.Contains(t, f.screen.View(100, 40), "No questions yet")
}

func TestQuizScreen_GenerateReplacesBatch(t *testing.T) {
	f := newFixture(t, storedQuestions(3), llm.MockResponse{Text: "```json\n" + batchJSON(10, "New") + "\n```"})

	_, cmd := f.screen.Update(keyPress('g'))
	require.NotNil(t, cmd)
	assert.True(t, f.screen.orch.Busy())
	assert.Contains(t, f.screen.Status(), "Generating")
	assert.Contains(t, f.screen.View(100, 40), "Generating…")

	res := resultIn(t, collect(cmd))
	f.screen.Update(res)

	assert.False(t, f.screen.orch.Busy())
	view := f.screen.View(100, 40)
	assert.Contains(t, view, "New 1: She ___ watching TV.")
	assert.Contains(t, view, "10 new questions are ready.")
	assert.Contains(t, view, "Question 1 of 10")
}

func TestQuizScreen_GenerateWhileBusyIsIgnored(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Text: batchJSON(10, "A")})

	_, first := f.screen.Update(keyPress('g'))
	require.NotNil(t, first)

	_, second := f.screen.Update(keyPress('g'))
	assert.Nil(t, second)

	f.screen.Update(resultIn(t, collect(first)))
	assert.Equal(t, 1, f.mock.CallCount())
}

func TestQuizScreen_FailureKeepsPreviousBatch(t *testing.T) {
	f := newFixture(t, storedQuestions(2), llm.MockResponse{Text: "I'm sorry, I can't help with that."})

	_, cmd := f.screen.Update(keyPress('g'))
	f.screen.Update(resultIn(t, collect(cmd)))

	view := f.screen.View(100, 40)
	assert.Contains(t, view, "Could not generate questions")
	assert.Contains(t, view, "Stored 1:")

	n, err := f.store.Questions().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestQuizScreen_LoadFailureBanner(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"), store.WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	orch := generation.New(generation.Config{
		Generator: quizgen.New(llm.NewMockProvider(), quizgen.DefaultConfig(), discardLogger()),
		Questions: s.Questions(),
		Logger:    discardLogger(),
	})
	scr := New(Config{Orchestrator: orch, Translator: i18n.MustNew("en")})
	scr.Update(scr.Init()())

	view := scr.View(100, 40)
	assert.Contains(t, view, "Could not load stored questions")
	assert.NotContains(t, view, "Could not generate questions")
}

// panickingQuestions fails every write with a panic.
type panickingQuestions struct {
	store.QuestionRepo
}

func (panickingQuestions) ReplaceAll(context.Context, []quizgen.Question) (int, error) {
	panic("disk on fire")
}

func TestQuizScreen_ControlsReenabledWhenCompletePanics(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Text: batchJSON(10, "A")})
	f.screen.orch = generation.New(generation.Config{
		Generator: quizgen.New(f.mock, quizgen.DefaultConfig(), discardLogger()),
		Questions: panickingQuestions{f.store.Questions()},
		Logger:    discardLogger(),
	})

	_, cmd := f.screen.Update(keyPress('g'))
	require.NotNil(t, cmd)
	require.True(t, f.screen.generate.Disabled)
	res := resultIn(t, collect(cmd))

	assert.Panics(t, func() { f.screen.Update(res) })
	assert.False(t, f.screen.orch.Busy())
	assert.False(t, f.screen.generate.Disabled)
	assert.False(t, f.screen.difficulty.Disabled)
}

func TestQuizScreen_SizeMismatchNotice(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Text: batchJSON(7, "Short")})

	_, cmd := f.screen.Update(keyPress('g'))
	f.screen.Update(resultIn(t, collect(cmd)))

	assert.Contains(t, f.screen.View(100, 40), "returned 7 questions instead of 10")
}

func TestQuizScreen_HintAndDifficultyReachThePrompt(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Text: batchJSON(10, "A")})

	f.screen.Update(specialKey(tea.KeyRight))
	assert.Equal(t, "CEFR B2", f.screen.Status())

	f.screen.Update(specialKey(tea.KeyTab))
	for _, r := range "articles" {
		f.screen.Update(keyPress(r))
	}
	// g typed into the focused hint must not start a request.
	f.screen.Update(keyPress('g'))
	assert.False(t, f.screen.orch.Busy())
	f.screen.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "articlesg", f.screen.hint.Value())

	_, cmd := f.screen.Update(keyPress('g'))
	f.screen.Update(resultIn(t, collect(cmd)))

	require.Equal(t, 1, f.mock.CallCount())
	prompt := f.mock.Calls[0].Prompt
	assert.Contains(t, prompt, "CEFR B2")
	assert.Contains(t, prompt, "articlesg")
}

func TestQuizScreen_DifficultyLockedWhileBusy(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Text: batchJSON(10, "A")})

	_, cmd := f.screen.Update(keyPress('g'))
	f.screen.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, "CEFR B1", f.screen.selectedDifficulty().Level())

	f.screen.Update(resultIn(t, collect(cmd)))
	f.screen.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, "CEFR A2", f.screen.selectedDifficulty().Level())
}

func TestQuizScreen_AnswerFlow(t *testing.T) {
	f := newFixture(t, storedQuestions(2))

	f.answer(t, '2')
	view := f.screen.View(100, 40)
	assert.Contains(t, view, "Correct!")
	assert.Contains(t, view, "起点を表すときは since を使います。")
	assert.Contains(t, view, "Next question")

	// A second selection is ignored.
	_, cmd := f.screen.Update(keyPress('1'))
	assert.Nil(t, cmd)

	f.screen.Update(specialKey(tea.KeyEnter))
	assert.Contains(t, f.screen.View(100, 40), "Question 2 of 2")

	f.answer(t, '3')
	view = f.screen.View(100, 40)
	assert.Contains(t, view, "Incorrect! The answer is 2: since")
	assert.Contains(t, view, "Show score")

	_, cmd = f.screen.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Results", push.Screen.Title())

	assert.Equal(t, 1, f.screen.session.Score())
	assert.Contains(t, f.screen.View(100, 40), "You scored 1 out of 2.")
}

func TestQuizScreen_ArrowsAndEnterAnswer(t *testing.T) {
	f := newFixture(t, storedQuestions(1))

	f.screen.Update(specialKey(tea.KeyDown))
	_, cmd := f.screen.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, components.ChoiceMsg{Choice: 2}, cmd())
}

func TestQuizScreen_Restart(t *testing.T) {
	f := newFixture(t, storedQuestions(1))
	f.answer(t, '1')
	f.screen.Update(specialKey(tea.KeyEnter))
	require.True(t, f.screen.session.Finished())

	f.screen.Update(RestartMsg{})
	assert.False(t, f.screen.session.Finished())
	assert.Equal(t, 0, f.screen.session.Attempted())
	assert.Contains(t, f.screen.View(100, 40), "Question 1 of 1")
}

func TestQuizScreen_HistoryAndQuit(t *testing.T) {
	f := newFixture(t, nil)

	_, cmd := f.screen.Update(keyPress('h'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Generation history", push.Screen.Title())

	_, cmd = f.screen.Update(keyPress('q'))
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestQuizScreen_KeyHintsFollowState(t *testing.T) {
	f := newFixture(t, storedQuestions(1))

	has := func(key string) bool {
		for _, h := range f.screen.KeyHints() {
			if h.Key == key {
				return true
			}
		}
		return false
	}

	assert.True(t, has("1-4"))
	f.answer(t, '2')
	assert.True(t, has("Enter"))
	assert.False(t, has("1-4"))

	f.screen.Update(specialKey(tea.KeyTab))
	assert.True(t, has("Enter/Esc"))
}

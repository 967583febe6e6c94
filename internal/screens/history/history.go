// Package history lists recent generation attempts.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/i18n"
	"github.com/abhisek/grammarquiz/internal/router"
	"github.com/abhisek/grammarquiz/internal/screen"
	"github.com/abhisek/grammarquiz/internal/store"
	"github.com/abhisek/grammarquiz/internal/ui/layout"
	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

const (
	pageSize  = 50
	rawLimit  = 240
	timestamp = "2006-01-02 15:04"
)

type historyLoadedMsg struct {
	Events []store.GenerationEventRecord
	Err    error
}

// HistoryScreen displays past generation attempts.
type HistoryScreen struct {
	eventRepo  store.EventRepo
	tr         *i18n.Translator
	events     []store.GenerationEventRecord
	selected   int
	expanded   map[int64]bool
	failedOnly bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(eventRepo store.EventRepo, tr *i18n.Translator) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		tr:        tr,
		expanded:  make(map[int64]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo := s.eventRepo
	opts := store.QueryOpts{Limit: pageSize, FailedOnly: s.failedOnly}
	return func() tea.Msg {
		events, err := repo.QueryGenerations(context.Background(), opts)
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return s.tr.T("HistoryTitle")
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: s.tr.T("KeyDetails")},
		{Key: "f", Description: s.tr.T("KeyFilter")},
		{Key: "Esc", Description: s.tr.T("KeyBack")},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.events = msg.Events
		if s.selected >= len(s.events) {
			s.selected = max(len(s.events)-1, 0)
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.events) {
				id := s.events[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		case "f":
			s.failedOnly = !s.failedOnly
			return s, s.load()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.ErrorBanner.Render(s.tr.Td("HistoryLoadFailed", map[string]any{"Error": s.errMsg}))
	}
	if !s.loaded {
		return theme.Hint.Render("\n  " + s.tr.T("Loading"))
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.failedOnly {
		b.WriteString("  " + theme.Notice.Render(s.tr.T("HistoryFilterFailed")) + "\n\n")
	}
	if len(s.events) == 0 {
		b.WriteString(theme.Hint.Render("  " + s.tr.T("HistoryEmpty")))
		return b.String()
	}

	detailWidth := min(width-10, 100)
	for i, ev := range s.events {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}

		status := theme.Correct.Render(s.tr.T("HistoryOK"))
		if !ev.Success {
			status = theme.Incorrect.Render(s.tr.T("HistoryFailed"))
		}

		line := fmt.Sprintf("%s%s  %-12s  %s/%s  %s",
			prefix,
			ev.Timestamp.Local().Format(timestamp),
			ev.Difficulty,
			ev.Provider, ev.Model,
			s.tr.Tp("QuestionsCount", ev.QuestionCount),
		)
		b.WriteString(style.Render(line) + "  " + status + "\n")

		if s.expanded[ev.ID] {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(6).Width(detailWidth).Render(s.details(ev)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *HistoryScreen) details(ev store.GenerationEventRecord) string {
	var lines []string
	if ev.Hint != "" {
		lines = append(lines, s.tr.Td("HistoryRequest", map[string]any{"Hint": ev.Hint}))
	}
	if !ev.Success {
		lines = append(lines, theme.Incorrect.Render(s.tr.Td("HistoryError", map[string]any{
			"Kind":    ev.ErrorKind,
			"Message": ev.ErrorMessage,
		})))
	}
	lines = append(lines, s.tr.Td("HistoryUsage", map[string]any{
		"Input":   ev.InputTokens,
		"Output":  ev.OutputTokens,
		"Latency": ev.LatencyMs,
	}))
	if ev.RawResponse != "" {
		lines = append(lines, theme.Muted.Render(s.tr.Td("HistoryRaw", map[string]any{
			"Raw": truncate(ev.RawResponse, rawLimit),
		})))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

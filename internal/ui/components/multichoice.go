package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// ChoiceMsg reports a 1-based option picked in a MultiChoice.
type ChoiceMsg struct {
	Choice int
}

// MultiChoice lists numbered options. Keys 1-9 pick directly; arrows move
// the cursor and Enter picks it. Once revealed it stops taking input and
// colours the correct and chosen options.
type MultiChoice struct {
	Options []string
	Cursor  int // 0-based

	revealed bool
	chosen   int // 1-based
	answer   int // 1-based
}

func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Options) > 0 {
			return m, choose(m.Cursor + 1)
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '0')
			if n <= len(m.Options) {
				m.Cursor = n - 1
				return m, choose(n)
			}
		}
	}
	return m, nil
}

func choose(n int) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Choice: n} }
}

// Reveal freezes the list and marks chosen and answer (both 1-based).
func (m *MultiChoice) Reveal(chosen, answer int) {
	m.revealed = true
	m.chosen = chosen
	m.answer = answer
}

func (m MultiChoice) Revealed() bool { return m.revealed }

func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		n := i + 1
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d. %s", prefix, n, opt)

		var style lipgloss.Style
		switch {
		case m.revealed && n == m.answer:
			style = theme.Correct
		case m.revealed && n == m.chosen:
			style = theme.Incorrect
		case m.revealed:
			style = theme.Muted
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

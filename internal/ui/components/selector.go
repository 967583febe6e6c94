package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// Selector is a horizontal one-of-many picker driven by ←/→.
type Selector struct {
	Label    string
	Items    []string
	Selected int
	Disabled bool
}

func NewSelector(label string, items []string, selected int) Selector {
	if selected < 0 || selected >= len(items) {
		selected = 0
	}
	return Selector{Label: label, Items: items, Selected: selected}
}

// Update moves the selection and reports whether it changed.
func (s Selector) Update(msg tea.Msg) (Selector, bool) {
	if s.Disabled {
		return s, false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, false
	}
	switch kmsg.String() {
	case "left", "h":
		if s.Selected > 0 {
			s.Selected--
			return s, true
		}
	case "right", "l":
		if s.Selected < len(s.Items)-1 {
			s.Selected++
			return s, true
		}
	}
	return s, false
}

func (s Selector) View() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		switch {
		case i == s.Selected && !s.Disabled:
			parts[i] = theme.Selected.Render("[" + item + "]")
		case i == s.Selected:
			parts[i] = theme.Body.Render("[" + item + "]")
		default:
			parts[i] = theme.Muted.Render(" " + item + " ")
		}
	}
	return theme.Label.Render(s.Label+": ") + "◂ " + strings.Join(parts, " ") + " ▸"
}

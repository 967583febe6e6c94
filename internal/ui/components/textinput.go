package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// TextInput is a labelled single-line input.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput creates a blurred input limited to charLimit runes.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Label: label, Model: ti}
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

func (t *TextInput) Blur() { t.Model.Blur() }

func (t TextInput) Focused() bool { return t.Model.Focused() }

// Update forwards msg to the input while it has focus.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if !t.Model.Focused() {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	label := theme.Label
	if t.Model.Focused() {
		label = theme.Selected
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(t.Label+": "), t.Model.View())
}

func (t TextInput) Value() string { return t.Model.Value() }

func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }

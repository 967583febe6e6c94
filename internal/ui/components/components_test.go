package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceDigitPicksDirectly(t *testing.T) {
	m := NewMultiChoice([]string{"is", "was", "be", "are"})

	m, cmd := m.Update(keyPress('3'))
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceMsg{Choice: 3}, cmd())
	assert.Equal(t, 2, m.Cursor)

	_, cmd = m.Update(keyPress('7'))
	assert.Nil(t, cmd, "digit beyond the options is ignored")
}

func TestMultiChoiceArrowsAndEnter(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c", "d"})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Cursor)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceMsg{Choice: 2}, cmd())
}

func TestMultiChoiceRevealStopsInput(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c", "d"})
	m.Reveal(1, 2)

	_, cmd := m.Update(keyPress('2'))
	assert.Nil(t, cmd)
	assert.True(t, m.Revealed())
	assert.Contains(t, m.View(), "2. b")
}

func TestSelectorBounds(t *testing.T) {
	s := NewSelector("Difficulty", []string{"A2", "B1", "B2"}, 1)

	s, changed := s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.True(t, changed)
	assert.Equal(t, 2, s.Selected)

	s, changed = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.False(t, changed, "no wrap past the last item")

	s.Disabled = true
	s, changed = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.False(t, changed)
	assert.Equal(t, 2, s.Selected)

	assert.Equal(t, 0, NewSelector("x", []string{"a"}, 5).Selected)
}

func TestButtonBusyLabel(t *testing.T) {
	b := NewButton("Generate questions", "Generating…", "g")
	assert.Contains(t, b.View(), "Generate questions")

	b.Disabled = true
	assert.Contains(t, b.View(), "Generating…")
	assert.NotContains(t, b.View(), "Generate questions")
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar(3, 10, 30)
	assert.InDelta(t, 0.3, p.Fraction(), 1e-9)
	assert.Contains(t, p.View(), "3/10")

	assert.Zero(t, NewProgressBar(1, 0, 10).Fraction())
	assert.Equal(t, 1.0, NewProgressBar(12, 10, 10).Fraction())
}

func TestTextInputIgnoresKeysWhenBlurred(t *testing.T) {
	ti := NewTextInput("Extra request", "", 100)
	ti, _ = ti.Update(keyPress('x'))
	assert.Empty(t, ti.Value())

	ti.Focus()
	ti, _ = ti.Update(keyPress('x'))
	assert.Equal(t, "x", ti.Value())
	assert.True(t, ti.Focused())
}

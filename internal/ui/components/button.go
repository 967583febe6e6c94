package components

import (
	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// Button is a keyboard-triggered action. A disabled button shows its busy
// label instead.
type Button struct {
	Label     string
	BusyLabel string
	Key       string
	Disabled  bool
}

func NewButton(label, busyLabel, key string) Button {
	return Button{Label: label, BusyLabel: busyLabel, Key: key}
}

func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Render(b.BusyLabel)
	}
	return theme.ButtonActive.Render("[" + b.Key + "] " + b.Label)
}

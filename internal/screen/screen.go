// Package screen defines the contract between the router and the views it
// stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarquiz/internal/ui/layout"
)

// Screen is one view on the router stack.
type Screen interface {
	// Init returns a command to run when the screen becomes active.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen put a short status on the right of the
// header, such as the selected difficulty.
type StatusProvider interface {
	Status() string
}

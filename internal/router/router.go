package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarquiz/internal/screen"
)

// PushScreenMsg asks the router to push a screen.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg asks the router to pop the active screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg asks the router to swap the active screen in place.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens; only the top one receives messages.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Push adds s on top and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. The bottom screen is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen for s and runs its Init.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = append(r.stack, s)
	} else {
		r.stack[len(r.stack)-1] = s
	}
	return s.Init()
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// UpdateBottom delivers msg to the bottom screen whatever is on top. It is
// for results owned by the root screen.
func (r *Router) UpdateBottom(msg tea.Msg) tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	updated, cmd := r.stack[0].Update(msg)
	r.stack[0] = updated
	return cmd
}

func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

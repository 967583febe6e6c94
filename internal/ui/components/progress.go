package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

// ProgressBar shows Current out of Total as a bar with a "n/m" counter.
type ProgressBar struct {
	Current int
	Total   int
	Width   int
}

func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Fraction is Current/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Total)
	return min(max(f, 0), 1)
}

func (p ProgressBar) View() string {
	counter := fmt.Sprintf(" %d/%d", p.Current, p.Total)
	barWidth := max(p.Width-lipgloss.Width(counter), 4)

	filled := int(float64(barWidth) * p.Fraction())
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Muted.Render(counter)
}

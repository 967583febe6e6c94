package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

const bannerArt = `╔═╗╦═╗╔═╗╔╦╗╔╦╗╔═╗╦═╗  ╔═╗ ╦ ╦╦╔═╗
║ ╦╠╦╝╠═╣║║║║║║╠═╣╠╦╝  ║═╬╗║ ║║╔═╝
╚═╝╩╚═╩ ╩╩ ╩╩ ╩╩ ╩╩╚═  ╚═╝╚╚═╝╩╚═╝`

const bannerCompact = "G R A M M A R   Q U I Z"

// RenderBanner returns the banner, or a spaced-out name below 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

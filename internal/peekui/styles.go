package peekui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

// Color palette.
var (
	colorBG  = c("#080e0b")
	colorDim = c("#141a17")

	// Element border by state
	inViewBorder    = c("#44ff88")
	outViewBorder   = c("#aa5544")
	unsampledBorder = c("#3a4a42")
	selBorder       = c("#00ffee")
	dragBorder      = c("#ffcc00")

	labelText = c("#f0fff8")

	// Sample point markers
	markVisible  = c("#44ff88")
	markOccluded = c("#ff5555")
	markMissed   = c("#777777")

	// Chrome colors
	toolbarColor = c("#00ffc8")
	footerColor  = c("#666666")
)

var (
	tbStyle = lipgloss.NewStyle().
		Background(c("#0a1510")).
		Foreground(toolbarColor).
		Bold(true)

	ftStyle = lipgloss.NewStyle().
		Foreground(footerColor)

	bgStyle = lipgloss.NewStyle().
		Background(colorBG)
)

// borderColor picks the border color for an element.
func borderColor(sampled, inView, selected, dragging bool) color.Color {
	switch {
	case dragging:
		return dragBorder
	case selected:
		return selBorder
	case !sampled:
		return unsampledBorder
	case inView:
		return inViewBorder
	default:
		return outViewBorder
	}
}

package peekui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/pkg/tealayout"
)

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.Width == 0 || m.Height == 0 {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// Snapshot sizes the model to a width x height terminal, runs one pass
// and returns the rendered frame.
func (m Model) Snapshot(width, height int) string {
	m.Width, m.Height = width, height
	m.Cam.Resize(m.layout().Get("canvas").Size())
	m.runPass()
	return m.render()
}

func (m Model) render() string {
	layout := m.layout()
	canvas := layout.Get("canvas")

	layers := []*lipgloss.Layer{
		tealayout.FillLayer(layout.Get("toolbar"), tbStyle, "toolbar-bg", 0),
		tealayout.FillLayer(layout.Get("footer"), ftStyle, "footer-bg", 0),
		tealayout.ToolbarLayer(
			" VIEWPEEK  │  drag boxes, scroll, watch what is really visible  │  [o]ptions [h]it mode  │  [q]uit",
			m.Width, tbStyle),
		tealayout.FooterLayer(footerText(m), m.Width, m.Height-1, ftStyle),
		buildCanvasLayer(m, canvas.Rect),
	}
	layers = append(layers, buildNodeLayers(m, canvas.Rect)...)
	layers = append(layers, buildPointLayers(m, canvas.Rect, modalZ(m)-1)...)
	layers = append(layers, buildPanelLayers(m, layout.Get("panel"))...)

	if m.opts.open {
		layers = append(layers, buildOptionsLayer(m, m.Width, m.Height).Z(modalZ(m)))
	}

	comp := lipgloss.NewCompositor(layers...)
	cv := lipgloss.NewCanvas(m.Width, m.Height)
	cv.Compose(comp)
	return cv.Render()
}

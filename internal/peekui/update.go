package peekui

import (
	"image"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/viewpeek/internal/config"
	"github.com/wesen/viewpeek/pkg/tealayout"
	"github.com/wesen/viewpeek/pkg/trigger"
)

const (
	panelWidth = 36
	panStep    = 3
)

// layout computes the screen regions for the current terminal size.
func (m Model) layout() tealayout.Layout {
	return tealayout.NewLayoutBuilder(m.Width, m.Height).
		TopFixed("toolbar", 1).
		BottomFixed("footer", 1).
		RightFixed("panel", panelWidth).
		Remaining("canvas").
		Build()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if m.Cam.Resize(m.layout().Get("canvas").Size()) {
			return m, m.fire(trigger.Resize)
		}

	case frameMsg:
		if m.Gate.TakeFrame() {
			m.runPass()
		}

	case tea.KeyMsg:
		if m.opts.open {
			return m.handleOptionsKeys(msg)
		}
		return m.handleKey(msg.String())

	case tea.MouseMsg:
		if m.opts.open {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(key string) (Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Scrolling
	case "up":
		return m.scroll(image.Pt(0, -panStep))
	case "down":
		return m.scroll(image.Pt(0, panStep))
	case "left":
		return m.scroll(image.Pt(-panStep, 0))
	case "right":
		return m.scroll(image.Pt(panStep, 0))

	case "space", " ", "r":
		return m, m.force(trigger.Manual)

	case "p":
		opts := m.Sampler.Options()
		opts.KeepPoints = !opts.KeepPoints
		m.Sampler.SetOptions(opts)
		return m, m.force(trigger.Manual)

	case "h":
		if m.HitMode == config.HitModeCompositor {
			m.HitMode = config.HitModeScene
		} else {
			m.HitMode = config.HitModeCompositor
		}
		return m, m.force(trigger.Manual)

	case "o":
		return m.openOptions()

	case "x", "delete", "backspace":
		if m.HasSelection {
			m.Scene.Remove(m.SelectedID)
			m.HasSelection = false
			return m, m.force(trigger.Manual)
		}

	case "esc", "escape":
		m.HasSelection = false
	}

	return m, nil
}

// scroll moves the camera and fires a scroll trigger when it moved.
func (m Model) scroll(delta image.Point) (Model, tea.Cmd) {
	if !m.Cam.ScrollBy(delta) {
		return m, nil
	}
	return m, m.fire(trigger.Scroll)
}

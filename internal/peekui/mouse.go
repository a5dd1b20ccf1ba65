package peekui

import (
	"image"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/viewpeek/pkg/trigger"
)

// handleMouse processes mouse events and returns updated model + command.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.MouseX = mouse.X
	m.MouseY = mouse.Y

	local, inside := m.layout().Get("canvas").Local(image.Pt(mouse.X, mouse.Y))

	switch msg.(type) {
	case tea.MouseWheelMsg:
		if !inside {
			return m, nil
		}
		switch mouse.Button {
		case tea.MouseWheelUp:
			return m.scroll(image.Pt(0, -panStep))
		case tea.MouseWheelDown:
			return m.scroll(image.Pt(0, panStep))
		case tea.MouseWheelLeft:
			return m.scroll(image.Pt(-panStep, 0))
		case tea.MouseWheelRight:
			return m.scroll(image.Pt(panStep, 0))
		}

	case tea.MouseClickMsg:
		if inside && mouse.Button == tea.MouseLeft {
			return m.pointerDown(local)
		}

	case tea.MouseMotionMsg:
		// Keep dragging when the pointer leaves the canvas.
		return m.pointerMove(local)

	case tea.MouseReleaseMsg:
		return m.pointerUp()
	}

	return m, nil
}

// pointerDown selects the element under the canvas point and starts a
// drag on it. Clicking empty canvas clears the selection.
func (m Model) pointerDown(p image.Point) (Model, tea.Cmd) {
	world := m.Cam.ToWorld(p)
	hit := m.Scene.TopmostAt(world)
	if hit == nil {
		m.HasSelection = false
		return m, nil
	}
	id, ok := m.Scene.Owner(hit.ID)
	if !ok {
		m.HasSelection = false
		return m, nil
	}
	m.SelectedID = id
	m.HasSelection = true
	m.Drag.Begin(id, world)
	m.DragStart = m.Scene.Element(id).Bounds
	return m, nil
}

// pointerMove moves the dragged element by the pointer delta.
func (m Model) pointerMove(p image.Point) (Model, tea.Cmd) {
	delta, id, ok := m.Drag.Move(m.Cam.ToWorld(p))
	if !ok || delta == (image.Point{}) {
		return m, nil
	}
	m.Scene.Move(id, delta)
	return m, m.fire(trigger.Drag)
}

// pointerUp ends the drag and requests a settle pass so the final
// position is always sampled, even when the last moves were throttled.
func (m Model) pointerUp() (Model, tea.Cmd) {
	if _, ok := m.Drag.End(); !ok {
		return m, nil
	}
	return m, m.force(trigger.Settle)
}

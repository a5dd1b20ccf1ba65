package peekui

import (
	"image"

	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/pkg/visibility"
)

// compositorHits answers hit tests from the lipgloss compositor, i.e.
// from what is actually drawn in the terminal, including the options
// modal when it is open.
type compositorHits struct {
	comp   *lipgloss.Compositor
	origin image.Point // canvas top-left on screen
	size   image.Point
	parent func(visibility.ID) (visibility.ID, bool)
}

func newCompositorHits(m Model) *compositorHits {
	canvas := m.layout().Get("canvas").Rect
	layers := buildNodeLayers(m, canvas)
	if m.opts.open {
		layers = append(layers, buildOptionsLayer(m, m.Width, m.Height).Z(modalZ(m)))
	}
	return &compositorHits{
		comp:   lipgloss.NewCompositor(layers...),
		origin: canvas.Min,
		size:   canvas.Size(),
		parent: m.Scene.Parent,
	}
}

func (h *compositorHits) TopmostAt(x, y int) (visibility.ID, bool) {
	if !image.Pt(x, y).In(image.Rectangle{Max: h.size}) {
		return 0, false
	}
	return parseNodeLayerID(h.comp.Hit(h.origin.X+x, h.origin.Y+y).ID())
}

func (h *compositorHits) Parent(id visibility.ID) (visibility.ID, bool) { return h.parent(id) }

// modalZ stacks the modal above every element and sample marker.
func modalZ(m Model) int {
	return elementZBase + m.Scene.Len() + 2
}

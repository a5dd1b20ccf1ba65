package scene

import (
	"image"
	"slices"

	"github.com/wesen/viewpeek/pkg/visibility"
)

// Element is a node of the render tree.
type Element struct {
	ID        visibility.ID
	Parent    visibility.ID // valid when HasParent
	HasParent bool
	Bounds    image.Rectangle // world coordinates, Max exclusive
	Color     string          // hex background color
	Tracked   bool
	Label     visibility.ID // label child of a tracked element

	// Annotated by the sampler.
	Text           string
	Classification visibility.Classification
}

// InView reports the last classification of the element.
func (e *Element) InView() bool { return e.Classification.InView }

// Scene is a render tree with stable insertion-order iteration.
type Scene struct {
	elems    map[visibility.ID]*Element
	order    []visibility.ID // paint order, last on top
	tracked  []visibility.ID // insertion order of tracked elements
	nextID   visibility.ID
	world    image.Point
	onRemove []func(visibility.ID)
}

// New creates an empty scene. world is the scrollable extent; a zero world
// leaves scrolling unbounded.
func New(world image.Point) *Scene {
	return &Scene{
		elems: make(map[visibility.ID]*Element),
		world: world,
	}
}

// World returns the scrollable extent.
func (s *Scene) World() image.Point { return s.world }

// OnRemove registers fn to be called with the ID of every tracked element
// that is removed, so per-element state (history) can follow the
// element's lifecycle.
func (s *Scene) OnRemove(fn func(visibility.ID)) {
	s.onRemove = append(s.onRemove, fn)
}

// ── Node operations ──

// AddTracked inserts a tracked element with its label child and returns
// the element ID.
func (s *Scene) AddTracked(bounds image.Rectangle, color string) visibility.ID {
	id := s.insert(&Element{Bounds: bounds, Color: color, Tracked: true})
	s.tracked = append(s.tracked, id)
	lbl := s.AddChild(id, LabelRect(bounds))
	s.elems[id].Label = lbl
	return id
}

// AddOverlay inserts an untracked top-level node, such as a toolbar or a
// popup drawn above the tracked elements.
func (s *Scene) AddOverlay(bounds image.Rectangle, color string) visibility.ID {
	return s.insert(&Element{Bounds: bounds, Color: color})
}

// AddChild inserts an untracked node under parent. It returns -1 when the
// parent does not exist.
func (s *Scene) AddChild(parent visibility.ID, bounds image.Rectangle) visibility.ID {
	if _, ok := s.elems[parent]; !ok {
		return -1
	}
	return s.insert(&Element{Bounds: bounds, Parent: parent, HasParent: true})
}

func (s *Scene) insert(e *Element) visibility.ID {
	e.ID = s.nextID
	s.nextID++
	s.elems[e.ID] = e
	s.order = append(s.order, e.ID)
	return e.ID
}

// Element returns the node with the given ID, or nil.
func (s *Scene) Element(id visibility.ID) *Element {
	return s.elems[id]
}

// Elements returns all nodes in paint order.
func (s *Scene) Elements() []*Element {
	out := make([]*Element, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.elems[id])
	}
	return out
}

// Tracked returns the tracked element IDs in insertion order.
func (s *Scene) Tracked() []visibility.ID {
	return slices.Clone(s.tracked)
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.order) }

// Remove deletes a node and all its descendants.
func (s *Scene) Remove(id visibility.ID) {
	if _, ok := s.elems[id]; !ok {
		return
	}
	doomed := s.subtree(id)
	for _, d := range doomed {
		e := s.elems[d]
		delete(s.elems, d)
		if e.Tracked {
			s.tracked = slices.DeleteFunc(s.tracked, func(t visibility.ID) bool { return t == d })
			for _, fn := range s.onRemove {
				fn(d)
			}
		}
	}
	s.order = slices.DeleteFunc(s.order, func(o visibility.ID) bool {
		_, ok := s.elems[o]
		return !ok
	})
}

// Move translates a node and its descendants by delta.
func (s *Scene) Move(id visibility.ID, delta image.Point) {
	if _, ok := s.elems[id]; !ok {
		return
	}
	for _, d := range s.subtree(id) {
		e := s.elems[d]
		e.Bounds = e.Bounds.Add(delta)
	}
}

// Raise moves a node and its descendants to the top of the paint order,
// keeping their relative order.
func (s *Scene) Raise(id visibility.ID) {
	if _, ok := s.elems[id]; !ok {
		return
	}
	sub := make(map[visibility.ID]bool)
	for _, d := range s.subtree(id) {
		sub[d] = true
	}
	rest := make([]visibility.ID, 0, len(s.order))
	top := make([]visibility.ID, 0, len(sub))
	for _, o := range s.order {
		if sub[o] {
			top = append(top, o)
		} else {
			rest = append(rest, o)
		}
	}
	s.order = append(rest, top...)
}

// subtree returns id and its descendants.
func (s *Scene) subtree(id visibility.ID) []visibility.ID {
	out := []visibility.ID{id}
	for i := 0; i < len(out); i++ {
		for _, o := range s.order {
			e := s.elems[o]
			if e != nil && e.HasParent && e.Parent == out[i] {
				out = append(out, o)
			}
		}
	}
	return out
}

// ── Spatial queries ──

// TopmostAt returns the last-painted node containing pt (world
// coordinates), or nil.
func (s *Scene) TopmostAt(pt image.Point) *Element {
	for i := len(s.order) - 1; i >= 0; i-- {
		e := s.elems[s.order[i]]
		if pt.In(e.Bounds) {
			return e
		}
	}
	return nil
}

// Parent returns the parent of id.
func (s *Scene) Parent(id visibility.ID) (visibility.ID, bool) {
	e, ok := s.elems[id]
	if !ok || !e.HasParent {
		return 0, false
	}
	return e.Parent, true
}

// Owner returns the nearest tracked node among id and its ancestors.
func (s *Scene) Owner(id visibility.ID) (visibility.ID, bool) {
	for range s.Len() + 1 {
		e, ok := s.elems[id]
		if !ok {
			return 0, false
		}
		if e.Tracked {
			return id, true
		}
		if !e.HasParent {
			return 0, false
		}
		id = e.Parent
	}
	return 0, false
}

// InRect returns the nodes whose bounds intersect r, in paint order.
func (s *Scene) InRect(r image.Rectangle) []*Element {
	var out []*Element
	for _, id := range s.order {
		e := s.elems[id]
		if e.Bounds.Overlaps(r) {
			out = append(out, e)
		}
	}
	return out
}

// Annotate stores a classification on a tracked element and writes the
// percentage into its label child.
func (s *Scene) Annotate(id visibility.ID, c visibility.Classification) {
	e, ok := s.elems[id]
	if !ok {
		return
	}
	e.Classification = c
	if lbl, ok := s.elems[e.Label]; ok && e.Tracked {
		lbl.Text = c.Label()
	}
}

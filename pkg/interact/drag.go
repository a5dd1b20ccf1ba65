// Package interact holds pointer interaction state as explicit values
// instead of process-wide variables.
package interact

import "image"

// DragSession tracks the element being dragged and the last pointer
// position. T is the element handle type. The zero value is an idle
// session.
type DragSession[T any] struct {
	target T
	ref    image.Point
	origin image.Point
	active bool
	moves  int
}

// Begin starts dragging target with the pointer at pt.
func (s *DragSession[T]) Begin(target T, pt image.Point) {
	s.target = target
	s.ref = pt
	s.origin = pt
	s.active = true
	s.moves = 0
}

// Move reports the pointer delta since the previous position and makes pt
// the new reference point. ok is false when no drag is active.
func (s *DragSession[T]) Move(pt image.Point) (delta image.Point, target T, ok bool) {
	if !s.active {
		return image.Point{}, target, false
	}
	delta = pt.Sub(s.ref)
	s.ref = pt
	s.moves++
	return delta, s.target, true
}

// End clears the active target. It returns the target that was being
// dragged and whether a drag was active.
func (s *DragSession[T]) End() (target T, ok bool) {
	if !s.active {
		return target, false
	}
	target = s.target
	*s = DragSession[T]{}
	return target, true
}

// Active reports whether a drag is in progress.
func (s *DragSession[T]) Active() bool { return s.active }

// Target returns the dragged element; only meaningful while Active.
func (s *DragSession[T]) Target() T { return s.target }

// Origin returns where the pointer went down.
func (s *DragSession[T]) Origin() image.Point { return s.origin }

// Pointer returns the last pointer position seen.
func (s *DragSession[T]) Pointer() image.Point { return s.ref }

// Moves returns how many moves were applied in this drag.
func (s *DragSession[T]) Moves() int { return s.moves }

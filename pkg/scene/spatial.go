// Package scene is an in-memory render tree of absolutely positioned
// rectangles. Nodes are painted in insertion order (later nodes on top),
// each tracked element owns a label child, and a View exposes a scrolled
// window of the scene as a geometry source and hit tester for the
// visibility sampler.
package scene

import "image"

// labelWidth is the width reserved for the percentage label ("100%").
const labelWidth = 4

// Center returns the center point of r.
func Center(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

// LabelRect returns the rectangle of the label child centered in bounds.
// It is clamped to bounds and is empty only when bounds is.
func LabelRect(bounds image.Rectangle) image.Rectangle {
	w := min(labelWidth, bounds.Dx())
	h := min(1, bounds.Dy())
	c := Center(bounds)
	x := c.X - w/2
	return image.Rect(x, c.Y, x+w, c.Y+h).Intersect(bounds)
}

// Package visibility estimates how much of each tracked element is really
// visible on screen. Bounding boxes only say whether an element intersects
// the viewport; the sampler goes further and hit-tests a grid of interior
// points to find out whether something else is drawn on top.
//
// The package knows nothing about the renderer. Geometry comes from a
// Source, hit tests from a HitTester and results go to an Annotator, so the
// same pass runs against the in-memory scene, the terminal compositor or a
// real browser page.
package visibility

import (
	"image"
	"math"
)

// ID identifies a node of the render tree. Tracked elements and the nodes
// returned by hit tests share the same ID space.
type ID int

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Top, Left, Right, Bottom float64
	Width, Height            float64
}

// NewRect builds a Rect from its top-left corner and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// RectFromImage converts an integer rectangle (Max exclusive) to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return NewRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
}

// Area returns Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return NewRect(r.Left+dx, r.Top+dy, r.Width, r.Height)
}

// Size is the viewport size.
type Size struct {
	Width, Height float64
}

// Point is a sample location in viewport coordinates.
type Point struct {
	X, Y float64
}

// Pixel returns the integer coordinate that contains p. It floors rather
// than rounds on purpose: rounding can push a point that is strictly
// inside an integer-aligned rectangle onto the pixel past its edge, while
// flooring keeps it inside.
func (p Point) Pixel() image.Point {
	return image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

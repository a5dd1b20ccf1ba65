package drawutil

import (
	"image"

	"github.com/wesen/viewpeek/pkg/cellbuf"
)

// Stroke draws the segment a→b.
func Stroke(buf *cellbuf.Buffer, a, b image.Point, style cellbuf.StyleKey) {
	pts := Line(a, b)
	for i, p := range pts {
		buf.Set(p.X, p.Y, LineRune(direction(pts, i)), style)
	}
}

// Arrow draws the segment a→b with an arrowhead on b. A zero-length arrow
// draws nothing.
func Arrow(buf *cellbuf.Buffer, a, b image.Point, body, head cellbuf.StyleKey) {
	if a == b {
		return
	}
	pts := Line(a, b)
	last := len(pts) - 1
	for i, p := range pts[:last] {
		buf.Set(p.X, p.Y, LineRune(direction(pts, i)), body)
	}
	buf.Set(b.X, b.Y, ArrowRune(direction(pts, last)), head)
}

// dashed reports whether step i of an edge is inked: two on, one off.
func dashed(i int) bool { return i%3 != 0 }

// DashedRect outlines r (Max exclusive) with dashed edges and solid
// corners. Empty rectangles draw nothing.
func DashedRect(buf *cellbuf.Buffer, r image.Rectangle, style cellbuf.StyleKey) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0 + 1; x < x1; x++ {
		if dashed(x - x0) {
			buf.Set(x, y0, '╌', style)
			buf.Set(x, y1, '╌', style)
		}
	}
	for y := y0 + 1; y < y1; y++ {
		if dashed(y - y0) {
			buf.Set(x0, y, '╎', style)
			buf.Set(x1, y, '╎', style)
		}
	}
	buf.Set(x0, y0, '┌', style)
	buf.Set(x1, y0, '┐', style)
	buf.Set(x0, y1, '└', style)
	buf.Set(x1, y1, '┘', style)
}

package drawutil

import (
	"image"

	"github.com/wesen/viewpeek/pkg/cellbuf"
)

// Grid dots every cell whose world coordinate (buffer cell + origin) is a
// multiple of spacing on both axes, so the pattern scrolls with the view.
// A non-positive spacing component draws nothing.
func Grid(buf *cellbuf.Buffer, origin, spacing image.Point, style cellbuf.StyleKey) {
	if spacing.X <= 0 || spacing.Y <= 0 {
		return
	}
	first := image.Pt(
		mod(-origin.X, spacing.X),
		mod(-origin.Y, spacing.Y),
	)
	for y := first.Y; y < buf.H; y += spacing.Y {
		for x := first.X; x < buf.W; x += spacing.X {
			buf.Set(x, y, '·', style)
		}
	}
}

// mod is a % m in [0, m).
func mod(a, m int) int {
	return ((a % m) + m) % m
}

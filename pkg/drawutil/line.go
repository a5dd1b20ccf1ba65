// Package drawutil draws direction-aware lines, arrows, dashed outlines and
// grid dots into a cellbuf.Buffer. All coordinates are buffer-local.
package drawutil

import "image"

// Line returns the cells of the segment from a to b, both ends included,
// in drawing order. It walks all octants with integer error terms and
// yields max(|dx|, |dy|)+1 points.
func Line(a, b image.Point) []image.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)

	pts := make([]image.Point, 0, max(dx, -dy)+1)
	p, e := a, dx+dy
	for {
		pts = append(pts, p)
		if p == b {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
}

// LineRune returns the character for a step in direction d.
func LineRune(d image.Point) rune {
	switch {
	case d.X == 0:
		return '│'
	case d.Y == 0:
		return '─'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

// ArrowRune returns an arrowhead pointing along the dominant axis of d.
func ArrowRune(d image.Point) rune {
	if abs(d.Y) > abs(d.X) {
		if d.Y > 0 {
			return '▼'
		}
		return '▲'
	}
	if d.X < 0 {
		return '◄'
	}
	return '►'
}

// direction returns the step at index i of pts, looking forward except at
// the last point.
func direction(pts []image.Point, i int) image.Point {
	switch {
	case i+1 < len(pts):
		return pts[i+1].Sub(pts[i])
	case i > 0:
		return pts[i].Sub(pts[i-1])
	}
	return image.Point{}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

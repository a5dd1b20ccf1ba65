package visibility

// InViewport is the cheap bounding-box gate: it reports false only for
// rectangles lying entirely above, below, left or right of the viewport.
func InViewport(r Rect, vp Size) bool {
	return !(r.Right < 0 || r.Bottom < 0 || r.Left > vp.Width || r.Top > vp.Height)
}

// OverlapRatio returns the percentage (0..100) of r's area that lies inside
// the viewport. Degenerate rectangles have ratio 0. Area and overlap are
// both taken from the edges, so a contained rectangle is exactly 100.
func OverlapRatio(r Rect, vp Size) float64 {
	rw, rh := r.Right-r.Left, r.Bottom-r.Top
	if rw <= 0 || rh <= 0 {
		return 0
	}
	w := intersectionLength(r.Left, r.Right, vp.Width)
	h := intersectionLength(r.Top, r.Bottom, vp.Height)
	ratio := w * h / (rw * rh) * 100
	if ratio > 100 {
		ratio = 100
	}
	return ratio
}

// SubstantiallyInViewport reports whether more than threshold percent of r
// is inside the viewport. The default threshold is 50.
func SubstantiallyInViewport(r Rect, vp Size, threshold float64) bool {
	return OverlapRatio(r, vp) > threshold
}

// intersectionLength is the 1-D overlap of [lo, hi] with [0, bound].
func intersectionLength(lo, hi, bound float64) float64 {
	return clamp(hi, 0, bound) - clamp(lo, 0, bound)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

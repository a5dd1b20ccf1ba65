package visibility

import "image"

// maxAncestorDepth bounds the parent walk so a malformed tree with a cycle
// cannot hang a pass.
const maxAncestorDepth = 1024

// HitTester answers "what is drawn on top at this pixel" and exposes the
// parent links of the render tree.
type HitTester interface {
	// TopmostAt returns the topmost node rendered at (x, y), or false when
	// nothing is there.
	TopmostAt(x, y int) (ID, bool)
	// Parent returns the parent of id, or false at the root.
	Parent(id ID) (ID, bool)
}

// HitResult is one answer of a batched hit test.
type HitResult struct {
	ID ID
	OK bool
}

// BatchHitTester is implemented by hit testers with an expensive round
// trip per query (a browser page). The sampler resolves all in-bounds
// points of an element with a single call when it is available.
type BatchHitTester interface {
	HitTester
	TopmostAtAll(pts []image.Point) []HitResult
}

// Outcome classifies a single sample point.
type Outcome int

const (
	PointVisible  Outcome = iota
	PointOccluded         // another element is on top
	PointMissed           // nothing rendered at the point
	PointOutside          // point lies outside the viewport
)

func (o Outcome) String() string {
	switch o {
	case PointVisible:
		return "visible"
	case PointOccluded:
		return "occluded"
	case PointMissed:
		return "missed"
	case PointOutside:
		return "outside"
	}
	return "unknown"
}

// PointSample records where a point was tested and what was found there.
type PointSample struct {
	At      image.Point
	Outcome Outcome
}

// IsSelfOrAncestor walks up from node and reports whether target is node
// itself or one of its ancestors.
func IsSelfOrAncestor(hit HitTester, node, target ID) bool {
	for range maxAncestorDepth {
		if node == target {
			return true
		}
		parent, ok := hit.Parent(node)
		if !ok {
			return false
		}
		node = parent
	}
	return false
}

// InBounds reports whether p lies within [0,width]x[0,height].
func InBounds(p image.Point, vp Size) bool {
	return p.X >= 0 && p.Y >= 0 && float64(p.X) <= vp.Width && float64(p.Y) <= vp.Height
}

// CountVisible hit-tests every point and returns how many of them show the
// element self. The count starts at len(points) and is decremented for
// each point that is outside the viewport, hits nothing, or hits a node
// that is not self or a descendant of self.
func CountVisible(self ID, points []Point, vp Size, hit HitTester) (int, []PointSample) {
	samples := make([]PointSample, len(points))
	for i, p := range points {
		samples[i] = PointSample{At: p.Pixel(), Outcome: PointVisible}
	}

	// In-bounds points still need a hit test.
	idx := make([]int, 0, len(samples))
	for i := range samples {
		if InBounds(samples[i].At, vp) {
			idx = append(idx, i)
		} else {
			samples[i].Outcome = PointOutside
		}
	}

	hits := resolveHits(hit, samples, idx)
	for k, i := range idx {
		h := hits[k]
		switch {
		case !h.OK:
			samples[i].Outcome = PointMissed
		case !IsSelfOrAncestor(hit, h.ID, self):
			samples[i].Outcome = PointOccluded
		}
	}

	inView := len(points)
	for _, s := range samples {
		if s.Outcome != PointVisible {
			inView--
		}
	}
	return inView, samples
}

func resolveHits(hit HitTester, samples []PointSample, idx []int) []HitResult {
	if batch, ok := hit.(BatchHitTester); ok && len(idx) > 0 {
		pts := make([]image.Point, len(idx))
		for k, i := range idx {
			pts[k] = samples[i].At
		}
		res := batch.TopmostAtAll(pts)
		if len(res) == len(idx) {
			return res
		}
		// A short answer means the batch failed; treat the rest as misses.
		out := make([]HitResult, len(idx))
		copy(out, res)
		return out
	}

	out := make([]HitResult, len(idx))
	for k, i := range idx {
		id, ok := hit.TopmostAt(samples[i].At.X, samples[i].At.Y)
		out[k] = HitResult{ID: id, OK: ok}
	}
	return out
}

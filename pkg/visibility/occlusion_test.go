package visibility

import (
	"image"
	"testing"
)

// ── Ancestor walk ──

func TestIsSelfOrAncestor(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(0, 0, 100, 100))
	s.addChild(2, 1, image.Rect(10, 10, 50, 50))
	s.addChild(3, 2, image.Rect(20, 20, 30, 30))
	s.add(4, image.Rect(200, 0, 300, 100))

	tests := []struct {
		node, target ID
		want         bool
	}{
		{1, 1, true},
		{2, 1, true},
		{3, 1, true},
		{3, 2, true},
		{1, 2, false},
		{4, 1, false},
		{3, 4, false},
	}
	for _, tc := range tests {
		if got := IsSelfOrAncestor(s, tc.node, tc.target); got != tc.want {
			t.Errorf("IsSelfOrAncestor(%d, %d) = %v, want %v", tc.node, tc.target, got, tc.want)
		}
	}
}

// cyclic has a parent loop 1 -> 2 -> 1.
type cyclic struct{}

func (cyclic) TopmostAt(x, y int) (ID, bool) { return 1, true }
func (cyclic) Parent(id ID) (ID, bool) {
	if id == 1 {
		return 2, true
	}
	return 1, true
}

func TestIsSelfOrAncestorTerminatesOnCycle(t *testing.T) {
	if IsSelfOrAncestor(cyclic{}, 1, 99) {
		t.Error("cycle should not find an unrelated target")
	}
}

// ── CountVisible ──

func TestCountVisibleUnobstructed(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(100, 100, 500, 500))
	pts := SampleGrid(s.BoundingRect(1), 100)

	visible, samples := CountVisible(1, pts, s.vp, s)
	if visible != 16 {
		t.Fatalf("expected 16 visible, got %d", visible)
	}
	for i, p := range samples {
		if p.Outcome != PointVisible {
			t.Errorf("point %d: expected visible, got %v", i, p.Outcome)
		}
	}
}

func TestCountVisibleFullCover(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(100, 100, 500, 500))
	s.add(2, image.Rect(100, 100, 500, 500))
	pts := SampleGrid(s.BoundingRect(1), 100)

	visible, samples := CountVisible(1, pts, s.vp, s)
	if visible != 0 {
		t.Fatalf("expected 0 visible, got %d", visible)
	}
	if samples[0].Outcome != PointOccluded {
		t.Errorf("expected occluded, got %v", samples[0].Outcome)
	}
	// The cover itself is fully visible.
	if v, _ := CountVisible(2, pts, s.vp, s); v != 16 {
		t.Errorf("cover: expected 16 visible, got %d", v)
	}
}

func TestCountVisibleChildCountsForParent(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(100, 100, 500, 500))
	// A label child covering the whole element.
	s.addChild(10, 1, image.Rect(100, 100, 500, 500))

	pts := SampleGrid(s.BoundingRect(1), 100)
	if v, _ := CountVisible(1, pts, s.vp, s); v != 16 {
		t.Errorf("expected 16 visible through the child, got %d", v)
	}
}

func TestCountVisiblePartialCover(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(100, 100, 500, 500))
	// Covers the left half: x in [100,300) holds columns 180 and 260.
	s.addOverlay(99, image.Rect(0, 0, 300, 600))

	pts := SampleGrid(s.BoundingRect(1), 100)
	if v, _ := CountVisible(1, pts, s.vp, s); v != 8 {
		t.Errorf("expected 8 visible, got %d", v)
	}
}

func TestCountVisibleOutsideViewport(t *testing.T) {
	s := newStack(300, 300)
	s.add(1, image.Rect(100, 100, 500, 500))

	pts := SampleGrid(s.BoundingRect(1), 100)
	visible, samples := CountVisible(1, pts, s.vp, s)
	// Columns/rows at 180 and 260 are inside, 340 and 420 are outside.
	if visible != 4 {
		t.Fatalf("expected 4 visible, got %d", visible)
	}
	outside := 0
	for _, p := range samples {
		if p.Outcome == PointOutside {
			outside++
		}
	}
	if outside != 12 {
		t.Errorf("expected 12 outside points, got %d", outside)
	}
	if s.queries != 4 {
		t.Errorf("outside points must not be hit-tested: %d queries", s.queries)
	}
}

func TestCountVisibleMiss(t *testing.T) {
	s := newStack(800, 600)
	s.add(1, image.Rect(100, 100, 500, 500))
	// Ask about a rect where nothing is drawn.
	pts := SampleGrid(NewRect(600, 0, 100, 100), 100)
	visible, samples := CountVisible(1, pts, s.vp, s)
	if visible != 0 || samples[0].Outcome != PointMissed {
		t.Errorf("expected a miss, got %d visible / %v", visible, samples[0].Outcome)
	}
}

func TestCountVisibleUsesBatch(t *testing.T) {
	b := &batchStack{stack: newStack(800, 600)}
	b.add(1, image.Rect(100, 100, 500, 500))
	b.addOverlay(99, image.Rect(0, 0, 300, 600))

	pts := SampleGrid(b.BoundingRect(1), 100)
	v, _ := CountVisible(1, pts, b.vp, b)
	if v != 8 {
		t.Errorf("expected 8 visible, got %d", v)
	}
	if b.batches != 1 {
		t.Errorf("expected 1 batch call, got %d", b.batches)
	}
}

func TestInBoundsInclusive(t *testing.T) {
	vp := Size{Width: 10, Height: 10}
	tests := []struct {
		p    image.Point
		want bool
	}{
		{image.Pt(0, 0), true},
		{image.Pt(10, 10), true},
		{image.Pt(-1, 5), false},
		{image.Pt(5, 11), false},
	}
	for _, tc := range tests {
		if got := InBounds(tc.p, vp); got != tc.want {
			t.Errorf("InBounds(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

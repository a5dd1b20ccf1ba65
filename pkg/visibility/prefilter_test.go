package visibility

import "testing"

// ── InViewport ──

func TestInViewport(t *testing.T) {
	vp := Size{Width: 800, Height: 600}
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", NewRect(100, 100, 50, 50), true},
		{"above", NewRect(100, -200, 50, 50), false},
		{"below", NewRect(100, 700, 50, 50), false},
		{"left", NewRect(-300, 100, 50, 50), false},
		{"right", NewRect(900, 100, 50, 50), false},
		{"straddles top-left", NewRect(-25, -25, 50, 50), true},
		{"touches right edge", NewRect(800, 100, 50, 50), true},
		{"covers viewport", NewRect(-100, -100, 2000, 2000), true},
	}
	for _, tc := range tests {
		if got := InViewport(tc.r, vp); got != tc.want {
			t.Errorf("%s: InViewport = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// ── OverlapRatio ──

func TestOverlapRatio(t *testing.T) {
	vp := Size{Width: 800, Height: 600}
	tests := []struct {
		name string
		r    Rect
		want float64
	}{
		{"inside", NewRect(10, 10, 100, 100), 100},
		{"exactly viewport", NewRect(0, 0, 800, 600), 100},
		{"disjoint", NewRect(900, 10, 100, 100), 0},
		{"half left", NewRect(-50, 10, 100, 100), 50},
		{"quarter corner", NewRect(750, 550, 100, 100), 25},
		{"covers viewport", NewRect(-400, -300, 1600, 1200), 25},
		{"zero width", NewRect(10, 10, 0, 100), 0},
		{"zero height", NewRect(10, 10, 100, 0), 0},
	}
	for _, tc := range tests {
		if got := OverlapRatio(tc.r, vp); got != tc.want {
			t.Errorf("%s: OverlapRatio = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOverlapRatioBounds(t *testing.T) {
	vp := Size{Width: 300, Height: 200}
	for x := -400.0; x <= 400; x += 37 {
		for y := -300.0; y <= 300; y += 29 {
			for _, sz := range []float64{1, 13, 150, 700} {
				r := NewRect(x, y, sz, sz/2)
				got := OverlapRatio(r, vp)
				if got < 0 || got > 100 {
					t.Fatalf("OverlapRatio(%+v) = %v, out of [0,100]", r, got)
				}
				contained := r.Left >= 0 && r.Top >= 0 && r.Right <= vp.Width && r.Bottom <= vp.Height
				if contained != (got == 100) {
					t.Errorf("OverlapRatio(%+v) = %v, contained=%v", r, got, contained)
				}
				disjoint := r.Right <= 0 || r.Bottom <= 0 || r.Left >= vp.Width || r.Top >= vp.Height
				if disjoint != (got == 0) {
					t.Errorf("OverlapRatio(%+v) = %v, disjoint=%v", r, got, disjoint)
				}
			}
		}
	}
}

// Browser geometry is fractional; Right-Left and Width can disagree in the
// last bit.
func TestOverlapRatioFractionalContained(t *testing.T) {
	vp := Size{Width: 800, Height: 600}
	for l := 1; l <= 200; l++ {
		for w := 1; w <= 200; w++ {
			r := NewRect(float64(l)*0.1, 3.3, float64(w)*0.1, 7.7)
			if got := OverlapRatio(r, vp); got != 100 {
				t.Fatalf("OverlapRatio(left=%v width=%v) = %v, want 100", r.Left, r.Width, got)
			}
			out := r.Translate(-r.Left-0.05, 0)
			if got := OverlapRatio(out, vp); got >= 100 {
				t.Fatalf("OverlapRatio(%+v) = %v, want < 100", out, got)
			}
		}
	}
}

func TestSubstantiallyInViewportIsStrict(t *testing.T) {
	vp := Size{Width: 800, Height: 600}
	half := NewRect(-50, 10, 100, 100)
	if SubstantiallyInViewport(half, vp, DefaultCoverageThreshold) {
		t.Error("exactly 50% overlap should not pass the gate")
	}
	more := NewRect(-49, 10, 100, 100)
	if !SubstantiallyInViewport(more, vp, DefaultCoverageThreshold) {
		t.Error("51% overlap should pass the gate")
	}
}

// The coarse gate must never reject what the sampler would see.
func TestInViewportAdmitsEverythingVisible(t *testing.T) {
	vp := Size{Width: 300, Height: 200}
	for x := -400.0; x <= 400; x += 41 {
		for y := -300.0; y <= 300; y += 31 {
			r := NewRect(x, y, 120, 90)
			if OverlapRatio(r, vp) > 0 && !InViewport(r, vp) {
				t.Errorf("InViewport rejected %+v with overlap %v", r, OverlapRatio(r, vp))
			}
		}
	}
}

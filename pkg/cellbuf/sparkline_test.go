package cellbuf

import "testing"

func TestSparklineLevels(t *testing.T) {
	b := New(5, 1, testBG)
	b.Sparkline(0, 0, 5, []int{0, 1, 50, 100, 150}, 100, testRed)
	want := []rune{' ', '▁', '▄', '█', '█'}
	for x, r := range want {
		if got := b.At(x, 0).Ch; got != r {
			t.Errorf("cell %d: expected %c, got %c", x, r, got)
		}
		if b.At(x, 0).Style != testRed {
			t.Errorf("cell %d: style not applied", x)
		}
	}
}

func TestSparklineKeepsNewest(t *testing.T) {
	b := New(3, 1, testBG)
	b.Sparkline(0, 0, 2, []int{100, 0, 100}, 100, testRed)
	if b.At(0, 0).Ch != ' ' || b.At(1, 0).Ch != '█' {
		t.Errorf("expected newest two values, got %q", string([]rune{b.At(0, 0).Ch, b.At(1, 0).Ch}))
	}
	if b.At(2, 0).Style != testBG {
		t.Error("sparkline wrote past its width")
	}
}

func TestSparklineDegenerate(t *testing.T) {
	b := New(3, 1, testBG)
	b.Sparkline(0, 0, 0, []int{100}, 100, testRed)
	b.Sparkline(0, 0, 3, []int{100}, 0, testRed)
	for x := range 3 {
		if b.At(x, 0).Style != testBG {
			t.Fatalf("degenerate sparkline drew at %d", x)
		}
	}
}

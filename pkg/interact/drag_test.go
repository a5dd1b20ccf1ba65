package interact

import (
	"image"
	"testing"
)

func TestDragSessionDeltas(t *testing.T) {
	var s DragSession[int]
	s.Begin(3, image.Pt(10, 10))

	steps := []struct {
		pt    image.Point
		delta image.Point
	}{
		{image.Pt(15, 12), image.Pt(5, 2)},
		{image.Pt(15, 12), image.Pt(0, 0)},
		{image.Pt(5, 20), image.Pt(-10, 8)},
	}
	for i, st := range steps {
		d, target, ok := s.Move(st.pt)
		if !ok || target != 3 {
			t.Fatalf("step %d: expected active drag of 3, got target=%d ok=%v", i, target, ok)
		}
		if d != st.delta {
			t.Errorf("step %d: expected delta %v, got %v", i, st.delta, d)
		}
	}
	if s.Moves() != 3 {
		t.Errorf("expected 3 moves, got %d", s.Moves())
	}
	if s.Origin() != image.Pt(10, 10) || s.Pointer() != image.Pt(5, 20) {
		t.Errorf("origin/pointer: got %v / %v", s.Origin(), s.Pointer())
	}
}

func TestDragSessionIdle(t *testing.T) {
	var s DragSession[int]
	if _, _, ok := s.Move(image.Pt(1, 1)); ok {
		t.Error("Move on an idle session should report !ok")
	}
	if _, ok := s.End(); ok {
		t.Error("End on an idle session should report !ok")
	}
}

func TestDragSessionEnd(t *testing.T) {
	var s DragSession[int]
	s.Begin(9, image.Pt(0, 0))
	target, ok := s.End()
	if !ok || target != 9 {
		t.Fatalf("expected to end drag of 9, got %d ok=%v", target, ok)
	}
	if s.Active() {
		t.Error("session should be idle after End")
	}
	if _, _, ok := s.Move(image.Pt(5, 5)); ok {
		t.Error("moves after End must be ignored")
	}
}

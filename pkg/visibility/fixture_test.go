package visibility

import "image"

// box is a node of the test render tree. Later boxes are drawn on top.
type box struct {
	id     ID
	parent ID
	child  bool
	r      image.Rectangle
}

// stack is a minimal Source + HitTester: tracked boxes, insertion-order
// stacking and parent links.
type stack struct {
	vp      Size
	boxes   []box
	tracked []ID
	queries int
}

func newStack(w, h float64) *stack {
	return &stack{vp: Size{Width: w, Height: h}}
}

func (s *stack) add(id ID, r image.Rectangle) {
	s.boxes = append(s.boxes, box{id: id, r: r})
	s.tracked = append(s.tracked, id)
}

func (s *stack) addChild(id, parent ID, r image.Rectangle) {
	s.boxes = append(s.boxes, box{id: id, parent: parent, child: true, r: r})
}

// addOverlay adds an untracked node on top of everything.
func (s *stack) addOverlay(id ID, r image.Rectangle) {
	s.boxes = append(s.boxes, box{id: id, r: r})
}

func (s *stack) find(id ID) (box, bool) {
	for _, b := range s.boxes {
		if b.id == id {
			return b, true
		}
	}
	return box{}, false
}

func (s *stack) Tracked() []ID { return s.tracked }

func (s *stack) BoundingRect(id ID) Rect {
	b, _ := s.find(id)
	return RectFromImage(b.r)
}

func (s *stack) ViewportSize() Size { return s.vp }

func (s *stack) TopmostAt(x, y int) (ID, bool) {
	s.queries++
	p := image.Pt(x, y)
	for i := len(s.boxes) - 1; i >= 0; i-- {
		if p.In(s.boxes[i].r) {
			return s.boxes[i].id, true
		}
	}
	return 0, false
}

func (s *stack) Parent(id ID) (ID, bool) {
	b, ok := s.find(id)
	if !ok || !b.child {
		return 0, false
	}
	return b.parent, true
}

// batchStack counts batched calls on top of stack.
type batchStack struct {
	*stack
	batches int
}

func (b *batchStack) TopmostAtAll(pts []image.Point) []HitResult {
	b.batches++
	out := make([]HitResult, len(pts))
	for i, p := range pts {
		id, ok := b.stack.TopmostAt(p.X, p.Y)
		out[i] = HitResult{ID: id, OK: ok}
	}
	return out
}

// recorder collects annotations.
type recorder map[ID]Classification

func (r recorder) Annotate(id ID, c Classification) { r[id] = c }

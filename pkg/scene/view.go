package scene

import (
	"image"

	"github.com/wesen/viewpeek/pkg/visibility"
)

// View is a scrolled window onto a Scene. Viewport coordinates are world
// coordinates minus Origin.
type View struct {
	Scene  *Scene
	Origin image.Point
	Size   image.Point
}

// NewView returns a view of s at the world origin.
func NewView(s *Scene, size image.Point) *View {
	return &View{Scene: s, Size: size}
}

// ToWorld converts a viewport point to world coordinates.
func (v *View) ToWorld(p image.Point) image.Point { return p.Add(v.Origin) }

// ToView converts a world point to viewport coordinates.
func (v *View) ToView(p image.Point) image.Point { return p.Sub(v.Origin) }

// Bounds returns the visible part of the world.
func (v *View) Bounds() image.Rectangle {
	return image.Rectangle{Max: v.Size}.Add(v.Origin)
}

// ScrollBy moves the viewport by delta and reports whether it moved.
func (v *View) ScrollBy(delta image.Point) bool {
	prev := v.Origin
	v.Origin = v.Origin.Add(delta)
	v.clamp()
	return v.Origin != prev
}

// Resize changes the viewport size and reports whether it changed.
func (v *View) Resize(size image.Point) bool {
	if size == v.Size {
		return false
	}
	v.Size = size
	v.clamp()
	return true
}

// clamp keeps the viewport inside the world when the world is bounded.
func (v *View) clamp() {
	w := v.Scene.World()
	if w == (image.Point{}) {
		return
	}
	v.Origin.X = max(0, min(v.Origin.X, w.X-v.Size.X))
	v.Origin.Y = max(0, min(v.Origin.Y, w.Y-v.Size.Y))
}

// ── visibility.Source ──

func (v *View) Tracked() []visibility.ID { return v.Scene.Tracked() }

func (v *View) BoundingRect(id visibility.ID) visibility.Rect {
	e := v.Scene.Element(id)
	if e == nil {
		return visibility.Rect{}
	}
	return visibility.RectFromImage(e.Bounds.Sub(v.Origin))
}

func (v *View) ViewportSize() visibility.Size {
	return visibility.Size{Width: float64(v.Size.X), Height: float64(v.Size.Y)}
}

// ── visibility.HitTester ──

func (v *View) TopmostAt(x, y int) (visibility.ID, bool) {
	p := image.Pt(x, y)
	if !p.In(image.Rectangle{Max: v.Size}) {
		return 0, false
	}
	e := v.Scene.TopmostAt(v.ToWorld(p))
	if e == nil {
		return 0, false
	}
	return e.ID, true
}

func (v *View) Parent(id visibility.ID) (visibility.ID, bool) { return v.Scene.Parent(id) }

// ── visibility.Annotator ──

func (v *View) Annotate(id visibility.ID, c visibility.Classification) {
	v.Scene.Annotate(id, c)
}

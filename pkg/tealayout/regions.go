// Package tealayout splits a terminal into named regions and builds the
// lipgloss layers that frame them (bars, separators, panels, modals).
package tealayout

import "image"

// Region is a named rectangle of the terminal in screen cells.
type Region struct {
	Name string
	Rect image.Rectangle
}

// Local converts a screen point to region-local coordinates and reports
// whether the point lies inside the region.
func (r Region) Local(p image.Point) (image.Point, bool) {
	return p.Sub(r.Rect.Min), p.In(r.Rect)
}

// Screen converts a region-local point to screen coordinates.
func (r Region) Screen(p image.Point) image.Point {
	return p.Add(r.Rect.Min)
}

// Size returns the region's width and height.
func (r Region) Size() image.Point {
	return r.Rect.Size()
}

// Layout is the result of a LayoutBuilder.
type Layout struct {
	TermW, TermH int
	Regions      map[string]Region
}

// Get returns the named region, or a zero Region.
func (l Layout) Get(name string) Region {
	return l.Regions[name]
}

// LayoutBuilder carves fixed strips off the edges of the free area, in
// call order. Strips never overlap; once the free area is exhausted
// further strips are empty.
type LayoutBuilder struct {
	termW, termH int
	free         image.Rectangle
	regions      []Region
}

// NewLayoutBuilder starts with the whole termW x termH screen free.
func NewLayoutBuilder(termW, termH int) *LayoutBuilder {
	return &LayoutBuilder{
		termW: termW,
		termH: termH,
		free:  image.Rect(0, 0, max(termW, 0), max(termH, 0)),
	}
}

func (b *LayoutBuilder) carve(name string, strip image.Rectangle) *LayoutBuilder {
	strip = strip.Intersect(b.free)
	b.regions = append(b.regions, Region{Name: name, Rect: strip})
	return b
}

// TopFixed takes height rows from the top of the free area.
func (b *LayoutBuilder) TopFixed(name string, height int) *LayoutBuilder {
	f := b.free
	b.carve(name, image.Rect(f.Min.X, f.Min.Y, f.Max.X, f.Min.Y+height))
	b.free.Min.Y = min(f.Max.Y, f.Min.Y+height)
	return b
}

// BottomFixed takes height rows from the bottom of the free area.
func (b *LayoutBuilder) BottomFixed(name string, height int) *LayoutBuilder {
	f := b.free
	b.carve(name, image.Rect(f.Min.X, f.Max.Y-height, f.Max.X, f.Max.Y))
	b.free.Max.Y = max(f.Min.Y, f.Max.Y-height)
	return b
}

// LeftFixed takes width columns from the left of the free area.
func (b *LayoutBuilder) LeftFixed(name string, width int) *LayoutBuilder {
	f := b.free
	b.carve(name, image.Rect(f.Min.X, f.Min.Y, f.Min.X+width, f.Max.Y))
	b.free.Min.X = min(f.Max.X, f.Min.X+width)
	return b
}

// RightFixed takes width columns from the right of the free area.
func (b *LayoutBuilder) RightFixed(name string, width int) *LayoutBuilder {
	f := b.free
	b.carve(name, image.Rect(f.Max.X-width, f.Min.Y, f.Max.X, f.Max.Y))
	b.free.Max.X = max(f.Min.X, f.Max.X-width)
	return b
}

// Remaining names whatever is still free.
func (b *LayoutBuilder) Remaining(name string) *LayoutBuilder {
	return b.carve(name, b.free)
}

// Build returns the layout. Empty regions are normalized to the zero
// rectangle.
func (b *LayoutBuilder) Build() Layout {
	l := Layout{
		TermW:   b.termW,
		TermH:   b.termH,
		Regions: make(map[string]Region, len(b.regions)),
	}
	for _, r := range b.regions {
		if r.Rect.Empty() {
			r.Rect = image.Rectangle{}
		}
		l.Regions[r.Name] = r
	}
	return l
}

// Package cellbuf is a fixed-size grid of styled runes that renders to a
// lipgloss-styled string.
//
// Cells carry a StyleKey instead of a lipgloss.Style; the caller maps keys
// to styles at render time, so one buffer can be drawn under any palette.
// Runes are assumed to be one column wide.
package cellbuf

import "image"

// StyleKey identifies a visual style.
type StyleKey int

// Cell is a single character with its style.
type Cell struct {
	Ch    rune
	Style StyleKey
}

// Buffer is a W x H grid of cells stored row-major.
type Buffer struct {
	W, H  int
	cells []Cell
}

// New creates a buffer of blanks in style bg. Negative sizes are treated
// as zero.
func New(w, h int, bg StyleKey) *Buffer {
	w, h = max(w, 0), max(h, 0)
	b := &Buffer{W: w, H: h, cells: make([]Cell, w*h)}
	b.Fill(bg)
	return b
}

// Bounds returns the rectangle covered by the buffer.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// InBounds reports whether (x, y) is a cell of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// At returns the cell at (x, y), or a zero Cell outside the buffer.
func (b *Buffer) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.W+x]
}

// Row returns row y. The slice aliases the buffer.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.H {
		return nil
	}
	return b.cells[y*b.W : (y+1)*b.W]
}

// Set writes one cell; writes outside the buffer are dropped.
func (b *Buffer) Set(x, y int, ch rune, style StyleKey) {
	if b.InBounds(x, y) {
		b.cells[y*b.W+x] = Cell{Ch: ch, Style: style}
	}
}

// SetString writes s from (x, y) rightwards, one rune per cell, clipping
// at the buffer edge.
func (b *Buffer) SetString(x, y int, s string, style StyleKey) {
	for _, ch := range s {
		b.Set(x, y, ch, style)
		x++
	}
}

// Fill blanks the whole buffer in style.
func (b *Buffer) Fill(style StyleKey) {
	b.FillRect(b.Bounds(), ' ', style)
}

// FillRect writes ch into every cell of r that lies inside the buffer.
func (b *Buffer) FillRect(r image.Rectangle, ch rune, style StyleKey) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = Cell{Ch: ch, Style: style}
		}
	}
}

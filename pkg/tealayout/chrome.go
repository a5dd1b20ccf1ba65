package tealayout

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ModalZ is the Z of ModalLayer; callers may raise it further.
const ModalZ = 100

// place wraps rendered content in a layer at (x, y).
func place(content string, x, y, z int, id string) *lipgloss.Layer {
	return lipgloss.NewLayer(content).X(x).Y(y).Z(z).ID(id)
}

// block is h lines of w spaces.
func block(w, h int) string {
	return strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", w)+"\n", h), "\n")
}

// ToolbarLayer is a full-width bar on row 0.
func ToolbarLayer(content string, width int, style lipgloss.Style) *lipgloss.Layer {
	return place(style.Width(width).Render(content), 0, 0, 0, "toolbar")
}

// FooterLayer is a full-width bar on row y.
func FooterLayer(content string, width, y int, style lipgloss.Style) *lipgloss.Layer {
	return place(style.Width(width).Render(content), 0, y, 0, "footer")
}

// VerticalSeparator is a column of │ starting at (x, y).
func VerticalSeparator(x, y, height int, style lipgloss.Style) *lipgloss.Layer {
	col := strings.TrimSuffix(strings.Repeat("│\n", max(height, 0)), "\n")
	return place(style.Render(col), x, y, 0, "separator")
}

// ModalLayer renders content in boxStyle and centers it on a termW x termH
// screen at ModalZ.
func ModalLayer(content string, termW, termH int, boxStyle lipgloss.Style) *lipgloss.Layer {
	box := boxStyle.Render(content)
	x := max(0, (termW-lipgloss.Width(box))/2)
	y := max(0, (termH-lipgloss.Height(box))/2)
	return place(box, x, y, ModalZ, "modal")
}

// FillLayer paints region r in style, for backgrounds.
func FillLayer(r Region, style lipgloss.Style, id string, z int) *lipgloss.Layer {
	w, h := r.Rect.Dx(), r.Rect.Dy()
	if w <= 0 || h <= 0 {
		return place("", r.Rect.Min.X, r.Rect.Min.Y, z, id)
	}
	return place(style.Render(block(w, h)), r.Rect.Min.X, r.Rect.Min.Y, z, id)
}

// SectionStyles are the styles of a titled panel section. They should
// share one background so padding blends in.
type SectionStyles struct {
	Title lipgloss.Style
	Rule  lipgloss.Style
	Pad   lipgloss.Style
}

// SectionLayer renders title, a rule and lines into exactly height rows
// of width columns, cutting or padding as needed.
func SectionLayer(id, title string, lines []string, x, y, width, height int, st SectionStyles) *lipgloss.Layer {
	height = max(height, 0)
	rows := make([]string, height)
	src := append([]string{
		st.Title.Render(title),
		st.Rule.Render(strings.Repeat("─", max(0, width-2))),
	}, lines...)
	for i := range rows {
		var l string
		if i < len(src) {
			l = src[i]
		}
		rows[i] = PadLine(l, width, st.Pad)
	}
	return place(strings.Join(rows, "\n"), x, y, 1, id)
}

// PadLine right-pads an already styled string to width visible columns.
func PadLine(s string, width int, pad lipgloss.Style) string {
	if n := width - lipgloss.Width(s); n > 0 {
		s += pad.Render(strings.Repeat(" ", n))
	}
	return s
}

package cellbuf

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render returns the buffer as lines joined by "\n". Adjacent cells that
// share a StyleKey are rendered as one run with a single Style.Render call;
// keys missing from styles are written unstyled. An empty buffer renders
// as "".
func (b *Buffer) Render(styles map[StyleKey]lipgloss.Style) string {
	if b.W == 0 || b.H == 0 {
		return ""
	}

	var out strings.Builder
	run := make([]rune, 0, b.W)
	flush := func(key StyleKey) {
		if len(run) == 0 {
			return
		}
		if st, ok := styles[key]; ok {
			out.WriteString(st.Render(string(run)))
		} else {
			out.WriteString(string(run))
		}
		run = run[:0]
	}

	for y := range b.H {
		if y > 0 {
			out.WriteByte('\n')
		}
		row := b.Row(y)
		key := row[0].Style
		for _, c := range row {
			if c.Style != key {
				flush(key)
				key = c.Style
			}
			run = append(run, c.Ch)
		}
		flush(key)
	}
	return out.String()
}

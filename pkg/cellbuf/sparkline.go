package cellbuf

// sparkRunes are the eight block heights used by Sparkline, plus blank.
var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline draws one cell per value on row y starting at x, scaled so
// that maxValue fills a whole cell. When there are more values than width,
// the most recent (last) values are kept. Values are clamped to
// [0, maxValue].
func (b *Buffer) Sparkline(x, y, width int, values []int, maxValue int, style StyleKey) {
	if width <= 0 || maxValue <= 0 {
		return
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	top := len(sparkRunes) - 1
	for i, v := range values {
		v = max(0, min(v, maxValue))
		level := (v*top + maxValue/2) / maxValue
		if v > 0 && level == 0 {
			level = 1
		}
		b.Set(x+i, y, sparkRunes[level], style)
	}
}

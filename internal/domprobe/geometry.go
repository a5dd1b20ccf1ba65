package domprobe

import (
	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// snapshot is the decoded result of snapshotJS.
type snapshot struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Elements []elementRect `json:"elements"`
}

type elementRect struct {
	ID     int     `json:"id"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// geometry is the per-pass view of the page: tracked rects plus the parent
// links learned from hit chains.
type geometry struct {
	tracked []visibility.ID
	rects   map[visibility.ID]visibility.Rect
	vp      visibility.Size
	parents map[visibility.ID]visibility.ID
}

func newGeometry(s snapshot) *geometry {
	g := &geometry{
		tracked: make([]visibility.ID, 0, len(s.Elements)),
		rects:   make(map[visibility.ID]visibility.Rect, len(s.Elements)),
		vp:      visibility.Size{Width: s.Width, Height: s.Height},
		parents: make(map[visibility.ID]visibility.ID),
	}
	for _, e := range s.Elements {
		id := visibility.ID(e.ID)
		g.tracked = append(g.tracked, id)
		g.rects[id] = visibility.NewRect(e.Left, e.Top, e.Width, e.Height)
	}
	return g
}

// learn records the parent links of a hit chain and returns its topmost
// node.
func (g *geometry) learn(chain []int) visibility.HitResult {
	if len(chain) == 0 {
		return visibility.HitResult{}
	}
	for i := 0; i+1 < len(chain); i++ {
		g.parents[visibility.ID(chain[i])] = visibility.ID(chain[i+1])
	}
	return visibility.HitResult{ID: visibility.ID(chain[0]), OK: true}
}

// annotation is one buffered class/text update.
type annotation struct {
	id     visibility.ID
	inView bool
	text   string
}

// args encodes annotations for annotateJS.
func encodeAnnotations(items []annotation) [][]any {
	out := make([][]any, len(items))
	for i, a := range items {
		out[i] = []any{int(a.id), a.inView, a.text}
	}
	return out
}

// eventKind maps a page event name to a trigger kind; unknown names count
// as manual triggers.
func eventKind(name string) trigger.Kind {
	switch k := trigger.Kind(name); k {
	case trigger.Scroll, trigger.Resize, trigger.Drag, trigger.Settle:
		return k
	}
	return trigger.Manual
}

package visibility

import (
	"math"
	"strconv"
)

// DefaultViewThreshold is the fraction of sample points that must be
// visible for an element to count as in view.
const DefaultViewThreshold = 0.75

// Classification is the per-element outcome of a sampling pass.
type Classification struct {
	InView     bool
	Percentage int  // 0..100
	Sampled    bool // false when the element was rejected by the pre-filter
	Visible    int
	Total      int
}

// Classify turns a visible/total count into a classification. The
// threshold comparison is strict: exactly total*threshold visible points
// is not in view.
func Classify(visible, total int, threshold float64) Classification {
	if total <= 0 {
		return Classification{Sampled: true}
	}
	if visible < 0 {
		visible = 0
	}
	if visible > total {
		visible = total
	}
	return Classification{
		InView:     float64(visible) > float64(total)*threshold,
		Percentage: int(math.Round(float64(visible) * 100 / float64(total))),
		Sampled:    true,
		Visible:    visible,
		Total:      total,
	}
}

// Label is the text shown on an element for its classification.
func (c Classification) Label() string {
	if !c.Sampled {
		return ""
	}
	return strconv.Itoa(c.Percentage) + "%"
}


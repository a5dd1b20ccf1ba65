package peekui

import (
	"image"
	"testing"

	"github.com/wesen/viewpeek/pkg/visibility"
)

func TestNodeLayerIDRoundTrip(t *testing.T) {
	for _, id := range []int{0, 7, 1499} {
		got, ok := parseNodeLayerID(nodeLayerID(visibility.ID(id)))
		if !ok || int(got) != id {
			t.Errorf("round trip %d: got %d %v", id, got, ok)
		}
	}
	for _, s := range []string{"", "canvas", "node-", "node-x", "options"} {
		if _, ok := parseNodeLayerID(s); ok {
			t.Errorf("%q parsed as a node", s)
		}
	}
}

func TestBoxRunes(t *testing.T) {
	g := boxRunes(4, 3, '░')
	want := []string{"┌──┐", "│░░│", "└──┘"}
	for y, row := range want {
		if string(g[y]) != row {
			t.Errorf("row %d: expected %q, got %q", y, row, string(g[y]))
		}
	}
	thin := boxRunes(3, 1, 'x')
	if string(thin[0]) != "xxx" {
		t.Errorf("one-row box: got %q", string(thin[0]))
	}
}

func TestCropRunes(t *testing.T) {
	g := boxRunes(4, 3, ' ')
	if got := cropRunes(g, image.Rect(2, 1, 4, 3)); got != " │\n─┘" {
		t.Errorf("crop: got %q", got)
	}
	if got := cropRunes(textRunes("81%", 4, 1), image.Rect(0, 0, 4, 1)); got != "81% " {
		t.Errorf("text: got %q", got)
	}
}

func TestNodeLayersClipped(t *testing.T) {
	f := newFixture(t)
	f.m.Cam.ScrollBy(image.Pt(10, 0))
	canvas := f.m.layout().Get("canvas").Rect
	for _, l := range buildNodeLayers(f.m, canvas) {
		if l.GetX() < canvas.Min.X || l.GetY() < canvas.Min.Y {
			t.Errorf("layer %s at (%d,%d) outside canvas %v", l.GetID(), l.GetX(), l.GetY(), canvas)
		}
	}
}

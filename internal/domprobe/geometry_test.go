package domprobe

import (
	"testing"

	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

func TestNewGeometry(t *testing.T) {
	g := newGeometry(snapshot{
		Width:  800,
		Height: 600,
		Elements: []elementRect{
			{ID: 4, Left: 10, Top: 20, Width: 100, Height: 50},
			{ID: 9, Left: -5, Top: 0, Width: 10, Height: 10},
		},
	})
	if len(g.tracked) != 2 || g.tracked[0] != 4 || g.tracked[1] != 9 {
		t.Fatalf("tracked: %v", g.tracked)
	}
	r := g.rects[4]
	if r.Left != 10 || r.Top != 20 || r.Right != 110 || r.Bottom != 70 {
		t.Errorf("rect 4: %+v", r)
	}
	if g.vp != (visibility.Size{Width: 800, Height: 600}) {
		t.Errorf("viewport: %+v", g.vp)
	}
}

func TestLearnChains(t *testing.T) {
	g := newGeometry(snapshot{})
	if res := g.learn(nil); res.OK {
		t.Error("empty chain reported a hit")
	}
	res := g.learn([]int{12, 7, 3})
	if !res.OK || res.ID != 12 {
		t.Fatalf("hit: %+v", res)
	}
	if g.parents[12] != 7 || g.parents[7] != 3 {
		t.Errorf("parents: %v", g.parents)
	}
	if _, ok := g.parents[3]; ok {
		t.Error("chain end got a parent")
	}
}

func TestProbeAncestorWalkFromChains(t *testing.T) {
	// Label span 12 inside tracked div 7 inside body 3.
	p := &Probe{geo: newGeometry(snapshot{})}
	p.geo.learn([]int{12, 7, 3})
	if !visibility.IsSelfOrAncestor(p, 12, 7) {
		t.Error("label hit does not resolve to its element")
	}
	if visibility.IsSelfOrAncestor(p, 12, 5) {
		t.Error("unrelated element matched")
	}
}

func TestAnnotateBuffers(t *testing.T) {
	p := &Probe{}
	p.Annotate(3, visibility.Classify(13, 16, visibility.DefaultViewThreshold))
	p.Annotate(5, visibility.Classification{})
	items := encodeAnnotations(p.pending)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0][0] != 3 || items[0][1] != true || items[0][2] != "81%" {
		t.Errorf("item 0: %v", items[0])
	}
	if items[1][1] != false || items[1][2] != "" {
		t.Errorf("item 1: %v", items[1])
	}
}

func TestHitWithoutPassLatches(t *testing.T) {
	p := &Probe{}
	if res := p.TopmostAtAll(nil); res != nil {
		t.Errorf("expected nil, got %v", res)
	}
	if p.Err() != ErrNoPage {
		t.Errorf("expected ErrNoPage, got %v", p.Err())
	}
	if _, ok := p.TopmostAt(1, 1); ok {
		t.Error("hit without a page")
	}
}

func TestEventKind(t *testing.T) {
	tests := []struct {
		in   string
		want trigger.Kind
	}{
		{"scroll", trigger.Scroll},
		{"resize", trigger.Resize},
		{"drag", trigger.Drag},
		{"settle", trigger.Settle},
		{"wheel", trigger.Manual},
	}
	for _, tt := range tests {
		if got := eventKind(tt.in); got != tt.want {
			t.Errorf("eventKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

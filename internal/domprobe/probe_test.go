package domprobe

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/wesen/viewpeek/pkg/visibility"
)

const testPage = `<!doctype html>
<html><body style="margin:0">
<div id="a" data-tracking style="position:absolute;left:0;top:0;width:400px;height:400px;background:#c33"><span class="label"></span></div>
<div id="b" data-tracking style="position:absolute;left:420px;top:0;width:200px;height:200px;background:#3c3"><span class="label"></span></div>
<div id="cover" style="position:absolute;left:420px;top:0;width:200px;height:200px;background:#33c"></div>
</body></html>`

// openTestProbe skips unless a local Chrome can be launched.
func openTestProbe(t *testing.T, ctx context.Context) *Probe {
	t.Helper()
	if testing.Short() {
		t.Skip("browser test skipped in -short mode")
	}
	if _, has := launcher.LookPath(); !has {
		t.Skip("no local browser found")
	}
	p, err := Open(ctx, Config{Headless: true, Viewport: image.Pt(800, 600)})
	if err != nil {
		t.Skipf("no usable browser: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestProbeEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer ts.Close()

	p := openTestProbe(t, ctx)
	if err := p.Navigate(ctx, ts.URL); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	s := visibility.NewSampler(visibility.DefaultOptions(), visibility.NewHistory(0), nil)
	rep, err := p.Pass(ctx, s)
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if rep.Tracked != 2 || len(rep.Results) != 2 {
		t.Fatalf("expected 2 sampled elements, got %+v", rep)
	}

	a, b := rep.Results[0], rep.Results[1]
	if a.Visible != 16 || a.Total != 16 || !a.InView {
		t.Errorf("a: expected 16/16 in view, got %+v", a.Classification)
	}
	if b.Visible != 0 || b.InView {
		t.Errorf("b: expected fully covered, got %+v", b.Classification)
	}

	res, err := p.page.Eval(`() => [document.getElementById("a").className, document.querySelector("#a .label").textContent]`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	var got [2]string
	if err := res.Value.Unmarshal(&got); err != nil {
		t.Fatal(err)
	}
	if got[0] != "inview" || got[1] != "100%" {
		t.Errorf("annotation: class=%q label=%q", got[0], got[1])
	}
}

package scenario

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dop251/goja"

	"github.com/wesen/viewpeek/internal/config"
	"github.com/wesen/viewpeek/pkg/visibility"
)

func run(t *testing.T, src string) *Runner {
	t.Helper()
	r := New(config.Default(), nil)
	if err := r.Run(context.Background(), "test.js", src); err != nil {
		t.Fatalf("run: %v", err)
	}
	return r
}

// ── Sampling ──

func TestUnobstructedElementIsFullyVisible(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		var a = add(0, 0, 400, 400);
		wait(20);
		var v = visibility(a);
		assert(v.visible === 16 && v.total === 16, "visible " + v.visible + "/" + v.total);
		assert(v.percentage === 100, "percentage " + v.percentage);
		assert(v.inView, "not in view");
		assert(v.label === "100%", "label " + v.label);
	`)
	if got := r.Sampler.Passes(); got != 1 {
		t.Errorf("passes = %d, want 1", got)
	}
	rep, ok := r.Last()
	if !ok {
		t.Fatal("no report")
	}
	if rep.Candidates != 1 {
		t.Errorf("candidates = %d, want 1", rep.Candidates)
	}
}

func TestCoveredSiblingIsNotVisible(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		var a = add(0, 0, 400, 400);
		var b = add(0, 0, 400, 400);
		var rep = sample();
		assert(rep.results.length === 2, "results " + rep.results.length);
		var v = visibility(a);
		assert(v.visible === 0 && v.percentage === 0, "a visible " + v.visible);
		assert(!v.inView, "a in view");
		assert(visibility(b).percentage === 100, "b not fully visible");
		assert(rep.inView.length === 1 && rep.inView[0] === b, "inView " + rep.inView);
	`)
	if len(r.Reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(r.Reports))
	}
}

func TestThrottleLeadingEdge(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		add(0, 0, 400, 400);
		wait(1000);
		var before = passes();
		scroll(0, 10); wait(50);
		scroll(0, 10); wait(50);
		scroll(0, 10); wait(50);
		scroll(0, 10); wait(100);
		scroll(0, 10); wait(50);
		assert(passes() - before === 2, "passes " + (passes() - before));
	`)
	st := r.Gate.Stats()
	if st.Fired != 3 || st.Dropped != 3 {
		t.Errorf("fired/dropped = %d/%d, want 3/3", st.Fired, st.Dropped)
	}
	if got := r.Elapsed().Milliseconds(); got != 1300 {
		t.Errorf("elapsed = %dms, want 1300", got)
	}
}

func TestDragUncoversAndSettles(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		var a = add(0, 0, 400, 400);
		var b = add(0, 0, 400, 400);
		wait(20);
		assert(visibility(a).percentage === 0, "a visible before drag");

		assert(press(10, 10) === b, "press did not pick b");
		move(510, 10);
		release();
		wait(20);

		assert(bounds(b).x === 500, "b at " + bounds(b).x);
		assert(visibility(a).percentage === 100, "a " + visibility(a).percentage);
		var vb = visibility(b);
		assert(vb.visible === 12 && vb.percentage === 75, "b " + vb.visible);
		assert(!vb.inView, "75% must not be in view");
	`)
	st := r.Gate.Stats()
	if st.Dropped != 1 {
		t.Errorf("dropped = %d, want 1 (drag inside throttle window)", st.Dropped)
	}
	if st.Last != "settle" {
		t.Errorf("last = %q, want settle", st.Last)
	}
	if got := r.Sampler.Passes(); got != 2 {
		t.Errorf("passes = %d, want 2", got)
	}
}

func TestPressOnEmptySpace(t *testing.T) {
	run(t, `
		viewport(100, 100);
		add(50, 50, 10, 10);
		assert(press(5, 5) === -1, "press hit something");
		assert(!move(20, 20), "move without press");
		assert(!release(), "release without press");
	`)
}

func TestHistoryAndForget(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		var a = add(0, 0, 400, 400);
		sample();
		wait(300);
		scroll(0, 100);
		wait(20);
		var h = history(a);
		assert(h.length === 3, "history " + h.length);
		assert(h[0].at === 0 && h[1].at === 16, "resize frame at " + h[1].at);
		assert(h[2].at === 316, "scroll frame at " + h[2].at);
		remove(a);
		assert(history(a).length === 0, "history kept after remove");
		assert(visibility(a) === null, "removed element still visible");
	`)
	if r.Sampler.History().Elements() != 0 {
		t.Errorf("history elements = %d, want 0", r.Sampler.History().Elements())
	}
}

func TestConfigure(t *testing.T) {
	r := run(t, `
		viewport(800, 600);
		var a = add(0, 0, 400, 400);
		configure({sampleDistance: 200, keepPoints: true});
		sample();
		assert(visibility(a).total === 4, "total " + visibility(a).total);
	`)
	opts := r.Sampler.Options()
	if opts.SampleDistance != 200 || !opts.KeepPoints {
		t.Errorf("options = %+v", opts)
	}
	if opts.ViewThreshold != visibility.DefaultViewThreshold {
		t.Errorf("view threshold changed to %v", opts.ViewThreshold)
	}
	rep, _ := r.Last()
	if len(rep.Results) != 1 || len(rep.Results[0].Points) != 4 {
		t.Errorf("points not kept: %+v", rep.Results)
	}
}

func TestGenerate(t *testing.T) {
	r := run(t, `
		var ids = generate(5, 7);
		assert(ids.length === 5, "ids " + ids.length);
	`)
	if got := len(r.Scene.Tracked()); got != 5 {
		t.Errorf("tracked = %d, want 5", got)
	}
	if r.View.Scene != r.Scene {
		t.Error("view not rebound to the generated scene")
	}
}

func TestLog(t *testing.T) {
	r := run(t, `log("passes", passes(), true);`)
	if len(r.Output) != 1 || r.Output[0] != "passes 0 true" {
		t.Errorf("output = %q", r.Output)
	}
}

// ── Errors ──

func TestAssertFailure(t *testing.T) {
	r := New(nil, nil)
	err := r.Run(context.Background(), "fail.js", `assert(1 === 2, "boom");`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *ScriptError", err)
	}
	if se.Script != "fail.js" {
		t.Errorf("script = %q", se.Script)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not mention the message", err)
	}
}

func TestSyntaxError(t *testing.T) {
	r := New(nil, nil)
	err := r.Run(context.Background(), "bad.js", `viewport(`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *ScriptError", err)
	}
}

func TestCancelInterrupts(t *testing.T) {
	r := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, "loop.js", `while (true) {}`)
	var ie *goja.InterruptedError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want interrupt", err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.js")
	if err := os.WriteFile(path, []byte(`viewport(10, 10); log("ok");`), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(nil, nil)
	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if len(r.Output) != 1 {
		t.Errorf("output = %q", r.Output)
	}

	err := r.RunFile(context.Background(), filepath.Join(dir, "missing.js"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

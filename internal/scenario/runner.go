// Package scenario runs scripted interaction sessions against an in-memory
// scene using Goja (JS runtime). Time is virtual: wait() advances a manual
// clock and runs the frames that fall due, so throttle behavior is
// reproducible.
package scenario

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/wesen/viewpeek/internal/config"
	"github.com/wesen/viewpeek/pkg/interact"
	"github.com/wesen/viewpeek/pkg/scene"
	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// epoch is the virtual start time of every run.
var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// ScriptError wraps an exception or interrupt raised by a script.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("scenario: %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Runner executes scenario scripts. It is not safe for concurrent use.
type Runner struct {
	Scene   *scene.Scene
	View    *scene.View
	Sampler *visibility.Sampler
	Gate    *trigger.Gate
	Clock   *trigger.ManualClock
	Output  []string
	Reports []visibility.Report

	FrameInterval time.Duration

	cfg     *config.Config
	history *visibility.History
	drag    interact.DragSession[visibility.ID]
	frameAt time.Time
	runtime *goja.Runtime
	logger  *slog.Logger
}

// New creates a runner with an empty, unbounded scene and a zero-sized
// viewport. cfg supplies sampler and trigger settings.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	clock := trigger.NewManualClock(epoch)
	history := visibility.NewHistory(cfg.Sampler.HistoryCapacity)

	sampler := visibility.NewSampler(cfg.SamplerOptions(), history, logger)
	sampler.SetClock(clock.Now)
	gate := trigger.NewGate(cfg.Trigger.Throttle)
	gate.SetClock(clock.Now)

	r := &Runner{
		Sampler:       sampler,
		Gate:          gate,
		Clock:         clock,
		FrameInterval: cfg.Trigger.FrameInterval,
		cfg:           cfg,
		history:       history,
		runtime:       goja.New(),
		logger:        logger.With("session", sampler.Session()),
	}
	if r.FrameInterval <= 0 {
		r.FrameInterval = trigger.DefaultFrameInterval
	}
	r.setScene(scene.New(image.Point{}))
	r.register()
	return r
}

func (r *Runner) setScene(s *scene.Scene) {
	var size image.Point
	if r.View != nil {
		size = r.View.Size
	}
	for _, id := range r.trackedIDs() {
		r.history.Forget(id)
	}
	s.OnRemove(r.history.Forget)
	r.Scene = s
	r.View = scene.NewView(s, size)
}

func (r *Runner) trackedIDs() []visibility.ID {
	if r.Scene == nil {
		return nil
	}
	return r.Scene.Tracked()
}

// RunFile reads and runs a script from disk.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scenario: read: %w", err)
	}
	return r.Run(ctx, path, string(src))
}

// Run executes src. Cancelling ctx interrupts the script.
func (r *Runner) Run(ctx context.Context, name, src string) error {
	stop := context.AfterFunc(ctx, func() { r.runtime.Interrupt(ctx.Err()) })
	defer stop()
	defer r.runtime.ClearInterrupt()

	r.logger.Debug("scenario: run", "script", name)
	if _, err := r.runtime.RunScript(name, src); err != nil {
		return &ScriptError{Script: name, Err: err}
	}
	return nil
}

// Elapsed returns the virtual time since the start of the run.
func (r *Runner) Elapsed() time.Duration { return r.Clock.Elapsed(epoch) }

// Last returns the most recent report.
func (r *Runner) Last() (visibility.Report, bool) {
	if len(r.Reports) == 0 {
		return visibility.Report{}, false
	}
	return r.Reports[len(r.Reports)-1], true
}

// ── Frames ──

func (r *Runner) fire(kind trigger.Kind) {
	if r.Gate.Fire(kind) {
		r.frameAt = r.Clock.Now().Add(r.FrameInterval)
	}
}

func (r *Runner) force(kind trigger.Kind) {
	if r.Gate.Force(kind) {
		r.frameAt = r.Clock.Now().Add(r.FrameInterval)
	}
}

// advance moves the clock to until, running every frame that falls due.
func (r *Runner) advance(until time.Time) {
	for r.Gate.Pending() && !r.frameAt.After(until) {
		if d := r.frameAt.Sub(r.Clock.Now()); d > 0 {
			r.Clock.Advance(d)
		}
		r.frame()
	}
	if d := until.Sub(r.Clock.Now()); d > 0 {
		r.Clock.Advance(d)
	}
}

func (r *Runner) frame() bool {
	if !r.Gate.TakeFrame() {
		return false
	}
	r.pass()
	return true
}

func (r *Runner) pass() visibility.Report {
	rep := r.Sampler.Pass(r.View, r.View, r.View)
	r.Reports = append(r.Reports, rep)
	return rep
}

// ── JS bindings ──

func (r *Runner) register() {
	vm := r.runtime
	bindings := map[string]any{
		"viewport":   r.jsViewport,
		"add":        r.jsAdd,
		"overlay":    r.jsOverlay,
		"child":      r.jsChild,
		"remove":     r.jsRemove,
		"raise":      r.jsRaise,
		"generate":   r.jsGenerate,
		"scroll":     r.jsScroll,
		"press":      r.jsPress,
		"move":       r.jsMove,
		"release":    r.jsRelease,
		"wait":       r.jsWait,
		"frame":      r.jsFrame,
		"sample":     r.jsSample,
		"bounds":     r.jsBounds,
		"visibility": r.jsVisibility,
		"history":    r.jsHistory,
		"passes":     func() int { return int(r.Sampler.Passes()) },
		"now":        func() int64 { return r.Elapsed().Milliseconds() },
		"stats":      r.jsStats,
		"configure":  r.jsConfigure,
		"log":        r.jsLog,
		"assert":     r.jsAssert,
	}
	for name, fn := range bindings {
		vm.Set(name, fn)
	}
}

func (r *Runner) jsViewport(w, h int) {
	if r.View.Resize(image.Pt(w, h)) {
		r.fire(trigger.Resize)
	}
}

func (r *Runner) jsAdd(x, y, w, h int, color string) int {
	if color == "" {
		color = "#7aa2f7"
	}
	return int(r.Scene.AddTracked(image.Rect(x, y, x+w, y+h), color))
}

func (r *Runner) jsOverlay(x, y, w, h int) int {
	return int(r.Scene.AddOverlay(image.Rect(x, y, x+w, y+h), "#444444"))
}

func (r *Runner) jsChild(parent, x, y, w, h int) int {
	return int(r.Scene.AddChild(visibility.ID(parent), image.Rect(x, y, x+w, y+h)))
}

func (r *Runner) jsRemove(id int) { r.Scene.Remove(visibility.ID(id)) }

func (r *Runner) jsRaise(id int) { r.Scene.Raise(visibility.ID(id)) }

// jsGenerate replaces the scene with a random one; count and seed override
// the configured values when positive.
func (r *Runner) jsGenerate(count int, seed int64) []int {
	gc := r.cfg.Generate()
	if count > 0 {
		gc.Count = count
	}
	if seed > 0 {
		gc.Seed = uint64(seed)
	}
	r.setScene(scene.Generate(gc))
	ids := r.Scene.Tracked()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (r *Runner) jsScroll(dx, dy int) bool {
	if !r.View.ScrollBy(image.Pt(dx, dy)) {
		return false
	}
	r.fire(trigger.Scroll)
	return true
}

// jsPress starts a drag on the tracked element under the viewport point
// and returns its ID, or -1 when nothing draggable is there.
func (r *Runner) jsPress(x, y int) int {
	hit, ok := r.View.TopmostAt(x, y)
	if !ok {
		return -1
	}
	owner, ok := r.Scene.Owner(hit)
	if !ok {
		return -1
	}
	r.drag.Begin(owner, image.Pt(x, y))
	return int(owner)
}

func (r *Runner) jsMove(x, y int) bool {
	delta, id, ok := r.drag.Move(image.Pt(x, y))
	if !ok {
		return false
	}
	if delta != (image.Point{}) {
		r.Scene.Move(id, delta)
	}
	r.fire(trigger.Drag)
	return true
}

func (r *Runner) jsRelease() bool {
	if _, ok := r.drag.End(); !ok {
		return false
	}
	r.force(trigger.Settle)
	return true
}

func (r *Runner) jsWait(ms int) {
	r.advance(r.Clock.Now().Add(time.Duration(ms) * time.Millisecond))
}

// jsFrame runs the pending frame now, advancing the clock to its due time.
func (r *Runner) jsFrame() bool {
	if !r.Gate.Pending() {
		return false
	}
	if d := r.frameAt.Sub(r.Clock.Now()); d > 0 {
		r.Clock.Advance(d)
	}
	return r.frame()
}

// jsSample runs a pass immediately, outside the gate.
func (r *Runner) jsSample() map[string]any {
	return reportObject(r.pass())
}

func (r *Runner) jsBounds(id int) any {
	e := r.Scene.Element(visibility.ID(id))
	if e == nil {
		return nil
	}
	v := e.Bounds.Sub(r.View.Origin)
	return map[string]any{"x": v.Min.X, "y": v.Min.Y, "width": v.Dx(), "height": v.Dy()}
}

func (r *Runner) jsVisibility(id int) any {
	return classificationObject(r.Scene.Element(visibility.ID(id)))
}

func (r *Runner) jsHistory(id int) []map[string]any {
	recs := r.history.Records(visibility.ID(id))
	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		out[i] = map[string]any{
			"at":         rec.At.Sub(epoch).Milliseconds(),
			"percentage": rec.Percentage,
		}
	}
	return out
}

func (r *Runner) jsStats() map[string]any {
	st := r.Gate.Stats()
	return map[string]any{
		"fired":     st.Fired,
		"coalesced": st.Coalesced,
		"dropped":   st.Dropped,
		"frames":    st.Frames,
		"last":      string(st.Last),
	}
}

// jsConfigure changes sampler options for later passes. Missing keys keep
// their current value.
func (r *Runner) jsConfigure(opts map[string]any) {
	o := r.Sampler.Options()
	if v, ok := number(opts["sampleDistance"]); ok {
		o.SampleDistance = v
	}
	if v, ok := number(opts["viewThreshold"]); ok {
		o.ViewThreshold = v
	}
	if v, ok := number(opts["coverageThreshold"]); ok {
		o.CoverageThreshold = v
	}
	if v, ok := opts["coverageFilter"].(bool); ok {
		o.CoverageFilter = v
	}
	if v, ok := opts["keepPoints"].(bool); ok {
		o.KeepPoints = v
	}
	r.Sampler.SetOptions(o)
}

func (r *Runner) jsLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	line := strings.Join(parts, " ")
	r.Output = append(r.Output, line)
	r.logger.Info("scenario: log", "t", r.Elapsed(), "msg", line)
	return goja.Undefined()
}

func (r *Runner) jsAssert(cond bool, msg string) {
	if cond {
		return
	}
	if msg == "" {
		msg = "assertion failed"
	}
	panic(r.runtime.NewGoError(fmt.Errorf("assert: %s", msg)))
}

// ── Conversions ──

func classificationObject(e *scene.Element) any {
	if e == nil || !e.Tracked {
		return nil
	}
	c := e.Classification
	return map[string]any{
		"inView":     c.InView,
		"percentage": c.Percentage,
		"sampled":    c.Sampled,
		"visible":    c.Visible,
		"total":      c.Total,
		"label":      c.Label(),
	}
}

func reportObject(rep visibility.Report) map[string]any {
	results := make([]map[string]any, len(rep.Results))
	for i, res := range rep.Results {
		results[i] = map[string]any{
			"id":         int(res.ID),
			"inView":     res.InView,
			"percentage": res.Percentage,
			"visible":    res.Visible,
			"total":      res.Total,
		}
	}
	inView := rep.InView()
	ids := make([]int, len(inView))
	for i, id := range inView {
		ids[i] = int(id)
	}
	return map[string]any{
		"seq":        int64(rep.Seq),
		"tracked":    rep.Tracked,
		"candidates": rep.Candidates,
		"inView":     ids,
		"results":    results,
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

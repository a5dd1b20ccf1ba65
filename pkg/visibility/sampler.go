package visibility

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultCoverageThreshold is the viewport overlap (percent) an element
// needs before it is sampled at all.
const DefaultCoverageThreshold = 50

// Source supplies fresh geometry at the start of every pass.
type Source interface {
	// Tracked returns the elements to evaluate, in a stable order.
	Tracked() []ID
	// BoundingRect returns the current rectangle of id in viewport
	// coordinates.
	BoundingRect(id ID) Rect
	// ViewportSize returns the current viewport size.
	ViewportSize() Size
}

// Annotator receives the classification of each tracked element. It
// is the renderer's "set class / set text" side.
type Annotator interface {
	Annotate(id ID, c Classification)
}

// AnnotatorFunc adapts a function to Annotator.
type AnnotatorFunc func(id ID, c Classification)

// Annotate implements Annotator.
func (f AnnotatorFunc) Annotate(id ID, c Classification) { f(id, c) }

// Options tune a Sampler.
type Options struct {
	SampleDistance    float64 // spacing between sample points
	ViewThreshold     float64 // fraction of visible points needed to be in view
	CoverageThreshold float64 // minimum viewport overlap (percent) to be sampled
	CoverageFilter    bool    // apply the overlap gate on top of InViewport
	KeepPoints        bool    // keep per-point outcomes in the report
}

// DefaultOptions returns a 100px grid, a 0.75 threshold and the coverage filter on.
func DefaultOptions() Options {
	return Options{
		SampleDistance:    DefaultSampleDistance,
		ViewThreshold:     DefaultViewThreshold,
		CoverageThreshold: DefaultCoverageThreshold,
		CoverageFilter:    true,
	}
}

// defaults replaces out-of-range values; the negated comparisons also
// catch NaN.
func (o *Options) defaults() {
	if !(o.SampleDistance > 0) || math.IsInf(o.SampleDistance, 1) {
		o.SampleDistance = DefaultSampleDistance
	}
	if !(o.ViewThreshold > 0 && o.ViewThreshold <= 1) {
		o.ViewThreshold = DefaultViewThreshold
	}
	if !(o.CoverageThreshold > 0 && o.CoverageThreshold <= 100) {
		o.CoverageThreshold = DefaultCoverageThreshold
	}
}

// Result is the outcome of one element in a pass.
type Result struct {
	ID ID
	Rect
	Classification
	Points []PointSample // only with Options.KeepPoints
}

// Report summarizes a pass.
type Report struct {
	Session    string
	Seq        uint64
	At         time.Time
	Viewport   Size
	Tracked    int
	Candidates int
	Results    []Result // sampled elements only, in Tracked order
	Elapsed    time.Duration
}

// Lookup returns the result of id, if it was sampled.
func (r Report) Lookup(id ID) (Result, bool) {
	for _, res := range r.Results {
		if res.ID == id {
			return res, true
		}
	}
	return Result{}, false
}

// InView returns the IDs classified in view.
func (r Report) InView() []ID {
	var ids []ID
	for _, res := range r.Results {
		if res.InView {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// Sampler runs sampling passes. It is not safe for concurrent use.
type Sampler struct {
	opts    Options
	history *History
	logger  *slog.Logger
	now     func() time.Time
	session string
	seq     uint64
}

// NewSampler creates a Sampler. history may be nil to disable recording;
// a nil logger discards output.
func NewSampler(opts Options, history *History, logger *slog.Logger) *Sampler {
	opts.defaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		opts:    opts,
		history: history,
		logger:  logger,
		now:     time.Now,
		session: uuid.NewString(),
	}
}

// SetClock replaces the time source used for history records.
func (s *Sampler) SetClock(now func() time.Time) { s.now = now }

// Options returns the current options.
func (s *Sampler) Options() Options { return s.opts }

// SetOptions replaces the options. Zero numeric fields get defaults.
func (s *Sampler) SetOptions(opts Options) {
	opts.defaults()
	s.opts = opts
}

// History returns the store passes append to (may be nil).
func (s *Sampler) History() *History { return s.history }

// Session identifies this sampler in logs and reports.
func (s *Sampler) Session() string { return s.session }

// Passes returns how many passes have run.
func (s *Sampler) Passes() uint64 { return s.seq }

// Pass evaluates every tracked element once. Elements rejected by the
// viewport pre-filter are annotated as not sampled and not in view; the
// others are sampled, classified, annotated and recorded. out may be nil.
func (s *Sampler) Pass(src Source, hit HitTester, out Annotator) Report {
	start := time.Now()
	s.seq++

	vp := src.ViewportSize()
	tracked := src.Tracked()
	rep := Report{
		Session:  s.session,
		Seq:      s.seq,
		At:       s.now(),
		Viewport: vp,
		Tracked:  len(tracked),
	}

	type candidate struct {
		id   ID
		rect Rect
	}
	candidates := make([]candidate, 0, len(tracked))
	for _, id := range tracked {
		r := src.BoundingRect(id)
		if s.admit(r, vp) {
			candidates = append(candidates, candidate{id, r})
			continue
		}
		if out != nil {
			out.Annotate(id, Classification{})
		}
	}
	rep.Candidates = len(candidates)

	s.logger.Debug("visibility: sampling", "session", s.session, "seq", s.seq, "elements", len(candidates))

	rep.Results = make([]Result, 0, len(candidates))
	for _, c := range candidates {
		pts := SampleGrid(c.rect, s.opts.SampleDistance)
		visible, samples := CountVisible(c.id, pts, vp, hit)
		cls := Classify(visible, len(pts), s.opts.ViewThreshold)

		res := Result{ID: c.id, Rect: c.rect, Classification: cls}
		if s.opts.KeepPoints {
			res.Points = samples
		}
		rep.Results = append(rep.Results, res)

		if out != nil {
			out.Annotate(c.id, cls)
		}
		if s.history != nil {
			s.history.Append(c.id, Record{At: rep.At, Percentage: cls.Percentage})
		}
	}

	rep.Elapsed = time.Since(start)
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "visibility: pass",
		slog.Uint64("seq", s.seq),
		slog.Int("tracked", rep.Tracked),
		slog.Int("candidates", rep.Candidates),
		slog.Int("in_view", len(rep.InView())),
		slog.Duration("elapsed", rep.Elapsed),
	)
	return rep
}

func (s *Sampler) admit(r Rect, vp Size) bool {
	if !InViewport(r, vp) {
		return false
	}
	if s.opts.CoverageFilter && !SubstantiallyInViewport(r, vp, s.opts.CoverageThreshold) {
		return false
	}
	return true
}

// Package domprobe samples element visibility in a real browser page.
// Geometry comes from getBoundingClientRect, hit tests from
// document.elementFromPoint and the results are written back into the
// page as an "inview" class and a percentage label.
package domprobe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// Config configures the browser used by a Probe.
type Config struct {
	// Remote is the DevTools WebSocket URL of an external Chrome.
	// Empty launches a local Chrome via launcher.
	Remote   string
	Headless bool
	// Stealth opens the tab through go-rod/stealth.
	Stealth  bool
	Viewport image.Point
	Timeout  time.Duration
	// Selector picks the tracked elements.
	Selector string
	Logger   *slog.Logger
}

func (c *Config) defaults() {
	if c.Viewport.X <= 0 || c.Viewport.Y <= 0 {
		c.Viewport = image.Pt(1280, 800)
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Selector == "" {
		c.Selector = "[data-tracking]"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// ErrNoPage is returned when a pass runs before Navigate.
var ErrNoPage = errors.New("domprobe: no page loaded")

// Probe drives one browser tab. It implements visibility.Source,
// visibility.BatchHitTester and visibility.Annotator for the duration of
// a pass. It is not safe for concurrent use.
type Probe struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page

	cur     *rod.Page // page bound to the context of the running pass
	geo     *geometry
	pending []annotation
	err     error
}

// Open launches or connects to Chrome and opens a tab with the configured
// viewport.
func Open(ctx context.Context, cfg Config) (*Probe, error) {
	cfg.defaults()
	log := cfg.Logger
	p := &Probe{cfg: cfg}

	wsURL := cfg.Remote
	if wsURL == "" {
		l := launcher.New().Context(ctx).Headless(cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("domprobe: launch: %w", err)
		}
		wsURL = u
		p.lnch = l
		log.Info("domprobe: launched local chrome", "url", wsURL, "headless", cfg.Headless)
	} else {
		log.Info("domprobe: connecting to remote", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		p.cleanup()
		return nil, fmt.Errorf("domprobe: connect: %w", err)
	}
	p.browser = b

	var page *rod.Page
	var err error
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("domprobe: create tab: %w", err)
	}
	p.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Viewport.X,
		Height:            cfg.Viewport.Y,
		DeviceScaleFactor: 1,
	}); err != nil {
		p.Close()
		return nil, fmt.Errorf("domprobe: set viewport: %w", err)
	}
	return p, nil
}

// Navigate loads url and waits until the page client reports ready.
func (p *Probe) Navigate(ctx context.Context, url string) error {
	if p.page == nil {
		return ErrNoPage
	}
	navCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	page := p.page.Context(navCtx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("domprobe: navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		p.cfg.Logger.Warn("domprobe: wait load", "url", url, "error", err)
	}
	for {
		res, err := page.Eval(readyJS)
		if err != nil {
			return fmt.Errorf("domprobe: wait ready: %w", err)
		}
		if res.Value.Bool() {
			return nil
		}
		select {
		case <-navCtx.Done():
			return fmt.Errorf("domprobe: wait ready: %w", navCtx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Pass refreshes the geometry, runs one sampling pass and writes the
// classifications back into the page. Browser errors during hit tests are
// counted as misses and reported by the returned error.
func (p *Probe) Pass(ctx context.Context, s *visibility.Sampler) (visibility.Report, error) {
	if p.page == nil {
		return visibility.Report{}, ErrNoPage
	}
	p.cur = p.page.Context(ctx)
	p.err = nil
	defer func() { p.cur = nil }()

	if err := p.refresh(); err != nil {
		return visibility.Report{}, err
	}
	rep := s.Pass(p, p, p)
	if err := p.flush(); err != nil && p.err == nil {
		p.err = err
	}
	return rep, p.err
}

// Err returns the first browser error of the last pass.
func (p *Probe) Err() error { return p.err }

// ScrollBy scrolls the page window. The page client records a scroll
// event that Watch picks up.
func (p *Probe) ScrollBy(ctx context.Context, dx, dy int) (image.Point, error) {
	if p.page == nil {
		return image.Point{}, ErrNoPage
	}
	res, err := p.page.Context(ctx).Eval(scrollJS, dx, dy)
	if err != nil {
		return image.Point{}, fmt.Errorf("domprobe: scroll: %w", err)
	}
	var pos [2]float64
	if err := res.Value.Unmarshal(&pos); err != nil {
		return image.Point{}, fmt.Errorf("domprobe: scroll: %w", err)
	}
	return image.Pt(int(pos[0]), int(pos[1])), nil
}

// Watch drains page events every frame interval, feeds them through gate
// and runs a pass on every frame the gate grants. It returns when ctx is
// done or a pass fails.
func (p *Probe) Watch(ctx context.Context, s *visibility.Sampler, gate *trigger.Gate, frame time.Duration, onReport func(visibility.Report)) error {
	if frame <= 0 {
		frame = trigger.DefaultFrameInterval
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		// The frame requested on the previous tick runs first.
		if gate.TakeFrame() {
			rep, err := p.Pass(ctx, s)
			if err != nil {
				return err
			}
			if onReport != nil {
				onReport(rep)
			}
		}

		events, err := p.drain(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, name := range events {
			kind := eventKind(name)
			if kind == trigger.Settle {
				gate.Force(kind)
			} else {
				gate.Fire(kind)
			}
		}
	}
}

// Close closes the tab and the browser it launched.
func (p *Probe) Close() error {
	var err error
	if p.page != nil {
		err = p.page.Close()
		p.page = nil
	}
	p.cleanup()
	return err
}

func (p *Probe) cleanup() {
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			p.cfg.Logger.Debug("domprobe: close browser", "error", err)
		}
		p.browser = nil
	}
	if p.lnch != nil {
		p.lnch.Kill()
		p.lnch.Cleanup()
		p.lnch = nil
	}
}

// ── Page round trips ──

func (p *Probe) refresh() error {
	res, err := p.cur.Eval(snapshotJS, p.cfg.Selector)
	if err != nil {
		return fmt.Errorf("domprobe: snapshot: %w", err)
	}
	var snap snapshot
	if err := res.Value.Unmarshal(&snap); err != nil {
		return fmt.Errorf("domprobe: snapshot: %w", err)
	}
	p.geo = newGeometry(snap)
	return nil
}

func (p *Probe) flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	items := encodeAnnotations(p.pending)
	p.pending = p.pending[:0]
	if _, err := p.cur.Eval(annotateJS, items); err != nil {
		return fmt.Errorf("domprobe: annotate: %w", err)
	}
	return nil
}

func (p *Probe) drain(ctx context.Context) ([]string, error) {
	res, err := p.page.Context(ctx).Eval(drainJS)
	if err != nil {
		return nil, fmt.Errorf("domprobe: drain events: %w", err)
	}
	var events []string
	if err := res.Value.Unmarshal(&events); err != nil {
		return nil, fmt.Errorf("domprobe: drain events: %w", err)
	}
	return events, nil
}

func (p *Probe) latch(err error) {
	if p.err == nil {
		p.err = err
	}
}

// ── visibility.Source ──

func (p *Probe) Tracked() []visibility.ID {
	if p.geo == nil {
		return nil
	}
	return p.geo.tracked
}

func (p *Probe) BoundingRect(id visibility.ID) visibility.Rect {
	if p.geo == nil {
		return visibility.Rect{}
	}
	return p.geo.rects[id]
}

func (p *Probe) ViewportSize() visibility.Size {
	if p.geo == nil {
		return visibility.Size{}
	}
	return p.geo.vp
}

// ── visibility.BatchHitTester ──

func (p *Probe) TopmostAt(x, y int) (visibility.ID, bool) {
	res := p.TopmostAtAll([]image.Point{{X: x, Y: y}})
	if len(res) == 0 {
		return 0, false
	}
	return res[0].ID, res[0].OK
}

func (p *Probe) TopmostAtAll(pts []image.Point) []visibility.HitResult {
	if p.cur == nil || p.geo == nil {
		p.latch(ErrNoPage)
		return nil
	}
	args := make([][2]int, len(pts))
	for i, pt := range pts {
		args[i] = [2]int{pt.X, pt.Y}
	}
	res, err := p.cur.Eval(hitsJS, args)
	if err != nil {
		p.latch(fmt.Errorf("domprobe: hit test: %w", err))
		return nil
	}
	var chains [][]int
	if err := res.Value.Unmarshal(&chains); err != nil {
		p.latch(fmt.Errorf("domprobe: hit test: %w", err))
		return nil
	}
	out := make([]visibility.HitResult, len(chains))
	for i, chain := range chains {
		out[i] = p.geo.learn(chain)
	}
	return out
}

func (p *Probe) Parent(id visibility.ID) (visibility.ID, bool) {
	if p.geo == nil {
		return 0, false
	}
	parent, ok := p.geo.parents[id]
	return parent, ok
}

// ── visibility.Annotator ──

// Annotate buffers the update; Pass writes all of them in one round trip.
func (p *Probe) Annotate(id visibility.ID, c visibility.Classification) {
	p.pending = append(p.pending, annotation{id: id, inView: c.InView, text: c.Label()})
}

// Command viewpeek estimates how much of each draggable box is actually
// visible, by point sampling and hit testing.
//
// Usage:
//
//	viewpeek [tui] [-config viewpeek.yaml] [-log-file viewpeek.log]
//	viewpeek serve [-config viewpeek.yaml]
//	viewpeek probe [-url http://localhost:1317/] [-scroll 400] [-watch]
//	viewpeek run scenario.js
//	viewpeek snapshot [-width 120] [-height 40]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/internal/config"
	"github.com/wesen/viewpeek/internal/domprobe"
	"github.com/wesen/viewpeek/internal/peekui"
	"github.com/wesen/viewpeek/internal/scenario"
	"github.com/wesen/viewpeek/internal/server"
	"github.com/wesen/viewpeek/pkg/scene"
	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	logLevel   string
	logFile    string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to viewpeek.yaml config file")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&c.logFile, "log-file", "", "write logs to this file instead of stderr")
}

func main() {
	cmd, args := "tui", os.Args[1:]
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "viewpeek %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "tui":
		return runTUI(args)
	case "serve":
		return runServe(ctx, args)
	case "probe":
		return runProbe(ctx, args)
	case "run":
		return runScenario(ctx, args)
	case "snapshot":
		return runSnapshot(args)
	default:
		return fmt.Errorf("unknown command %q (want tui, serve, probe, run or snapshot)", cmd)
	}
}

// setup parses fs and returns the configuration and logger. The returned
// closer releases the log file, if any.
func setup(fs *flag.FlagSet, c *common, args []string, quiet bool) (*config.Config, *slog.Logger, func(), error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(c.configPath); err != nil {
			return nil, nil, nil, err
		}
	}

	var level slog.Level
	switch c.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case c.logFile != "":
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case quiet:
		// The terminal UI owns stderr.
		w = io.Discard
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, closer, nil
}

// ── tui ──

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	var c common
	c.register(fs)
	cfg, logger, closeLog, err := setup(fs, &c, args, true)
	if err != nil {
		return err
	}
	defer closeLog()

	p := tea.NewProgram(peekui.NewModel(cfg, logger))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// ── serve ──

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var c common
	c.register(fs)
	addr := fs.String("addr", "", "listen address (overrides server.addr)")
	cfg, logger, closeLog, err := setup(fs, &c, args, false)
	if err != nil {
		return err
	}
	defer closeLog()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	srv, err := server.New(cfg.Server.Addr, server.NewSceneDoc(scene.Generate(cfg.PageScene())), logger)
	if err != nil {
		return err
	}
	logger.Info("serve: scene", "elements", cfg.Server.Count, "seed", cfg.Scene.Seed)
	return srv.Run(ctx)
}

// ── probe ──

func runProbe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	var c common
	c.register(fs)
	url := fs.String("url", "", "page to sample; empty serves the generated scene on a loopback port")
	scroll := fs.Int("scroll", 0, "scroll the page vertically by this many pixels before sampling")
	watch := fs.Bool("watch", false, "open a visible browser and keep sampling on scroll, resize and drag until interrupted")
	cfg, logger, closeLog, err := setup(fs, &c, args, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if *url == "" {
		u, stopServer, err := serveLoopback(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stopServer()
		*url = u
	}

	headless := cfg.Browser.Headless == nil || *cfg.Browser.Headless
	if *watch {
		headless = false
	}
	p, err := domprobe.Open(ctx, domprobe.Config{
		Remote:   cfg.Browser.Remote,
		Headless: headless,
		Stealth:  cfg.Browser.Stealth,
		Viewport: image.Pt(cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight),
		Timeout:  cfg.Browser.Timeout,
		Selector: cfg.Browser.Selector,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Navigate(ctx, *url); err != nil {
		return err
	}
	if *scroll != 0 {
		if _, err := p.ScrollBy(ctx, 0, *scroll); err != nil {
			return err
		}
	}

	history := visibility.NewHistory(cfg.Sampler.HistoryCapacity)
	sampler := visibility.NewSampler(cfg.SamplerOptions(), history, logger)
	enc := json.NewEncoder(os.Stdout)

	rep, err := p.Pass(ctx, sampler)
	if err != nil {
		logger.Warn("probe: pass incomplete", "error", err)
	}
	if !*watch {
		enc.SetIndent("", "  ")
		return enc.Encode(newReportDoc(rep))
	}

	if err := enc.Encode(newReportDoc(rep)); err != nil {
		return err
	}
	gate := trigger.NewGate(cfg.Trigger.Throttle)
	return p.Watch(ctx, sampler, gate, cfg.Trigger.FrameInterval, func(rep visibility.Report) {
		if err := enc.Encode(newReportDoc(rep)); err != nil {
			logger.Warn("probe: write report", "error", err)
		}
	})
}

// serveLoopback starts the page server on an ephemeral loopback port and
// returns its URL.
func serveLoopback(ctx context.Context, cfg *config.Config, logger *slog.Logger) (string, func(), error) {
	srv, err := server.New("", server.NewSceneDoc(scene.Generate(cfg.PageScene())), logger)
	if err != nil {
		return "", nil, err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			logger.Warn("probe: page server", "error", err)
		}
	}()
	stop := func() {
		cancel()
		<-done
	}
	return "http://" + ln.Addr().String() + "/", stop, nil
}

// ── run ──

func runScenario(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var c common
	c.register(fs)
	cfg, logger, closeLog, err := setup(fs, &c, args, false)
	if err != nil {
		return err
	}
	defer closeLog()
	if fs.NArg() != 1 {
		return errors.New("usage: viewpeek run [flags] SCRIPT.js")
	}

	r := scenario.New(cfg, logger)
	runErr := r.RunFile(ctx, fs.Arg(0))
	for _, line := range r.Output {
		fmt.Println(line)
	}
	if runErr != nil {
		return runErr
	}

	st := r.Gate.Stats()
	logger.Info("run: done",
		"script", fs.Arg(0),
		"virtual", r.Elapsed(),
		"passes", r.Sampler.Passes(),
		"fired", st.Fired,
		"dropped", st.Dropped,
		"coalesced", st.Coalesced,
	)
	if rep, ok := r.Last(); ok {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(newReportDoc(rep))
	}
	return nil
}

// ── snapshot ──

// runSnapshot prints one sampled frame of the terminal renderer, for
// checking styling without an interactive terminal.
func runSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	var c common
	c.register(fs)
	width := fs.Int("width", 120, "terminal width")
	height := fs.Int("height", 40, "terminal height")
	cfg, logger, closeLog, err := setup(fs, &c, args, false)
	if err != nil {
		return err
	}
	defer closeLog()

	m := peekui.NewModel(cfg, logger)
	fmt.Println(m.Snapshot(*width, *height))

	inView := 0
	for _, id := range m.Scene.Tracked() {
		if m.Scene.Element(id).InView() {
			inView++
		}
	}
	legend := lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	fmt.Println(legend.Render(fmt.Sprintf("  passes=%d  in view=%d/%d  solid=in view  shaded=hidden",
		m.Sampler.Passes(), inView, len(m.Scene.Tracked()))))
	return nil
}

// ── Report output ──

type reportDoc struct {
	Session    string      `json:"session"`
	Seq        uint64      `json:"seq"`
	At         time.Time   `json:"at"`
	Viewport   [2]float64  `json:"viewport"`
	Tracked    int         `json:"tracked"`
	Candidates int         `json:"candidates"`
	InView     int         `json:"in_view"`
	Elapsed    string      `json:"elapsed"`
	Results    []resultDoc `json:"results"`
}

type resultDoc struct {
	ID         int     `json:"id"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Visible    int     `json:"visible"`
	Total      int     `json:"total"`
	Percentage int     `json:"percentage"`
	InView     bool    `json:"in_view"`
}

func newReportDoc(rep visibility.Report) reportDoc {
	doc := reportDoc{
		Session:    rep.Session,
		Seq:        rep.Seq,
		At:         rep.At,
		Viewport:   [2]float64{rep.Viewport.Width, rep.Viewport.Height},
		Tracked:    rep.Tracked,
		Candidates: rep.Candidates,
		InView:     len(rep.InView()),
		Elapsed:    rep.Elapsed.String(),
		Results:    make([]resultDoc, 0, len(rep.Results)),
	}
	for _, res := range rep.Results {
		doc.Results = append(doc.Results, resultDoc{
			ID:         int(res.ID),
			Left:       res.Left,
			Top:        res.Top,
			Width:      res.Width,
			Height:     res.Height,
			Visible:    res.Visible,
			Total:      res.Total,
			Percentage: res.Percentage,
			InView:     res.InView,
		})
	}
	return doc
}

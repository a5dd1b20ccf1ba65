// Package peekui is the terminal renderer: a scrollable canvas of
// draggable boxes whose visibility is re-sampled after every scroll,
// resize and drag.
package peekui

import (
	"image"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/viewpeek/internal/config"
	"github.com/wesen/viewpeek/pkg/interact"
	"github.com/wesen/viewpeek/pkg/scene"
	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// Model is the main application state.
type Model struct {
	Width, Height  int
	MouseX, MouseY int

	Scene   *scene.Scene
	Cam     *scene.View // canvas-sized window onto the scene
	Sampler *visibility.Sampler
	Gate    *trigger.Gate
	Report  visibility.Report

	HitMode       string
	FrameInterval time.Duration

	// Selection and drag state
	SelectedID   visibility.ID
	HasSelection bool
	Drag         interact.DragSession[visibility.ID]
	DragStart    image.Rectangle // world bounds when the drag began

	// Options modal state
	opts optionsModal

	logger *slog.Logger
}

// frameMsg is the frame callback requested after an accepted trigger.
type frameMsg struct{}

// NewModel creates a model over a scene generated from cfg.
func NewModel(cfg *config.Config, logger *slog.Logger) Model {
	return NewModelWithScene(cfg, scene.Generate(cfg.Generate()), logger)
}

// NewModelWithScene creates a model over an existing scene.
func NewModelWithScene(cfg *config.Config, s *scene.Scene, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	history := visibility.NewHistory(cfg.Sampler.HistoryCapacity)
	s.OnRemove(history.Forget)

	return Model{
		Scene:         s,
		Cam:           scene.NewView(s, image.Point{}),
		Sampler:       visibility.NewSampler(cfg.SamplerOptions(), history, logger),
		Gate:          trigger.NewGate(cfg.Trigger.Throttle),
		HitMode:       cfg.TUI.HitMode,
		FrameInterval: cfg.Trigger.FrameInterval,
		logger:        logger,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// requestFrame schedules the frame callback that runs the pass.
func (m Model) requestFrame() tea.Cmd {
	return tea.Tick(m.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// fire sends kind through the gate and returns a frame request when
// the gate accepted it.
func (m Model) fire(kind trigger.Kind) tea.Cmd {
	if m.Gate.Fire(kind) {
		return m.requestFrame()
	}
	return nil
}

// force bypasses the throttle; used for the settle pass and explicit
// resampling.
func (m Model) force(kind trigger.Kind) tea.Cmd {
	if m.Gate.Force(kind) {
		return m.requestFrame()
	}
	return nil
}

// runPass evaluates every tracked element against the current scene.
func (m *Model) runPass() {
	m.Report = m.Sampler.Pass(m.Cam, m.hitTester(), m.Cam)
}

// hitTester returns the hit tester for the configured mode.
func (m Model) hitTester() visibility.HitTester {
	if m.HitMode == config.HitModeCompositor {
		return newCompositorHits(m)
	}
	return m.Cam
}

// Selected returns the selected element, or nil.
func (m Model) Selected() *scene.Element {
	if !m.HasSelection {
		return nil
	}
	return m.Scene.Element(m.SelectedID)
}

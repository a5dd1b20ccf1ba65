// Package config loads viewpeek configuration from a YAML file.
package config

import (
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesen/viewpeek/pkg/scene"
	"github.com/wesen/viewpeek/pkg/trigger"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// Config is the top-level configuration.
type Config struct {
	Sampler SamplerConfig `yaml:"sampler"`
	Trigger TriggerConfig `yaml:"trigger"`
	Scene   SceneConfig   `yaml:"scene"`
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	TUI     TUIConfig     `yaml:"tui"`
}

// SamplerConfig tunes the visibility pass.
type SamplerConfig struct {
	SampleDistance    float64 `yaml:"sample_distance"`
	ViewThreshold     float64 `yaml:"view_threshold"`     // fraction, strict >
	CoverageThreshold float64 `yaml:"coverage_threshold"` // percent, strict >
	CoverageFilter    *bool   `yaml:"coverage_filter"`
	HistoryCapacity   int     `yaml:"history_capacity"`
	KeepPoints        bool    `yaml:"keep_points"`
}

// TriggerConfig controls pass scheduling.
type TriggerConfig struct {
	Throttle      time.Duration `yaml:"throttle"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// SceneConfig describes the generated scene.
type SceneConfig struct {
	Count       int    `yaml:"count"`
	Seed        uint64 `yaml:"seed"`
	WorldWidth  int    `yaml:"world_width"`
	WorldHeight int    `yaml:"world_height"`
	MinWidth    int    `yaml:"min_width"`
	MinHeight   int    `yaml:"min_height"`
	MaxWidth    int    `yaml:"max_width"`
	MaxHeight   int    `yaml:"max_height"`
}

// ServerConfig controls the static page server.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Count int    `yaml:"count"` // elements on the page
	Scale int    `yaml:"scale"` // CSS pixels per scene cell
}

// BrowserConfig controls the Chrome used by the probe.
type BrowserConfig struct {
	Remote         string        `yaml:"remote"` // DevTools URL; empty launches a local browser
	Headless       *bool         `yaml:"headless"`
	Stealth        bool          `yaml:"stealth"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout"`
	Selector       string        `yaml:"selector"`
}

// TUIConfig controls the terminal renderer.
type TUIConfig struct {
	HitMode string `yaml:"hit_mode"` // scene | compositor
}

const (
	HitModeScene      = "scene"
	HitModeCompositor = "compositor"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sampler.SampleDistance <= 0 {
		c.Sampler.SampleDistance = visibility.DefaultSampleDistance
	}
	if c.Sampler.ViewThreshold <= 0 {
		c.Sampler.ViewThreshold = visibility.DefaultViewThreshold
	}
	if c.Sampler.CoverageThreshold <= 0 {
		c.Sampler.CoverageThreshold = visibility.DefaultCoverageThreshold
	}
	if c.Sampler.CoverageFilter == nil {
		c.Sampler.CoverageFilter = boolPtr(true)
	}
	if c.Sampler.HistoryCapacity <= 0 {
		c.Sampler.HistoryCapacity = visibility.DefaultHistoryCapacity
	}
	if c.Trigger.Throttle <= 0 {
		c.Trigger.Throttle = trigger.DefaultWindow
	}
	if c.Trigger.FrameInterval <= 0 {
		c.Trigger.FrameInterval = trigger.DefaultFrameInterval
	}
	if c.Scene.Count <= 0 {
		c.Scene.Count = 60
	}
	if c.Scene.Seed == 0 {
		c.Scene.Seed = 1
	}
	if c.Scene.WorldWidth <= 0 {
		c.Scene.WorldWidth = 240
	}
	if c.Scene.WorldHeight <= 0 {
		c.Scene.WorldHeight = 80
	}
	if c.Scene.MinWidth <= 0 {
		c.Scene.MinWidth = 8
	}
	if c.Scene.MinHeight <= 0 {
		c.Scene.MinHeight = 3
	}
	if c.Scene.MaxWidth < c.Scene.MinWidth {
		c.Scene.MaxWidth = max(c.Scene.MinWidth, 24)
	}
	if c.Scene.MaxHeight < c.Scene.MinHeight {
		c.Scene.MaxHeight = max(c.Scene.MinHeight, 8)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":1317"
	}
	if c.Server.Count <= 0 {
		c.Server.Count = 1500
	}
	if c.Server.Scale <= 0 {
		c.Server.Scale = 10
	}
	if c.Browser.Headless == nil {
		c.Browser.Headless = boolPtr(true)
	}
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1280
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 800
	}
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = 30 * time.Second
	}
	if c.Browser.Selector == "" {
		c.Browser.Selector = "[data-tracking]"
	}
	if c.TUI.HitMode == "" {
		c.TUI.HitMode = HitModeScene
	}
}

// Validate rejects values that have no sensible default.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sample_distance", c.Sampler.SampleDistance},
		{"view_threshold", c.Sampler.ViewThreshold},
		{"coverage_threshold", c.Sampler.CoverageThreshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("config: sampler.%s %v is not a finite number", f.name, f.v)
		}
	}
	if c.Sampler.ViewThreshold > 1 {
		return fmt.Errorf("config: sampler.view_threshold %v outside (0,1]", c.Sampler.ViewThreshold)
	}
	if c.Sampler.CoverageThreshold > 100 {
		return fmt.Errorf("config: sampler.coverage_threshold %v outside (0,100]", c.Sampler.CoverageThreshold)
	}
	if c.Scene.MaxWidth > c.Scene.WorldWidth || c.Scene.MaxHeight > c.Scene.WorldHeight {
		return fmt.Errorf("config: scene: max element size %dx%d exceeds world %dx%d",
			c.Scene.MaxWidth, c.Scene.MaxHeight, c.Scene.WorldWidth, c.Scene.WorldHeight)
	}
	switch c.TUI.HitMode {
	case HitModeScene, HitModeCompositor:
	default:
		return fmt.Errorf("config: tui.hit_mode %q: want %q or %q", c.TUI.HitMode, HitModeScene, HitModeCompositor)
	}
	return nil
}

// SamplerOptions converts the sampler section.
func (c *Config) SamplerOptions() visibility.Options {
	return visibility.Options{
		SampleDistance:    c.Sampler.SampleDistance,
		ViewThreshold:     c.Sampler.ViewThreshold,
		CoverageThreshold: c.Sampler.CoverageThreshold,
		CoverageFilter:    c.Sampler.CoverageFilter == nil || *c.Sampler.CoverageFilter,
		KeepPoints:        c.Sampler.KeepPoints,
	}
}

// Generate converts the scene section.
func (c *Config) Generate() scene.GenerateConfig {
	return scene.GenerateConfig{
		Count:   c.Scene.Count,
		Seed:    c.Scene.Seed,
		World:   image.Pt(c.Scene.WorldWidth, c.Scene.WorldHeight),
		MinSize: image.Pt(c.Scene.MinWidth, c.Scene.MinHeight),
		MaxSize: image.Pt(c.Scene.MaxWidth, c.Scene.MaxHeight),
	}
}

// PageScene converts the scene section for the browser page: the same seed
// and proportions, Server.Count elements, scaled to pixels.
func (c *Config) PageScene() scene.GenerateConfig {
	gc := c.Generate()
	gc.Count = c.Server.Count
	gc.World = gc.World.Mul(c.Server.Scale)
	gc.MinSize = gc.MinSize.Mul(c.Server.Scale)
	gc.MaxSize = gc.MaxSize.Mul(c.Server.Scale)
	return gc
}

func boolPtr(b bool) *bool { return &b }

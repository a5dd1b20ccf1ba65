package scene

import (
	"fmt"
	"image"
	"math/rand/v2"
)

// GenerateConfig describes a random scene of tracked elements.
type GenerateConfig struct {
	Count   int
	Seed    uint64
	World   image.Point
	MinSize image.Point
	MaxSize image.Point
}

// Generate builds a scene of Count tracked elements with random positions,
// sizes and colors. The same config always yields the same scene.
func Generate(cfg GenerateConfig) *Scene {
	s := New(cfg.World)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	span := func(lo, hi int) int {
		if hi <= lo {
			return max(lo, 1)
		}
		return lo + rng.IntN(hi-lo+1)
	}

	for range cfg.Count {
		w := span(cfg.MinSize.X, cfg.MaxSize.X)
		h := span(cfg.MinSize.Y, cfg.MaxSize.Y)
		x := rng.IntN(max(1, cfg.World.X-w+1))
		y := rng.IntN(max(1, cfg.World.Y-h+1))
		color := fmt.Sprintf("#%02x%02x%02x", 64+rng.IntN(160), 64+rng.IntN(160), 64+rng.IntN(160))
		s.AddTracked(image.Rect(x, y, x+w, y+h), color)
	}
	return s
}

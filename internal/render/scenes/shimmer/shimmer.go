// Package shimmer renders a sparkle field over the palette midpoint.
//
// Stateful animator: it owns a private random source whose lifetime matches
// the instance; the conductor resets state only by re-registering a fresh
// instance.
package shimmer

import (
	"math"
	"math/rand"

	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

type Scene struct {
	rng *rand.Rand
}

func New(seed int64) *Scene { return &Scene{rng: rand.New(rand.NewSource(seed))} }

func (s *Scene) Name() string { return "shimmer" }

func (s *Scene) Render(dst render.Frame, ctx *render.Context) error {
	base := ctx.PaletteAt(0.5)
	intensity := ctx.Param("intensity", 1.0)
	speed := ctx.Param("speed", 1.0)
	frame := float64(ctx.FrameIndex)

	for i := range dst {
		sparkle := s.rng.Float64()
		wave := (math.Sin(frame*0.05*speed+float64(i)*0.1) + 1) / 2
		level := (sparkle*0.7 + wave*0.3) * intensity
		if level > 1 {
			level = 1
		}
		dst[i] = render.RGB{
			R: uint8(float64(base.R) * level),
			G: uint8(float64(base.G) * level),
			B: uint8(float64(base.B) * level),
		}
	}
	return nil
}

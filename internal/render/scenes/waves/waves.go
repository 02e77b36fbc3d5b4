// Package waves renders interfering horizontal, vertical and diagonal wave
// components mapped through the configured palette.
//
// Parameters (all optional):
//
//	wave_count    number of simultaneous waves (default 3)
//	amplitude     wave amplitude multiplier (default 1.0)
//	phase_shift   phase offset between waves (default 0.5)
//	color_shift   speed of the hue drift (default 1.0)
//	interference  diagonal interference strength (default 0.3)
//	speed         time multiplier (default 1.0)
package waves

import (
	"math"

	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

type Scene struct{}

func New() *Scene { return &Scene{} }

func (s *Scene) Name() string { return "waves" }

func (s *Scene) Render(dst render.Frame, ctx *render.Context) error {
	count := int(ctx.Param("wave_count", 3))
	if count < 1 {
		count = 1
	}
	amp := ctx.Param("amplitude", 1.0)
	phaseShift := ctx.Param("phase_shift", 0.5)
	colorShift := ctx.Param("color_shift", 1.0)
	interference := ctx.Param("interference", 0.3)
	speed := ctx.Param("speed", 1.0)

	frame := float64(ctx.FrameIndex)
	hueOffset := math.Sin(frame*0.01*colorShift) * 0.3

	for y := 0; y < ctx.Height; y++ {
		for x := 0; x < ctx.Width; x++ {
			sum := 0.0
			for w := 0; w < count; w++ {
				freq := 0.2 + float64(w)*0.1
				phase := float64(w) * phaseShift * math.Pi
				h := math.Sin(float64(x)*freq + frame*0.02*speed + phase)
				v := math.Sin(float64(y)*freq + frame*0.03*speed + phase)
				d := math.Sin(float64(x+y)*freq*0.7 + frame*0.025*speed + phase)
				sum += (h + v + d*interference) / (2 + interference) * amp
			}
			pos := (sum/float64(count)+1)/2 + hueOffset
			dst[ctx.Index(x, y)] = ctx.PaletteAt(pos)
		}
	}
	return nil
}

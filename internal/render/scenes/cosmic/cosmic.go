// Package cosmic is the default animation: a flowing hue field with a slow
// per-pixel brightness swell.
package cosmic

import (
	"math"

	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

type Scene struct{}

func New() *Scene { return &Scene{} }

func (s *Scene) Name() string { return "cosmic" }

// Render paints hue = (frame*speed + i*360/count) with a sinusoidal
// brightness modulation. Output is pre-gamma; the driver applies correction.
func (s *Scene) Render(dst render.Frame, ctx *render.Context) error {
	speed := ctx.Param("speed", 1.0)
	n := len(dst)
	frame := float64(ctx.FrameIndex)
	for i := 0; i < n; i++ {
		hue := math.Mod(frame*speed+float64(i)*360.0/float64(n), 360.0) / 360.0
		swell := (math.Sin(frame*0.01+float64(i)*0.1) + 1) / 2
		dst[i] = render.HSVToRGB(hue, 1.0, swell)
	}
	return nil
}

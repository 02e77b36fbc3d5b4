package render

import (
	"github.com/fieldjoshua/LightBox-2.0/internal/config"
)

// RGB is one pixel, 8-bit per channel, pre-gamma and pre-brightness.
type RGB struct{ R, G, B uint8 }

// Frame is one full set of pixel values in raster order (y*width + x).
// Physical wiring (serpentine) is applied by the driver, not here.
type Frame []RGB

// Fill sets every pixel to c.
func (f Frame) Fill(c RGB) {
	for i := range f {
		f[i] = c
	}
}

// Clear zeroes the frame.
func (f Frame) Clear() { f.Fill(RGB{}) }

// Context is the read-only view an Animator renders against. It is rebuilt
// every cycle from the active Configuration snapshot; Animators must not
// retain it across calls.
type Context struct {
	// FrameIndex increments every rendered cycle and wraps at 2^64.
	FrameIndex uint64
	// Elapsed is seconds since the conductor started.
	Elapsed float64

	Width, Height int
	Brightness    float64
	Gamma         float64

	Cfg    *config.Config
	Tables *Tables
}

// Index maps matrix coordinates to the raster position in a Frame.
func (c *Context) Index(x, y int) int { return y*c.Width + x }

// Param returns a scene parameter from the active snapshot, or def.
func (c *Context) Param(name string, def float64) float64 {
	if c.Cfg == nil {
		return def
	}
	return c.Cfg.Param(name, def)
}

// PaletteAt interpolates the configured palette at pos in [0,1].
func (c *Context) PaletteAt(pos float64) RGB {
	if c.Cfg == nil {
		return RGB{}
	}
	return InterpolatePalette(c.Cfg.Palette, pos)
}

// Animator produces one frame of animation. Render mutates dst in place and
// must leave len(dst) unchanged; any returned error is treated as a single
// frame fault, not a stop condition. Animators are stateless unless their
// documentation says otherwise; stateful ones are reset on switch.
type Animator interface {
	Name() string
	Render(dst Frame, ctx *Context) error
}

// Registry maps animator names to instances. Discovery/loading is the
// caller's concern; the conductor only consumes the registry.
type Registry struct{ m map[string]Animator }

func NewRegistry() *Registry { return &Registry{m: map[string]Animator{}} }

func (r *Registry) Register(a Animator) {
	if a == nil {
		return
	}
	r.m[a.Name()] = a
}

func (r *Registry) Get(name string) (Animator, bool) { a, ok := r.m[name]; return a, ok }

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	return out
}

//go:build linux && cgo

package led

/*
#cgo LDFLAGS: -lrgbmatrix -lstdc++ -lm
#include <stdlib.h>
#include <led-matrix-c.h>

// The pulsing flag is a bitfield, which cgo cannot assign to directly.
static void opts_disable_hardware_pulsing(struct RGBLedMatrixOptions *o, int v) {
	o->disable_hardware_pulsing = v ? 1 : 0;
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// Panel drives a HUB75 scan panel through librgbmatrix. Update writes into
// an off-screen canvas and swaps it with the on-screen one at the hardware
// vertical sync; the swap is what prevents visible tearing and is never
// skipped while the matrix is live.
type Panel struct {
	matrix    *C.struct_RGBLedMatrix
	offscreen *C.struct_LedCanvas
	mapping   *C.char

	width, height int
	gamma         []uint16
	caps          Capabilities
	state         State
}

// NewPanel creates the matrix from the configured options. The capability
// probes run first; their results pick the timing mode but never fail
// construction.
func NewPanel(cfg *config.Config, tab *render.Tables) (*Panel, error) {
	caps := ProbeCapabilities()

	mapping := C.CString(cfg.Panel.HardwareMapping)

	var opts C.struct_RGBLedMatrixOptions
	opts.rows = C.int(cfg.Height)
	opts.cols = C.int(cfg.Width / maxInt(1, cfg.Panel.ChainLength))
	opts.chain_length = C.int(cfg.Panel.ChainLength)
	opts.parallel = C.int(cfg.Panel.Parallel)
	opts.pwm_bits = C.int(cfg.Panel.PWMBits)
	opts.brightness = C.int(int(cfg.Brightness * 100))
	opts.hardware_mapping = mapping
	opts.limit_refresh_rate_hz = C.int(cfg.Panel.LimitRefreshHz)
	if cfg.Panel.DisablePulsing || !caps.HardwarePulse {
		C.opts_disable_hardware_pulsing(&opts, 1)
	}

	var rt C.struct_RGBLedRuntimeOptions
	rt.gpio_slowdown = C.int(cfg.Panel.GPIOSlowdown)

	m := C.led_matrix_create_from_options_and_rt_options(&opts, &rt)
	if m == nil {
		C.free(unsafe.Pointer(mapping))
		return nil, fmt.Errorf("led_matrix_create failed (mapping %q)", cfg.Panel.HardwareMapping)
	}
	off := C.led_matrix_create_offscreen_canvas(m)
	if off == nil {
		C.led_matrix_delete(m)
		C.free(unsafe.Pointer(mapping))
		return nil, fmt.Errorf("offscreen canvas allocation failed")
	}

	log.Info().
		Bool("hardware_pulse", caps.HardwarePulse).
		Bool("isolated_core", caps.IsolatedCore).
		Int("pwm_bits", cfg.Panel.PWMBits).
		Msg("hub75 panel live")

	return &Panel{
		matrix:    m,
		offscreen: off,
		mapping:   mapping,
		width:     cfg.Width,
		height:    cfg.Height,
		gamma:     tab.Gamma(cfg),
		caps:      caps,
		state:     Live,
	}, nil
}

func (p *Panel) Update(f render.Frame) error {
	if p.state == ShutDown {
		return errShutDown
	}
	i := 0
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			if i >= len(f) {
				break
			}
			px := f[i]
			C.led_canvas_set_pixel(p.offscreen, C.int(x), C.int(y),
				C.uint8_t(p.gamma[px.R]), C.uint8_t(p.gamma[px.G]), C.uint8_t(p.gamma[px.B]))
			i++
		}
	}
	p.offscreen = C.led_matrix_swap_on_vsync(p.matrix, p.offscreen)
	return nil
}

func (p *Panel) SetBrightness(v float64) error {
	if p.state == ShutDown {
		return errShutDown
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("brightness %.3f outside [0,1]", v)
	}
	C.led_matrix_set_brightness(p.matrix, C.uint8_t(int(v*100)))
	return nil
}

func (p *Panel) Clear() error {
	if p.state == ShutDown {
		return errShutDown
	}
	C.led_canvas_clear(p.offscreen)
	p.offscreen = C.led_matrix_swap_on_vsync(p.matrix, p.offscreen)
	return nil
}

// Shutdown blanks and frees the matrix. Idempotent.
func (p *Panel) Shutdown() error {
	if p.state == ShutDown {
		return nil
	}
	p.state = ShutDown
	C.led_matrix_delete(p.matrix)
	p.matrix = nil
	p.offscreen = nil
	C.free(unsafe.Pointer(p.mapping))
	p.mapping = nil
	return nil
}

// Caps exposes the probed capabilities for the observability surface.
func (p *Panel) Caps() Capabilities { return p.caps }

func (p *Panel) State() State { return p.state }
func (p *Panel) String() string {
	return fmt.Sprintf("panel(%dx%d, %s)", p.width, p.height, p.state)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

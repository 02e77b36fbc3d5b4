package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/screen1d"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// Sim is the in-memory sink. It satisfies the full Driver contract with no
// hardware: frames are counted, and when console mode is on they are echoed
// as ANSI blocks. It also serves as the degraded fallback when a real
// backend loses its hardware.
type Sim struct {
	width, height int
	brightness    float64
	console       display.Drawer
	img           *image.NRGBA
	frames        uint64
	state         State
}

// NewSim builds the sink. console enables the terminal renderer; the
// degraded fallback path keeps it off to avoid spamming logs.
func NewSim(cfg *config.Config, console bool) *Sim {
	s := &Sim{
		width:      cfg.Width,
		height:     cfg.Height,
		brightness: cfg.Brightness,
		state:      Live,
	}
	if console {
		s.console = screen1d.New(&screen1d.Opts{X: cfg.Count()})
		s.img = image.NewNRGBA(s.console.Bounds())
	}
	return s
}

func (s *Sim) Update(f render.Frame) error {
	if s.state == ShutDown {
		return errShutDown
	}
	s.frames++
	if s.console == nil {
		return nil
	}
	b := s.img.Bounds()
	n := b.Dx()
	for i, px := range f {
		if i >= n {
			break
		}
		s.img.SetNRGBA(b.Min.X+i, b.Min.Y, color.NRGBA{
			R: uint8(float64(px.R) * s.brightness),
			G: uint8(float64(px.G) * s.brightness),
			B: uint8(float64(px.B) * s.brightness),
			A: 255,
		})
	}
	return s.console.Draw(b, s.img, image.Point{})
}

func (s *Sim) SetBrightness(v float64) error {
	if s.state == ShutDown {
		return errShutDown
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("brightness %.3f outside [0,1]", v)
	}
	s.brightness = v
	return nil
}

func (s *Sim) Clear() error {
	if s.state == ShutDown {
		return errShutDown
	}
	if s.console != nil {
		return s.console.Halt()
	}
	return nil
}

func (s *Sim) Shutdown() error {
	if s.state == ShutDown {
		return nil
	}
	s.state = ShutDown
	if s.console != nil {
		return s.console.Halt()
	}
	return nil
}

// NewDegradedSim is the fallback sink installed after a backend loses its
// hardware. Console output stays off; the loop just keeps running.
func NewDegradedSim(cfg *config.Config) *Sim {
	s := NewSim(cfg, false)
	s.state = Degraded
	return s
}

// Frames reports how many updates the sink has absorbed.
func (s *Sim) Frames() uint64 { return s.frames }

func (s *Sim) State() State { return s.state }
func (s *Sim) String() string { return fmt.Sprintf("sim(%dx%d, %s)", s.width, s.height, s.state) }

package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// Strip drives a WS281x addressable chain through an SPI-encoded NRZ
// stream. Update applies the gamma table and the serpentine index while
// writing into the device raster, then issues a single Draw (the hardware
// "show"). The chain latches the whole frame at once, so there is no
// tearing window.
type Strip struct {
	drawer     display.Drawer
	port       spi.PortCloser
	img        *image.NRGBA
	gamma      []uint16
	smap       []int
	brightness float64
	order      [3]int // raster channel position of R, G, B
	state      State
}

// NewStrip opens the configured SPI port and prepares the chain. Hardware
// probing failures surface as an error; the factory decides the fallback.
func NewStrip(cfg *config.Config, tab *render.Tables) (*Strip, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(cfg.Strip.Dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", cfg.Strip.Dev, err)
	}
	return NewStripFromPort(port, cfg, tab)
}

// NewStripFromPort builds the chain on an already-open SPI port. Split out
// so tests can feed a recorded port.
func NewStripFromPort(port spi.PortCloser, cfg *config.Config, tab *render.Tables) (*Strip, error) {
	opts := nrzled.Opts{
		NumPixels: cfg.Count(),
		Channels:  3,
		Freq:      physic.Frequency(cfg.Strip.SpeedHz) * physic.Hertz,
	}
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	s := &Strip{
		drawer:     dev,
		port:       port,
		img:        image.NewNRGBA(dev.Bounds()),
		gamma:      tab.Gamma(cfg),
		smap:       tab.Serpentine(cfg),
		brightness: cfg.Brightness,
		order:      channelOrder(cfg.Strip.ColorOrder),
		state:      Live,
	}
	return s, nil
}

func channelOrder(order string) [3]int {
	switch order {
	case "RGB":
		return [3]int{0, 1, 2}
	case "BRG":
		return [3]int{1, 2, 0}
	default: // GRB
		return [3]int{1, 0, 2}
	}
}

func (s *Strip) Update(f render.Frame) error {
	if s.state == ShutDown {
		return errShutDown
	}
	b := s.img.Bounds()
	for i, px := range f {
		if i >= len(s.smap) {
			break
		}
		chain := s.smap[i]
		var ch [3]uint8
		ch[s.order[0]] = s.corrected(px.R)
		ch[s.order[1]] = s.corrected(px.G)
		ch[s.order[2]] = s.corrected(px.B)
		s.img.SetNRGBA(b.Min.X+chain, b.Min.Y, color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255})
	}
	if err := s.drawer.Draw(b, s.img, image.Point{}); err != nil {
		return fmt.Errorf("strip draw: %w", err)
	}
	return nil
}

func (s *Strip) corrected(v uint8) uint8 {
	return uint8(float64(s.gamma[v]) * s.brightness)
}

func (s *Strip) SetBrightness(v float64) error {
	if s.state == ShutDown {
		return errShutDown
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("brightness %.3f outside [0,1]", v)
	}
	s.brightness = v
	return nil
}

func (s *Strip) Clear() error {
	if s.state == ShutDown {
		return errShutDown
	}
	return s.drawer.Halt()
}

// Shutdown blanks the chain and releases the SPI port. Idempotent.
func (s *Strip) Shutdown() error {
	if s.state == ShutDown {
		return nil
	}
	s.state = ShutDown
	_ = s.drawer.Halt()
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}

func (s *Strip) State() State { return s.state }
func (s *Strip) String() string { return fmt.Sprintf("strip(%d px, %s)", len(s.smap), s.state) }

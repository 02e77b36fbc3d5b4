//go:build !linux || !cgo

package led

import (
	"fmt"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// Panel requires librgbmatrix, which only exists on linux.
type Panel struct{}

func NewPanel(cfg *config.Config, tab *render.Tables) (*Panel, error) {
	return nil, fmt.Errorf("panel driver not supported on this platform")
}

func (p *Panel) Update(render.Frame) error       { return errShutDown }
func (p *Panel) SetBrightness(float64) error     { return errShutDown }
func (p *Panel) Clear() error                    { return errShutDown }
func (p *Panel) Shutdown() error                 { return nil }
func (p *Panel) Caps() Capabilities              { return Capabilities{} }
func (p *Panel) State() State                    { return ShutDown }
func (p *Panel) String() string                  { return "panel(unsupported)" }

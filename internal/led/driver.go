// Package led owns the matrix hardware backends. Exactly one Driver is live
// at a time; the conductor is the only caller of its methods.
package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/diagnostics"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// State tracks the driver lifecycle. ShutDown is terminal until a new
// driver is constructed.
type State int

const (
	Uninitialized State = iota
	Live
	Degraded
	ShutDown
)

func (s State) String() string {
	switch s {
	case Live:
		return "live"
	case Degraded:
		return "degraded"
	case ShutDown:
		return "shutdown"
	default:
		return "uninitialized"
	}
}

// Driver pushes rendered frames to one hardware backend. Frames arrive in
// raster order, pre-gamma and pre-brightness; each backend applies its own
// correction and buffering discipline. All methods must be called from the
// conductor goroutine only. Shutdown is idempotent and must complete before
// the same physical resource is reused.
type Driver interface {
	Update(f render.Frame) error
	SetBrightness(v float64) error
	Clear() error
	Shutdown() error
	State() State
	String() string
}

var errShutDown = fmt.Errorf("driver is shut down")

// New constructs the backend selected by cfg. When the preferred backend
// cannot reach its hardware the simulation sink is returned in Degraded
// state and a DriverDegraded flag is raised; the loop keeps running
// headless. New never returns a nil Driver without an error.
func New(cfg *config.Config, tab *render.Tables, board *diagnostics.Board) (Driver, error) {
	var (
		d   Driver
		err error
	)
	switch cfg.Backend {
	case config.BackendStrip:
		d, err = NewStrip(cfg, tab)
	case config.BackendPanel:
		d, err = NewPanel(cfg, tab)
	case config.BackendSim:
		if board != nil {
			board.Clear(diagnostics.CodeDriverDegraded)
		}
		return NewSim(cfg, cfg.SimConsole), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		log.Warn().Err(err).Str("backend", string(cfg.Backend)).
			Msg("backend unavailable, falling back to simulation sink")
		if board != nil {
			board.Raise(diagnostics.Diagnostic{
				Severity: diagnostics.Warn,
				Code:     diagnostics.CodeDriverDegraded,
				Summary:  "hardware backend unavailable",
				Detail:   err.Error(),
				Evidence: map[string]any{"backend": string(cfg.Backend)},
			})
		}
		return NewDegradedSim(cfg), nil
	}
	if board != nil {
		board.Clear(diagnostics.CodeDriverDegraded)
	}
	return d, nil
}

// hostInit runs periph host initialization once per process.
var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	return err
})

// Package app hosts the Conductor, the single goroutine that owns the
// render loop: acquire a buffer, run the active animator, hand the frame to
// the matrix driver, recycle the buffer, pace to the target interval, and
// apply pending control-plane changes strictly between frames.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/diagnostics"
	"github.com/fieldjoshua/LightBox-2.0/internal/led"
	"github.com/fieldjoshua/LightBox-2.0/internal/perf"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

// poolCapacity bounds steady-state frame allocations. Three frames cover
// pool -> animator -> driver handoff plus one spare.
const poolCapacity = 3

// fallbackColor paints frames when an animator faults before any frame ever
// succeeded.
var fallbackColor = render.RGB{R: 8, G: 8, B: 8}

// pending is the single-slot change record handed from control-plane
// goroutines to the loop. Latest wins per field; the loop consumes it with
// an atomic swap at the top of each cycle, never mid-frame.
type pending struct {
	rebuildDriver bool
	brightness    *float64
	animator      string
	pause         *bool
}

// Conductor orchestrates the loop. Construct with New, then Run (or Start)
// exactly once. All exported mutators are safe to call from other
// goroutines; they only post to the pending slot.
type Conductor struct {
	store *config.Store
	reg   *render.Registry
	board *diagnostics.Board
	mon   *perf.Monitor

	// loop-owned state
	tables   *render.Tables
	pool     *render.Pool
	drv      led.Driver
	anim     render.Animator
	frame    uint64
	lastGood render.Frame
	paused   bool
	updFails int
	overflow uint64
	start    time.Time

	slot         atomic.Pointer[pending]
	slotMu       sync.Mutex // serializes read-merge-write of the slot
	pluginFaults atomic.Uint64
	driverInfo   atomic.Value // string

	cancel context.CancelFunc
	done   chan struct{}
}

// New wires a conductor from an already-seeded store and animator registry.
// The initial driver is constructed here so a hopeless hardware setup fails
// fast; a merely-missing backend degrades to the simulation sink instead.
func New(store *config.Store, reg *render.Registry, board *diagnostics.Board, animator string) (*Conductor, error) {
	cfg := store.Get()
	a, ok := reg.Get(animator)
	if !ok {
		names := reg.List()
		if len(names) == 0 {
			return nil, fmt.Errorf("no animators registered")
		}
		a, _ = reg.Get(names[0])
		log.Warn().Str("want", animator).Str("using", a.Name()).Msg("animator not found")
	}

	tables := &render.Tables{}
	drv, err := led.New(cfg, tables, board)
	if err != nil {
		// Only a programming defect reaches here; even headless setups get
		// the simulation sink.
		return nil, fmt.Errorf("construct driver: %w", err)
	}
	return newWithDriver(store, reg, board, a, tables, drv), nil
}

func newWithDriver(store *config.Store, reg *render.Registry, board *diagnostics.Board,
	a render.Animator, tables *render.Tables, drv led.Driver) *Conductor {
	cfg := store.Get()
	c := &Conductor{
		store:  store,
		reg:    reg,
		board:  board,
		mon:    perf.NewMonitor(perf.DefaultWindow, cfg.FPS),
		tables: tables,
		pool:   render.NewPool(poolCapacity, cfg.Count()),
		drv:    drv,
		anim:   a,
	}
	c.driverInfo.Store(drv.String())
	return c
}

// Run executes the loop until ctx is cancelled. The driver is always shut
// down cleanly before return.
func (c *Conductor) Run(ctx context.Context) error {
	c.start = time.Now()
	defer func() {
		if err := c.drv.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("driver shutdown")
		}
	}()
	log.Info().Str("driver", c.drv.String()).Str("animator", c.anim.Name()).Msg("conductor running")

	for {
		cycleStart := time.Now()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.applyPending()
		cfg := c.store.Get()
		interval := time.Second / time.Duration(cfg.FPS)

		if !c.paused {
			c.renderCycle(cfg)
			c.mon.Record(time.Since(cycleStart))
		}

		if rem := interval - time.Since(cycleStart); rem > 0 {
			t := time.NewTimer(rem)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		// Overruns fall straight through: no catch-up sleep, no skipping.
	}
}

// Start launches Run on its own goroutine. Stop cancels it and waits.
func (c *Conductor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		_ = c.Run(ctx)
	}()
}

func (c *Conductor) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

// renderCycle runs steps 3..7 of one loop iteration.
func (c *Conductor) renderCycle(cfg *config.Config) {
	buf := c.pool.Acquire()

	rctx := &render.Context{
		FrameIndex: c.frame,
		Elapsed:    time.Since(c.start).Seconds(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		Brightness: cfg.Brightness,
		Gamma:      cfg.Gamma,
		Cfg:        cfg,
		Tables:     c.tables,
	}

	if err := safeRender(c.anim, buf, rctx); err != nil {
		n := c.pluginFaults.Add(1)
		log.Warn().Err(err).Str("animator", c.anim.Name()).Uint64("faults", n).Msg("animator fault, substituting frame")
		c.board.Raise(diagnostics.Diagnostic{
			Severity: diagnostics.Warn,
			Code:     diagnostics.CodePluginFault,
			Summary:  "animator failed for one frame",
			Detail:   err.Error(),
			Evidence: map[string]any{"animator": c.anim.Name(), "faults": n},
		})
		if c.lastGood != nil && len(c.lastGood) == len(buf) {
			copy(buf, c.lastGood)
		} else {
			buf.Fill(fallbackColor)
		}
	} else {
		if c.lastGood == nil || len(c.lastGood) != len(buf) {
			c.lastGood = make(render.Frame, len(buf))
		}
		copy(c.lastGood, buf)
	}

	c.updateDriver(cfg, buf)
	c.pool.Release(buf)
	if n := c.pool.Overflow(); n > c.overflow {
		c.overflow = n
		c.board.Raise(diagnostics.Diagnostic{
			Severity: diagnostics.Info,
			Code:     diagnostics.CodePoolOverflow,
			Summary:  "frame pool exhausted, allocating beyond capacity",
			Evidence: map[string]any{"overflow": n},
		})
	}
	c.frame++ // wraps at 2^64; never resets except on restart
}

// updateDriver pushes the frame, retrying once; a second consecutive
// failure degrades to the simulation sink and raises a persistent flag.
func (c *Conductor) updateDriver(cfg *config.Config, buf render.Frame) {
	err := c.drv.Update(buf)
	if err == nil {
		c.updFails = 0
		return
	}
	log.Warn().Err(err).Msg("driver update failed, retrying")
	if err = c.drv.Update(buf); err == nil {
		c.updFails = 0
		return
	}
	c.updFails++
	log.Error().Err(err).Int("consecutive", c.updFails).Msg("driver update failed twice, degrading")
	_ = c.drv.Shutdown()
	c.drv = led.NewDegradedSim(cfg)
	c.driverInfo.Store(c.drv.String())
	c.board.Raise(diagnostics.Diagnostic{
		Severity: diagnostics.Err,
		Code:     diagnostics.CodeDriverDegraded,
		Summary:  "driver failing, rendering to simulation sink",
		Detail:   err.Error(),
	})
}

// safeRender confines animator panics to a single-frame fault.
func safeRender(a render.Animator, buf render.Frame, ctx *render.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("animator panic: %v", r)
		}
	}()
	return a.Render(buf, ctx)
}

// applyPending consumes the change slot. Runs on the loop goroutine only,
// strictly between frames; the previous frame's buffer is already released.
func (c *Conductor) applyPending() {
	p := c.slot.Swap(nil)
	if p == nil {
		return
	}
	cfg := c.store.Get()

	if p.animator != "" {
		if a, ok := c.reg.Get(p.animator); ok {
			c.anim = a
			log.Info().Str("animator", a.Name()).Msg("animator switched")
		}
	}
	if p.pause != nil {
		c.paused = *p.pause
		log.Info().Bool("paused", c.paused).Msg("conductor pause state")
	}
	if p.rebuildDriver {
		if err := c.drv.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("driver shutdown before rebuild")
		}
		drv, err := led.New(cfg, c.tables, c.board)
		if err != nil {
			// Unreachable short of a programming defect; keep the loop alive
			// on the degraded sink regardless.
			log.Error().Err(err).Msg("driver rebuild failed, using simulation sink")
			drv = led.NewDegradedSim(cfg)
		}
		c.drv = drv
		c.driverInfo.Store(drv.String())
		c.updFails = 0
		if c.pool.Size() != cfg.Count() {
			c.pool = render.NewPool(poolCapacity, cfg.Count())
			c.overflow = 0
			c.lastGood = nil
		}
		log.Info().Str("driver", drv.String()).Msg("driver rebuilt")
	} else if p.brightness != nil {
		if err := c.drv.SetBrightness(*p.brightness); err != nil {
			log.Warn().Err(err).Msg("set brightness")
		}
	}
	c.mon.SetTargetFPS(cfg.FPS)
}

// post merges a change into the slot (latest wins per field).
func (c *Conductor) post(f func(*pending)) {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	p := c.slot.Load()
	if p == nil {
		p = &pending{}
	} else {
		cp := *p
		p = &cp
	}
	f(p)
	c.slot.Store(p)
}

// ApplyConfig validates and swaps in a new configuration snapshot. The error
// (wrapping config.ErrConfigInvalid) is returned to the caller immediately;
// driver-affecting changes take effect before the next frame.
func (c *Conductor) ApplyConfig(next *config.Config) error {
	old := c.store.Get()
	affecting, err := c.store.Replace(next)
	if err != nil {
		c.board.Raise(diagnostics.Diagnostic{
			Severity: diagnostics.Warn,
			Code:     diagnostics.CodeConfigRejected,
			Summary:  "configuration replacement rejected",
			Detail:   err.Error(),
		})
		return err
	}
	c.board.Clear(diagnostics.CodeConfigRejected)
	c.post(func(p *pending) {
		if affecting {
			p.rebuildDriver = true
		}
		if old.Brightness != next.Brightness {
			b := next.Brightness
			p.brightness = &b
		}
	})
	return nil
}

// SetAnimator switches the active animation before the next frame.
func (c *Conductor) SetAnimator(name string) error {
	if _, ok := c.reg.Get(name); !ok {
		return fmt.Errorf("unknown animator %q", name)
	}
	c.post(func(p *pending) { p.animator = name })
	return nil
}

// Pause stops rendering while keeping the loop, driver and pending-change
// processing alive. Resume restarts rendering.
func (c *Conductor) Pause()  { c.post(func(p *pending) { b := true; p.pause = &b }) }
func (c *Conductor) Resume() { c.post(func(p *pending) { b := false; p.pause = &b }) }

// Monitor exposes the read-only performance surface.
func (c *Conductor) Monitor() *perf.Monitor { return c.mon }

// Faults exposes the active fault flags.
func (c *Conductor) Faults() *diagnostics.Board { return c.board }

// PluginFaults counts substituted frames since start.
func (c *Conductor) PluginFaults() uint64 { return c.pluginFaults.Load() }

// DriverInfo describes the currently live driver.
func (c *Conductor) DriverInfo() string { return c.driverInfo.Load().(string) }

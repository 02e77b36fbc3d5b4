package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Wiring selects how the physical pixel chain maps onto the 2D matrix.
type Wiring string

const (
	WiringLinear     Wiring = "linear"
	WiringSerpentine Wiring = "serpentine"
)

// Backend selects the hardware driver variant.
type Backend string

const (
	BackendStrip Backend = "strip" // WS281x addressable chain over SPI
	BackendPanel Backend = "panel" // HUB75 scan panel
	BackendSim   Backend = "sim"   // in-memory / console sink
)

// StripCfg holds the addressable-strip transport parameters.
type StripCfg struct {
	Dev        string `yaml:"dev"`         // SPI port name, "" = first available
	SpeedHz    int    `yaml:"speed_hz"`    // e.g. 2400000
	ColorOrder string `yaml:"color_order"` // "GRB" | "RGB" | "BRG"
	ResetUs    int    `yaml:"reset_us"`    // latch time, >= 280us
}

// PanelCfg holds the HUB75 scan-panel parameters.
type PanelCfg struct {
	ChainLength     int    `yaml:"chain_length"`
	Parallel        int    `yaml:"parallel"`
	PWMBits         int    `yaml:"pwm_bits"` // color depth per channel, 1..11
	GPIOSlowdown    int    `yaml:"gpio_slowdown"`
	HardwareMapping string `yaml:"hardware_mapping"`
	LimitRefreshHz  int    `yaml:"limit_refresh_hz"` // 0 = uncapped
	DisablePulsing  bool   `yaml:"disable_hardware_pulsing"`
}

// RGB is one palette entry, 8-bit per channel.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Config is an immutable snapshot of every tunable. It is replaced wholesale
// through Store.Replace, never mutated in place; in-flight frames keep using
// the snapshot they were started with.
type Config struct {
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"` // 0.0..1.0
	Gamma      float64 `yaml:"gamma"`      // > 0

	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Wiring Wiring `yaml:"wiring"`

	Backend Backend  `yaml:"backend"`
	Strip   StripCfg `yaml:"strip,omitempty"`
	Panel   PanelCfg `yaml:"panel,omitempty"`
	// SimConsole echoes simulated frames as ANSI blocks on the terminal.
	SimConsole bool `yaml:"sim_console,omitempty"`

	Palette []RGB              `yaml:"palette,omitempty"`
	Params  map[string]float64 `yaml:"params,omitempty"` // scene parameters
}

// Default returns the documented defaults. Missing keys in a loaded file
// fall back to these values.
func Default() *Config {
	return &Config{
		FPS:        30,
		Brightness: 0.5,
		Gamma:      2.2,
		Width:      10,
		Height:     10,
		Wiring:     WiringSerpentine,
		Backend:    BackendSim,
		Strip: StripCfg{
			SpeedHz:    2400000,
			ColorOrder: "GRB",
			ResetUs:    300,
		},
		Panel: PanelCfg{
			ChainLength:     1,
			Parallel:        1,
			PWMBits:         11,
			GPIOSlowdown:    4,
			HardwareMapping: "adafruit-hat",
		},
		Palette: []RGB{
			{R: 255, G: 0, B: 128},
			{R: 0, G: 128, B: 255},
			{R: 128, G: 255, B: 0},
		},
	}
}

// Count returns the pixel count of the matrix.
func (c *Config) Count() int { return c.Width * c.Height }

// Param returns a scene parameter or def when unset.
func (c *Config) Param(name string, def float64) float64 {
	if c.Params == nil {
		return def
	}
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

// Validate checks every invariant the Store enforces before a swap.
// A nil return guarantees the snapshot is usable by every component.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return invalidf("dimensions %dx%d must be positive", c.Width, c.Height)
	case c.FPS <= 0:
		return invalidf("fps %d must be positive", c.FPS)
	case c.Brightness < 0 || c.Brightness > 1:
		return invalidf("brightness %.3f outside [0,1]", c.Brightness)
	case c.Gamma <= 0:
		return invalidf("gamma %.3f must be > 0", c.Gamma)
	}
	switch c.Wiring {
	case WiringLinear, WiringSerpentine:
	default:
		return invalidf("unknown wiring mode %q", c.Wiring)
	}
	switch c.Backend {
	case BackendStrip:
		if c.Strip.SpeedHz <= 0 {
			return invalidf("strip speed_hz %d must be positive", c.Strip.SpeedHz)
		}
		if c.Strip.ResetUs <= 0 {
			return invalidf("strip reset_us %d must be positive", c.Strip.ResetUs)
		}
		switch c.Strip.ColorOrder {
		case "RGB", "GRB", "BRG":
		default:
			return invalidf("strip color order %q not supported", c.Strip.ColorOrder)
		}
	case BackendPanel:
		if c.Panel.ChainLength <= 0 || c.Panel.Parallel <= 0 {
			return invalidf("panel chain %d / parallel %d must be positive",
				c.Panel.ChainLength, c.Panel.Parallel)
		}
		if c.Panel.PWMBits < 1 || c.Panel.PWMBits > 11 {
			return invalidf("panel pwm_bits %d outside [1,11]", c.Panel.PWMBits)
		}
		if c.Panel.GPIOSlowdown < 0 {
			return invalidf("panel gpio_slowdown %d must be >= 0", c.Panel.GPIOSlowdown)
		}
		if c.Panel.LimitRefreshHz < 0 {
			return invalidf("panel limit_refresh_hz %d must be >= 0", c.Panel.LimitRefreshHz)
		}
	case BackendSim:
	default:
		return invalidf("unknown backend %q", c.Backend)
	}
	return nil
}

// DriverAffecting reports whether switching from old to next requires the
// matrix driver to be torn down and rebuilt. Gamma is included because the
// backends bake their correction table at construction; brightness is not,
// it has a dedicated driver operation.
func DriverAffecting(old, next *Config) bool {
	if old == nil || next == nil {
		return true
	}
	if old.Backend != next.Backend ||
		old.Width != next.Width || old.Height != next.Height ||
		old.Wiring != next.Wiring || old.Gamma != next.Gamma {
		return true
	}
	switch next.Backend {
	case BackendStrip:
		return old.Strip != next.Strip
	case BackendPanel:
		return old.Panel != next.Panel
	}
	return false
}

// Load reads a YAML settings document. Unknown keys are ignored; keys absent
// from the file keep their defaults. Range checking happens at Replace time,
// not here.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes the snapshot back as a flat YAML document.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

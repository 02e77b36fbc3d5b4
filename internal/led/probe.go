package led

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Capabilities records which optional scan-panel performance features are
// present. Absence only lowers the achievable refresh rate; it never affects
// correctness.
type Capabilities struct {
	HardwarePulse bool // dedicated timing-pulse (hardware PWM) mode usable
	IsolatedCore  bool // a CPU core is reserved for the refresh thread
}

// probeTimeout bounds each capability probe; a wedged sysfs read must not
// stall driver construction.
const probeTimeout = 250 * time.Millisecond

// ProbeCapabilities runs the non-destructive hardware probes. Any probe
// error or timeout is treated as "capability absent", never as a fault.
func ProbeCapabilities() Capabilities {
	return Capabilities{
		HardwarePulse: probe("hardware-pulse", probeHardwarePulse),
		IsolatedCore:  probe("isolated-core", probeIsolatedCore),
	}
}

func probe(name string, fn func() (bool, error)) bool {
	type result struct {
		ok  bool
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: os.ErrInvalid}
			}
		}()
		ok, err := fn()
		ch <- result{ok: ok, err: err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			log.Debug().Err(r.err).Str("probe", name).Msg("capability probe failed, assuming absent")
			return false
		}
		log.Debug().Str("probe", name).Bool("present", r.ok).Msg("capability probe")
		return r.ok
	case <-time.After(probeTimeout):
		log.Debug().Str("probe", name).Msg("capability probe timed out, assuming absent")
		return false
	}
}

// probeHardwarePulse checks whether the kernel exposes a PWM chip the panel
// refresh can use for its timing pulse. Requires the snd_bcm2835 audio
// driver to be out of the way, which the sysfs node implies.
func probeHardwarePulse() (bool, error) {
	ents, err := os.ReadDir("/sys/class/pwm")
	if err != nil {
		return false, err
	}
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "pwmchip") {
			return true, nil
		}
	}
	return false, nil
}

// probeIsolatedCore reports whether the kernel was booted with an isolcpus
// reservation the refresh thread can pin to.
func probeIsolatedCore() (bool, error) {
	b, err := os.ReadFile("/proc/cmdline")
	if err != nil {
		return false, err
	}
	return strings.Contains(string(b), "isolcpus="), nil
}

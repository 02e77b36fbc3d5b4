package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/diagnostics"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

func TestSimDriverLifecycle(t *testing.T) {
	cfg := config.Default()
	s := NewSim(cfg, false)
	assert.Equal(t, Live, s.State())

	f := make(render.Frame, cfg.Count())
	require.NoError(t, s.Update(f))
	require.NoError(t, s.Update(f))
	assert.EqualValues(t, 2, s.Frames())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Shutdown())
	assert.Equal(t, ShutDown, s.State())
	assert.NoError(t, s.Shutdown())
	assert.ErrorIs(t, s.Update(f), errShutDown)
	assert.ErrorIs(t, s.Clear(), errShutDown)
}

func TestFactorySimBackend(t *testing.T) {
	cfg := config.Default() // backend: sim
	board := diagnostics.NewBoard()
	d, err := New(cfg, &render.Tables{}, board)
	require.NoError(t, err)
	assert.Equal(t, Live, d.State())
	assert.False(t, board.IsRaised(diagnostics.CodeDriverDegraded))
}

func TestFactoryFallsBackWhenHardwareMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendStrip
	cfg.Strip.Dev = "/dev/definitely-not-a-spi-port"

	board := diagnostics.NewBoard()
	d, err := New(cfg, &render.Tables{}, board)
	require.NoError(t, err, "missing hardware degrades, never fails")
	assert.Equal(t, Degraded, d.State())
	assert.True(t, board.IsRaised(diagnostics.CodeDriverDegraded))

	// The degraded sink still satisfies the full contract.
	f := make(render.Frame, cfg.Count())
	assert.NoError(t, d.Update(f))
	assert.NoError(t, d.SetBrightness(0.3))
	assert.NoError(t, d.Shutdown())
}

func TestFactoryUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "hologram"
	_, err := New(cfg, &render.Tables{}, diagnostics.NewBoard())
	assert.Error(t, err)
}

func TestProbeCapabilitiesNeverFails(t *testing.T) {
	// Probes must come back within their deadline with plain booleans
	// whatever the host looks like.
	caps := ProbeCapabilities()
	_ = caps.HardwarePulse
	_ = caps.IsolatedCore
}

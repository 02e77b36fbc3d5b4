package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

func stripConfig(w, h int) *config.Config {
	c := config.Default()
	c.Backend = config.BackendStrip
	c.Width = w
	c.Height = h
	c.Gamma = 1.0
	c.Brightness = 1.0
	return c
}

func TestStripUpdateWritesFrame(t *testing.T) {
	var buf bytes.Buffer
	cfg := stripConfig(4, 2)
	s, err := NewStripFromPort(spitest.NewRecordRaw(&buf), cfg, &render.Tables{})
	require.NoError(t, err)
	assert.Equal(t, Live, s.State())

	f := make(render.Frame, cfg.Count())
	f.Fill(render.RGB{R: 255})
	require.NoError(t, s.Update(f))
	assert.NotZero(t, buf.Len(), "show must push an encoded stream over SPI")

	require.NoError(t, s.Shutdown())
	assert.Equal(t, ShutDown, s.State())
	assert.NoError(t, s.Shutdown(), "shutdown is idempotent")
	assert.ErrorIs(t, s.Update(f), errShutDown)
}

func TestStripBrightnessBounds(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStripFromPort(spitest.NewRecordRaw(&buf), stripConfig(2, 2), &render.Tables{})
	require.NoError(t, err)
	assert.NoError(t, s.SetBrightness(0.25))
	assert.Error(t, s.SetBrightness(1.5))
	assert.Error(t, s.SetBrightness(-0.1))
}

func TestChannelOrder(t *testing.T) {
	assert.Equal(t, [3]int{0, 1, 2}, channelOrder("RGB"))
	assert.Equal(t, [3]int{1, 0, 2}, channelOrder("GRB"))
	assert.Equal(t, [3]int{1, 2, 0}, channelOrder("BRG"))
	assert.Equal(t, [3]int{1, 0, 2}, channelOrder("??"), "unknown orders fall back to GRB")
}

func TestStripAppliesGammaAndBrightness(t *testing.T) {
	var buf bytes.Buffer
	cfg := stripConfig(2, 1)
	cfg.Brightness = 0.5
	s, err := NewStripFromPort(spitest.NewRecordRaw(&buf), cfg, &render.Tables{})
	require.NoError(t, err)
	// gamma 1.0 table is identity, so correction is pure brightness scaling.
	assert.EqualValues(t, 127, s.corrected(255))
	assert.EqualValues(t, 0, s.corrected(0))
}

package cosmic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
)

func testContext(frame uint64) *render.Context {
	cfg := config.Default()
	return &render.Context{
		FrameIndex: frame,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Cfg:        cfg,
	}
}

func TestCosmicDeterministicPerFrame(t *testing.T) {
	s := New()
	a := make(render.Frame, 100)
	b := make(render.Frame, 100)
	require.NoError(t, s.Render(a, testContext(42)))
	require.NoError(t, s.Render(b, testContext(42)))
	assert.Equal(t, a, b, "same frame index must yield the same output")
}

func TestCosmicAnimates(t *testing.T) {
	s := New()
	a := make(render.Frame, 100)
	b := make(render.Frame, 100)
	require.NoError(t, s.Render(a, testContext(0)))
	require.NoError(t, s.Render(b, testContext(500)))
	assert.NotEqual(t, a, b, "the field must move over time")
}

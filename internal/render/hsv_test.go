package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
)

func TestHSVToRGBPrimaries(t *testing.T) {
	cases := []struct {
		name    string
		h, s, v float64
		want    RGB
	}{
		{"red", 0, 1, 1, RGB{R: 255}},
		{"green", 1.0 / 3.0, 1, 1, RGB{G: 255}},
		{"blue", 2.0 / 3.0, 1, 1, RGB{B: 255}},
		{"black", 0.5, 1, 0, RGB{}},
		{"white", 0, 0, 1, RGB{R: 255, G: 255, B: 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HSVToRGB(tc.h, tc.s, tc.v)
			assert.InDelta(t, tc.want.R, got.R, 1)
			assert.InDelta(t, tc.want.G, got.G, 1)
			assert.InDelta(t, tc.want.B, got.B, 1)
		})
	}
}

func TestInterpolatePalette(t *testing.T) {
	pal := []config.RGB{{R: 0, G: 0, B: 0}, {R: 100, G: 200, B: 50}}

	assert.Equal(t, RGB{}, InterpolatePalette(nil, 0.5))
	assert.Equal(t, RGB{R: 0, G: 0, B: 0}, InterpolatePalette(pal, 0))
	assert.Equal(t, RGB{R: 100, G: 200, B: 50}, InterpolatePalette(pal, 1))

	mid := InterpolatePalette(pal, 0.5)
	assert.InDelta(t, 50, mid.R, 1)
	assert.InDelta(t, 100, mid.G, 1)
	assert.InDelta(t, 25, mid.B, 1)

	// Out-of-range positions clamp.
	assert.Equal(t, InterpolatePalette(pal, 0), InterpolatePalette(pal, -3))
	assert.Equal(t, InterpolatePalette(pal, 1), InterpolatePalette(pal, 9))
}

package render

import "github.com/fieldjoshua/LightBox-2.0/internal/config"

// HSVToRGB converts h,s,v in [0,1] to an 8-bit pixel.
func HSVToRGB(h, s, v float64) RGB {
	r, g, b := hsv(h, s, v)
	return RGB{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}

func hsv(h, s, v float64) (float64, float64, float64) {
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// InterpolatePalette samples a palette at pos in [0,1] with linear blending
// between adjacent entries. An empty palette yields black.
func InterpolatePalette(pal []config.RGB, pos float64) RGB {
	if len(pal) == 0 {
		return RGB{}
	}
	if len(pal) == 1 {
		return RGB{R: pal[0].R, G: pal[0].G, B: pal[0].B}
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	f := pos * float64(len(pal)-1)
	i := int(f)
	if i >= len(pal)-1 {
		last := pal[len(pal)-1]
		return RGB{R: last.R, G: last.G, B: last.B}
	}
	t := f - float64(i)
	a, b := pal[i], pal[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return RGB{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B)}
}

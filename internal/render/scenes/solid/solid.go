// Package solid fills the matrix with a single color. Used for bring-up and
// as a deterministic scene in tests.
package solid

import "github.com/fieldjoshua/LightBox-2.0/internal/render"

type Scene struct {
	name string
	c    render.RGB
}

func New(name string, c render.RGB) *Scene { return &Scene{name: name, c: c} }

func (s *Scene) Name() string { return s.name }

func (s *Scene) Render(dst render.Frame, _ *render.Context) error {
	dst.Fill(s.c)
	return nil
}

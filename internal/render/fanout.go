package render

import (
	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
)

// Fanout forwards every update to each target in order.
type Fanout []animate.Renderable

// SetFillGeometry implements animate.Renderable.
func (f Fanout) SetFillGeometry(y, height float64) {
	for _, r := range f {
		r.SetFillGeometry(y, height)
	}
}

// SetPalette implements animate.Renderable.
func (f Fanout) SetPalette(p gauge.Palette) {
	for _, r := range f {
		r.SetPalette(p)
	}
}

package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/component"
)

// SpinSystem advances the Euler angles of spinning entities.
type SpinSystem struct{}

func NewSpinSystem() *SpinSystem {
	return &SpinSystem{}
}

func (s *SpinSystem) Update(w *ecs.World, f ecs.Frame) {
	dt := f.Delta()
	if w == nil || dt <= 0 {
		return
	}

	ecs.ForEach(w, component.SpinComponent.Kind(), func(e ecs.Entity, spin *component.Spin) {
		if spin.Rate == (mgl32.Vec3{}) {
			return
		}
		if t := w.Transform(e); t != nil {
			t.Rotate(spin.Rate.Mul(dt))
		}
	})
}

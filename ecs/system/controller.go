package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/component"
	"github.com/milk9111/sandbox3d/input"
)

// ControllerSystem moves controlled entities on their X/Y plane with the
// arrow keys.
type ControllerSystem struct{}

func NewControllerSystem() *ControllerSystem {
	return &ControllerSystem{}
}

func (s *ControllerSystem) Update(w *ecs.World, f ecs.Frame) {
	if w == nil || f.Input == nil {
		return
	}

	var dir mgl32.Vec3
	if f.Input.IsDown(input.KeyLeft) {
		dir[0]--
	}
	if f.Input.IsDown(input.KeyRight) {
		dir[0]++
	}
	if f.Input.IsDown(input.KeyUp) {
		dir[1]++
	}
	if f.Input.IsDown(input.KeyDown) {
		dir[1]--
	}
	if dir == (mgl32.Vec3{}) {
		return
	}

	dt := f.Delta()
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(e ecs.Entity, c *component.Controller) {
		t := w.Transform(e)
		if t == nil {
			return
		}
		speed := c.Speed
		if speed <= 0 {
			speed = component.DefaultControllerSpeed
		}
		t.Translate(dir.Mul(speed * dt))
	})
}

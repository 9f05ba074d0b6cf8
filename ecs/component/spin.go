package component

import "github.com/go-gl/mathgl/mgl32"

// Spin rotates an entity at a constant rate, in radians per second per axis.
type Spin struct {
	Rate mgl32.Vec3
}

var SpinComponent = NewComponent[Spin]("spin")

package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/common"
)

// Transform holds an entity's local position, rotation (Euler XYZ, radians)
// and scale together with a lazily rebuilt local matrix.
//
// The matrix is only valid while dirty is false. Every setter marks the
// transform dirty and Matrix rebuilds before returning, so callers cannot
// read a stale value.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	matrix mgl32.Mat4
	dirty  bool
}

var TransformComponent = NewComponent[Transform]("transform", Permanent())

// NewTransform returns an identity transform that still needs its first
// matrix build.
func NewTransform() *Transform {
	return &Transform{
		scale:  mgl32.Vec3{1, 1, 1},
		matrix: mgl32.Ident4(),
		dirty:  true,
	}
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.MarkDirty()
}

func (t *Transform) SetRotation(r mgl32.Vec3) {
	t.rotation = r
	t.MarkDirty()
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.MarkDirty()
}

// Translate offsets the position by d.
func (t *Transform) Translate(d mgl32.Vec3) {
	t.SetPosition(t.position.Add(d))
}

// Rotate adds d to the Euler angles.
func (t *Transform) Rotate(d mgl32.Vec3) {
	t.SetRotation(t.rotation.Add(d))
}

func (t *Transform) MarkDirty() {
	t.dirty = true
}

func (t *Transform) Dirty() bool {
	return t.dirty
}

// UpdateMatrix rebuilds T * Rz*Ry*Rx * S when the transform is dirty and is
// a no-op otherwise.
func (t *Transform) UpdateMatrix() {
	if !t.dirty {
		return
	}
	t.matrix = common.TRS(t.position, t.rotation, t.scale)
	t.dirty = false
}

// Matrix returns the local matrix, rebuilding it first if needed.
func (t *Transform) Matrix() mgl32.Mat4 {
	t.UpdateMatrix()
	return t.matrix
}

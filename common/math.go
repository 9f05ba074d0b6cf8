package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// normalizeEpsilon is the length below which a vector is treated as zero.
const normalizeEpsilon = 0.000001

var WorldUp = mgl32.Vec3{0, 1, 0}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= normalizeEpsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// RotationEulerXYZ builds Rz * Ry * Rx from Euler angles in radians.
func RotationEulerXYZ(euler mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(euler.Z()).
		Mul4(mgl32.HomogRotate3DY(euler.Y())).
		Mul4(mgl32.HomogRotate3DX(euler.X()))
}

// TRS composes translation * rotation * scale, so scale is applied first.
func TRS(t, r, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).
		Mul4(RotationEulerXYZ(r).Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z())))
}

// TransformPoint applies m to the point p (w = 1) without a perspective divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Spherical converts yaw/pitch (radians) into a unit direction, with yaw
// measured in the XZ plane from +X and pitch towards +Y.
func Spherical(yaw, pitch float32) mgl32.Vec3 {
	cosPitch := math32.Cos(pitch)
	return Normalize(mgl32.Vec3{
		math32.Cos(yaw) * cosPitch,
		math32.Sin(pitch),
		math32.Sin(yaw) * cosPitch,
	})
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/common"
	"github.com/milk9111/sandbox3d/input"
)

const (
	// PitchLimit keeps the view just short of straight up or down.
	PitchLimit = 1.55334

	DefaultFOV            = 60.0
	DefaultNear           = 0.1
	DefaultFar            = 200.0
	DefaultMoveSpeed      = 4.0
	DefaultFastMultiplier = 3.0
	DefaultSensitivity    = 0.003
)

type State uint8

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Camera is a free-fly viewpoint driven by mouse look and WASD movement.
//
// The view matrix is rebuilt on every Update. The projection is rebuilt only
// once a viewport has been set and only when the viewport, field of view or
// clip planes changed since the last build.
type Camera struct {
	position mgl32.Vec3
	forward  mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3

	yaw   float32
	pitch float32

	fov  float32 // radians
	near float32
	far  float32

	MoveSpeed      float32
	FastMultiplier float32
	Sensitivity    float32

	view            mgl32.Mat4
	projection      mgl32.Mat4
	projectionDirty bool

	width  int
	height int
	state  State
}

func New() *Camera {
	c := &Camera{
		position:        mgl32.Vec3{0, 0, 3},
		yaw:             -math32.Pi / 2,
		fov:             mgl32.DegToRad(DefaultFOV),
		near:            DefaultNear,
		far:             DefaultFar,
		MoveSpeed:       DefaultMoveSpeed,
		FastMultiplier:  DefaultFastMultiplier,
		Sensitivity:     DefaultSensitivity,
		view:            mgl32.Ident4(),
		projection:      mgl32.Ident4(),
		projectionDirty: true,
	}
	c.updateBasis()
	c.updateView()
	return c
}

// SetViewport records the drawable size. Sizes below one pixel are clamped
// to one. The first call moves the camera to Ready.
func (c *Camera) SetViewport(width, height int) {
	width = common.MaxInt(1, width)
	height = common.MaxInt(1, height)
	if c.state == Ready && width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.state = Ready
	c.projectionDirty = true
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(degrees float32) {
	c.fov = mgl32.DegToRad(common.Clamp(degrees, 1, 179))
	c.projectionDirty = true
}

func (c *Camera) SetClipPlanes(near, far float32) {
	c.near = max(near, 0.0001)
	c.far = max(far, c.near+0.0001)
	c.projectionDirty = true
}

func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.updateView()
}

// SetOrientation sets yaw and pitch in radians and rebuilds the basis.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = common.Clamp(pitch, -PitchLimit, PitchLimit)
	c.updateBasis()
	c.updateView()
}

// Update applies mouse look and keyboard movement for one frame of dt
// seconds, then refreshes the matrices.
func (c *Camera) Update(dt float32, in *input.State) {
	if in != nil {
		c.updateOrientation(in.MouseDelta())
		c.move(dt, in)
	}

	c.updateView()
	if c.state == Ready && c.projectionDirty {
		c.updateProjection()
	}
}

func (c *Camera) updateOrientation(delta mgl32.Vec2) {
	c.yaw += delta.X() * c.Sensitivity
	c.pitch -= delta.Y() * c.Sensitivity
	c.pitch = common.Clamp(c.pitch, -PitchLimit, PitchLimit)
	c.updateBasis()
}

func (c *Camera) updateBasis() {
	c.forward = common.Spherical(c.yaw, c.pitch)
	c.right = common.Normalize(c.forward.Cross(common.WorldUp))
	c.up = common.Normalize(c.right.Cross(c.forward))
}

// move translates along forward and right only; there is no vertical strafe.
func (c *Camera) move(dt float32, in *input.State) {
	speed := c.MoveSpeed
	if in.AnyDown(input.KeyLeftShift, input.KeyRightShift) {
		speed *= c.FastMultiplier
	}
	step := speed * dt

	if in.IsDown(input.KeyW) {
		c.position = c.position.Add(c.forward.Mul(step))
	}
	if in.IsDown(input.KeyS) {
		c.position = c.position.Sub(c.forward.Mul(step))
	}
	if in.IsDown(input.KeyD) {
		c.position = c.position.Add(c.right.Mul(step))
	}
	if in.IsDown(input.KeyA) {
		c.position = c.position.Sub(c.right.Mul(step))
	}
}

func (c *Camera) updateView() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.forward), c.up)
}

func (c *Camera) updateProjection() {
	aspect := float32(c.width) / float32(c.height)
	c.projection = mgl32.Perspective(c.fov, aspect, c.near, c.far)
	c.projectionDirty = false
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Forward() mgl32.Vec3  { return c.forward }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }
func (c *Camera) FOV() float32         { return mgl32.RadToDeg(c.fov) }
func (c *Camera) Near() float32        { return c.near }
func (c *Camera) Far() float32         { return c.far }
func (c *Camera) State() State         { return c.state }
func (c *Camera) Ready() bool          { return c.state == Ready }

func (c *Camera) Viewport() (int, int) {
	return c.width, c.height
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// Projection returns the last built projection, or identity before the
// first viewport is set.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) ProjectionDirty() bool {
	return c.projectionDirty
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}

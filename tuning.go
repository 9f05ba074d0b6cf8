package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/clock"
	"github.com/milk9111/sandbox3d/prefabs"
	"gopkg.in/yaml.v3"
)

// applyCameraSpec copies lens and movement tuning onto cam. The pose is only
// applied when withPose is set, so a hot reload leaves the view where it is.
func applyCameraSpec(cam *camera.Camera, spec prefabs.CameraSpec, withPose bool) {
	if cam == nil {
		return
	}
	if spec.FOV > 0 {
		cam.SetFOV(float32(spec.FOV))
	}
	if spec.Near > 0 || spec.Far > 0 {
		near, far := cam.Near(), cam.Far()
		if spec.Near > 0 {
			near = float32(spec.Near)
		}
		if spec.Far > 0 {
			far = float32(spec.Far)
		}
		cam.SetClipPlanes(near, far)
	}
	if spec.MoveSpeed > 0 {
		cam.MoveSpeed = float32(spec.MoveSpeed)
	}
	if spec.FastMultiplier > 0 {
		cam.FastMultiplier = float32(spec.FastMultiplier)
	}
	if spec.Sensitivity > 0 {
		cam.Sensitivity = float32(spec.Sensitivity)
	}

	if !withPose {
		return
	}
	if spec.Position != nil {
		cam.SetPosition(mgl32.Vec3(spec.Position.Array()))
	}
	yaw := cam.Yaw()
	if spec.Yaw != nil {
		yaw = mgl32.DegToRad(float32(*spec.Yaw))
	}
	cam.SetOrientation(yaw, mgl32.DegToRad(float32(spec.Pitch)))
}

func applyClockSpec(c *clock.Clock, spec prefabs.ClockSpec) {
	if c == nil || spec.MaxDelta <= 0 {
		return
	}
	c.SetMaxDelta(spec.MaxDelta)
}

// cameraPose formats the camera in the same shape as the camera block of a
// sandbox prefab so it can be pasted back in.
func cameraPose(cam *camera.Camera) (string, error) {
	p := cam.Position()
	yaw := round(float64(mgl32.RadToDeg(cam.Yaw())), 100)
	pose := struct {
		Camera prefabs.CameraSpec `yaml:"camera"`
	}{
		Camera: prefabs.CameraSpec{
			Position: &prefabs.Vec3Spec{
				X: round(float64(p.X()), 1000),
				Y: round(float64(p.Y()), 1000),
				Z: round(float64(p.Z()), 1000),
			},
			Yaw:            &yaw,
			Pitch:          round(float64(mgl32.RadToDeg(cam.Pitch())), 100),
			FOV:            round(float64(cam.FOV()), 10),
			Near:           round(float64(cam.Near()), 1000),
			Far:            round(float64(cam.Far()), 1000),
			MoveSpeed:      round(float64(cam.MoveSpeed), 1000),
			FastMultiplier: round(float64(cam.FastMultiplier), 1000),
			Sensitivity:    round(float64(cam.Sensitivity), 1000),
		},
	}
	out, err := yaml.Marshal(pose)
	if err != nil {
		return "", fmt.Errorf("camera pose: %w", err)
	}
	return string(out), nil
}

// round trims float32 noise so the pose reads as typed.
func round(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

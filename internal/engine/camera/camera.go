// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/trackforge/pkg/math"
)

// FlyCamera is a free-look camera for walking a baked scene: WASD flight
// plus mouselook with a clamped pitch.
type FlyCamera struct {
	Position math.Vec3
	Front    math.Vec3
	Up       math.Vec3

	// Euler angles in degrees. Yaw -90 looks down -Z.
	Yaw   float32
	Pitch float32

	Speed       float32
	Sensitivity float32
}

// NewFlyCamera creates a camera at the given position looking along front.
func NewFlyCamera(position, front math.Vec3, speed, sensitivity float32) *FlyCamera {
	c := &FlyCamera{
		Position:    position,
		Front:       front.Normalize(),
		Up:          math.Vec3{Y: 1},
		Speed:       speed,
		Sensitivity: sensitivity,
	}
	c.anglesFromFront()
	return c
}

// anglesFromFront derives yaw and pitch from the current front vector so
// the first mouse motion does not snap the view.
func (c *FlyCamera) anglesFromFront() {
	f := c.Front
	c.Pitch = degrees(float32(gomath.Asin(float64(f.Y))))
	c.Yaw = degrees(float32(gomath.Atan2(float64(f.Z), float64(f.X))))
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	target := c.Position.Add(c.Front)
	return math.LookAt(c.Position, target, c.Up)
}

// HandleMouse applies a relative mouse motion to yaw and pitch. Pitch is
// clamped just short of the poles to keep LookAt well defined.
func (c *FlyCamera) HandleMouse(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.Sensitivity
	c.Pitch -= deltaY * c.Sensitivity
	c.Pitch = math.Clamp(c.Pitch, -89, 89)

	yaw := float64(math.Radians(c.Yaw))
	pitch := float64(math.Radians(c.Pitch))
	c.Front = math.Vec3{
		X: float32(gomath.Cos(pitch) * gomath.Cos(yaw)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Cos(pitch) * gomath.Sin(yaw)),
	}.Normalize()
}

// Move translates the camera: forward along the view direction, right
// along the strafe axis, both scaled by the camera speed.
func (c *FlyCamera) Move(forward, right float32) {
	if forward != 0 {
		c.Position = c.Position.Add(c.Front.Scale(forward * c.Speed))
	}
	if right != 0 {
		strafe := c.Front.Cross(c.Up).Normalize()
		c.Position = c.Position.Add(strafe.Scale(right * c.Speed))
	}
}

func degrees(rad float32) float32 {
	return rad * 180 / gomath.Pi
}

package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/trackforge/pkg/math"
)

func TestNewFlyCamera_KeepsFront(t *testing.T) {
	c := NewFlyCamera(math.Vec3{Y: 5, Z: 10}, math.Vec3{Z: -1}, 0.05, 0.1)

	// A zero-motion mouse update must not snap the view away from the
	// configured front.
	c.HandleMouse(0, 0)
	if gomath.Abs(float64(c.Front.Z+1)) > 1e-5 || gomath.Abs(float64(c.Front.Y)) > 1e-5 {
		t.Errorf("front drifted to %v", c.Front)
	}
}

func TestHandleMouse_PitchClamp(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1}, 0.05, 0.1)

	c.HandleMouse(0, -100000)
	if c.Pitch != 89 {
		t.Errorf("pitch = %v, want clamped to 89", c.Pitch)
	}
	c.HandleMouse(0, 100000)
	if c.Pitch != -89 {
		t.Errorf("pitch = %v, want clamped to -89", c.Pitch)
	}
}

func TestMove_Forward(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1}, 0.5, 0.1)

	c.Move(1, 0)
	if gomath.Abs(float64(c.Position.Z+0.5)) > 1e-5 {
		t.Errorf("position = %v, want z = -0.5", c.Position)
	}
}

func TestMove_Strafe(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1}, 1, 0.1)

	// Looking down -Z, right is +X.
	c.Move(0, 1)
	if gomath.Abs(float64(c.Position.X-1)) > 1e-4 {
		t.Errorf("position = %v, want x = 1", c.Position)
	}
}

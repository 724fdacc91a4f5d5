package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/trackforge/pkg/math"
)

func near(a, b math.Vec3, eps float32) bool {
	d := a.Sub(b)
	return gomath.Abs(float64(d.X)) < float64(eps) &&
		gomath.Abs(float64(d.Y)) < float64(eps) &&
		gomath.Abs(float64(d.Z)) < float64(eps)
}

func TestScreenToRay_Center(t *testing.T) {
	// With an identity view-projection, the screen center unprojects to a
	// ray through NDC z = -1..1 along +Z.
	ray := ScreenToRay(400, 300, 800, 600, math.Identity())

	if !near(ray.Origin, math.Vec3{Z: -1}, 1e-5) {
		t.Errorf("origin = %v", ray.Origin)
	}
	if !near(ray.Direction, math.Vec3{Z: 1}, 1e-5) {
		t.Errorf("direction = %v", ray.Direction)
	}
}

func TestScreenToRay_Corner(t *testing.T) {
	ray := ScreenToRay(0, 0, 800, 600, math.Identity())

	// Top-left pixel maps to NDC (-1, +1).
	if !near(ray.Origin, math.Vec3{X: -1, Y: 1, Z: -1}, 1e-5) {
		t.Errorf("origin = %v", ray.Origin)
	}
}

func TestIntersectPlaneZ(t *testing.T) {
	ray := Ray{Origin: math.Vec3{X: 1, Y: 2, Z: -5}, Direction: math.Vec3{Z: 1}}

	p, ok := ray.IntersectPlaneZ(0)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !near(p, math.Vec3{X: 1, Y: 2, Z: 0}, 1e-5) {
		t.Errorf("hit = %v", p)
	}
}

func TestIntersectPlaneZ_Behind(t *testing.T) {
	ray := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}
	if _, ok := ray.IntersectPlaneZ(0); ok {
		t.Error("hit behind the origin should be rejected")
	}
}

func TestIntersectPlaneZ_Parallel(t *testing.T) {
	ray := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{X: 1}}
	if _, ok := ray.IntersectPlaneZ(0); ok {
		t.Error("parallel ray should not hit")
	}
}

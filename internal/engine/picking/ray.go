// Package picking converts screen clicks into world-space points for the
// track editor.
package picking

import (
	gomath "math"

	"github.com/Faultbox/trackforge/pkg/math"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// ScreenToRay converts pixel coordinates into a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Normalized device coordinates, Y flipped
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}.Normalize()

	return Ray{Origin: origin, Direction: dir}
}

// IntersectPlaneZ intersects the ray with the sketch plane z = planeZ and
// returns the hit point. ok is false when the ray is parallel to the plane
// or the hit lies behind the origin.
func (r Ray) IntersectPlaneZ(planeZ float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Z)) < 0.001 {
		return math.Vec3{}, false
	}

	t := (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return math.Vec3{}, false
	}

	return r.Origin.Add(r.Direction.Scale(t)), true
}

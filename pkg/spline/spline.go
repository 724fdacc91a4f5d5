// Package spline evaluates uniform cubic B-spline curves.
//
// The curve approximates its control polygon: samples are pulled toward the
// control points but do not pass through them. Each sliding window of four
// consecutive control points contributes one segment, so n control points
// produce n-3 segments and fewer than four control points produce nothing.
package spline

import "github.com/Faultbox/trackforge/pkg/math"

// basis is the uniform cubic B-spline basis matrix, row-major, already
// divided by 6. A sample is G * basis * T with G the 3x4 window of control
// points and T = [t^3, t^2, t, 1].
var basis = [4][4]float32{
	{-1.0 / 6.0, 3.0 / 6.0, -3.0 / 6.0, 1.0 / 6.0},
	{3.0 / 6.0, -6.0 / 6.0, 3.0 / 6.0, 0},
	{-3.0 / 6.0, 0, 3.0 / 6.0, 0},
	{1.0 / 6.0, 4.0 / 6.0, 1.0 / 6.0, 0},
}

// Evaluate samples the curve defined by the control points, producing
// density+1 samples per segment (t from 0 to 1 inclusive, step 1/density).
// Samples of consecutive segments are concatenated; the shared endpoint is
// not removed. Fewer than four control points yields nil, by design.
func Evaluate(controlPoints []math.Vec3, density int) []math.Vec3 {
	if len(controlPoints) < 4 || density < 1 {
		return nil
	}

	curve := make([]math.Vec3, 0, (len(controlPoints)-3)*(density+1))
	step := 1.0 / float32(density)

	for i := 0; i+3 < len(controlPoints); i++ {
		window := controlPoints[i : i+4]
		for s := 0; s <= density; s++ {
			curve = append(curve, sample(window, float32(s)*step))
		}
	}
	return curve
}

// sample evaluates one point at parameter t on the segment defined by the
// four control points in window.
func sample(window []math.Vec3, t float32) math.Vec3 {
	tv := [4]float32{t * t * t, t * t, t, 1}

	// w = basis * T
	var w [4]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			w[row] += basis[row][col] * tv[col]
		}
	}

	var p math.Vec3
	for k := 0; k < 4; k++ {
		p = p.Add(window[k].Scale(w[k]))
	}
	return p
}

package math

import (
	gomath "math"
	"testing"
)

func mat4Near(a, b Mat4, eps float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

func TestIdentityMul(t *testing.T) {
	m := Translate(1, 2, 3)
	got := Identity().Mul(m)
	if !mat4Near(got, m, 1e-6) {
		t.Errorf("Identity().Mul(m) = %v, want %v", got, m)
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.MulVec4(Vec4{0, 0, 0, 1})
	want := Vec4{1, 2, 3, 1}
	if got != want {
		t.Errorf("Translate point = %v, want %v", got, want)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	m := RotateZ(float32(gomath.Pi / 2))
	got := m.MulVec4(Vec4{1, 0, 0, 1})
	if gomath.Abs(float64(got[0])) > 1e-6 || gomath.Abs(float64(got[1]-1)) > 1e-6 {
		t.Errorf("RotateZ(90deg) * (1,0,0) = %v, want ~(0,1,0)", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(3, -1, 2).Mul(RotateY(0.7)).Mul(Scale(2, 2, 2))
	got := m.Mul(m.Inverse())
	if !mat4Near(got, Identity(), 1e-4) {
		t.Errorf("m * m.Inverse() = %v, want identity", got)
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); !mat4Near(got, Identity(), 0) {
		t.Errorf("singular Inverse() = %v, want identity", got)
	}
}

func TestFromBasis(t *testing.T) {
	m := FromBasis(Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1})
	if !mat4Near(m, Identity(), 0) {
		t.Errorf("FromBasis(standard basis) = %v, want identity", m)
	}

	// Forward along +X: the local Z axis must land on +X.
	m = FromBasis(Vec3{0, 0, -1}, Vec3{0, 1, 0}, Vec3{1, 0, 0})
	got := m.MulVec4(Vec4{0, 0, 1, 0})
	want := Vec4{1, 0, 0, 0}
	if got != want {
		t.Errorf("FromBasis forward = %v, want %v", got, want)
	}
}

func TestRadians(t *testing.T) {
	got := Radians(180)
	if gomath.Abs(float64(got)-gomath.Pi) > 1e-6 {
		t.Errorf("Radians(180) = %v, want pi", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

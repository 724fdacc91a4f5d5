package mesh

import (
	"testing"

	"github.com/Faultbox/trackforge/pkg/math"
)

func TestExtrudeTrack_Counts(t *testing.T) {
	square := []math.Vec3{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	vertices, indices := ExtrudeTrack(square, 2)

	n := len(square)
	if got := len(vertices) / Stride; got != 4*n {
		t.Errorf("expected %d vertices, got %d", 4*n, got)
	}
	if got := len(indices) / 3; got != 2*n {
		t.Errorf("expected %d triangles, got %d", 2*n, got)
	}
}

func TestExtrudeTrack_Offsets(t *testing.T) {
	// First segment runs along +X, so the perpendicular is +Y: edges sit at
	// y = -1 and y = +1 around the center line.
	square := []math.Vec3{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	vertices, _ := ExtrudeTrack(square, 2)

	inner := math.Vec3{X: vertices[0], Y: vertices[1], Z: vertices[2]}
	outer := math.Vec3{X: vertices[Stride], Y: vertices[Stride+1], Z: vertices[Stride+2]}
	if inner != (math.Vec3{X: 0, Y: -1}) {
		t.Errorf("inner edge = %v", inner)
	}
	if outer != (math.Vec3{X: 0, Y: 1}) {
		t.Errorf("outer edge = %v", outer)
	}
}

func TestExtrudeTrack_QuadLayout(t *testing.T) {
	square := []math.Vec3{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	vertices, indices := ExtrudeTrack(square, 2)

	// Corner UVs of the first quad: (0,0) (1,0) (1,1) (0,1).
	wantUV := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for c, want := range wantUV {
		base := c * Stride
		if vertices[base+3] != want[0] || vertices[base+4] != want[1] {
			t.Errorf("corner %d uv = (%v, %v), want %v", c, vertices[base+3], vertices[base+4], want)
		}
	}

	// Constant +Z normal on every vertex.
	for i := 0; i < len(vertices); i += Stride {
		if vertices[i+5] != 0 || vertices[i+6] != 0 || vertices[i+7] != 1 {
			t.Fatalf("vertex %d normal = (%v, %v, %v)", i/Stride, vertices[i+5], vertices[i+6], vertices[i+7])
		}
	}

	// First quad splits into (0, 3, 1) and (1, 3, 2).
	want := []uint32{0, 3, 1, 1, 3, 2}
	for i, w := range want {
		if indices[i] != w {
			t.Errorf("index %d = %d, want %d", i, indices[i], w)
			break
		}
	}
}

func TestExtrudeTrack_ClosesLoop(t *testing.T) {
	square := []math.Vec3{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	vertices, _ := ExtrudeTrack(square, 2)

	// The last quad's far edge reuses point 0's offsets: its inner i+1
	// corner equals the first quad's inner i corner.
	n := len(square)
	lastBase := (n - 1) * 4 * Stride
	farInner := vertices[lastBase+3*Stride : lastBase+3*Stride+3]
	firstInner := vertices[0:3]
	for k := 0; k < 3; k++ {
		if farInner[k] != firstInner[k] {
			t.Errorf("loop not closed: far inner %v vs first inner %v", farInner, firstInner)
			break
		}
	}
}

func TestExtrudeTrack_HeightCarried(t *testing.T) {
	loop := []math.Vec3{
		{X: 0, Y: 0, Z: 0.3},
		{X: 10, Y: 0, Z: 0.6},
		{X: 5, Y: 10, Z: 0.9},
	}
	vertices, _ := ExtrudeTrack(loop, 2)

	// Both offsets of center 0 keep its height.
	if vertices[2] != 0.3 || vertices[Stride+2] != 0.3 {
		t.Errorf("heights = %v, %v, want 0.3", vertices[2], vertices[Stride+2])
	}
	// The quad's far corners carry center 1's height.
	if vertices[2*Stride+2] != 0.6 || vertices[3*Stride+2] != 0.6 {
		t.Errorf("far heights = %v, %v, want 0.6", vertices[2*Stride+2], vertices[3*Stride+2])
	}
}

func TestExtrudeTrack_Degenerate(t *testing.T) {
	if v, i := ExtrudeTrack(nil, 2); v != nil || i != nil {
		t.Error("empty input should yield empty output")
	}
	if v, i := ExtrudeTrack([]math.Vec3{{X: 1}}, 2); v != nil || i != nil {
		t.Error("single point should yield empty output")
	}
	if v, i := ExtrudeTrack([]math.Vec3{{X: 0}, {X: 1}}, 0); v != nil || i != nil {
		t.Error("zero width should yield empty output")
	}
}

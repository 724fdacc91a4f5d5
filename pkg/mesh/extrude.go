package mesh

import "github.com/Faultbox/trackforge/pkg/math"

// ExtrudeTrack turns a closed center line into a flat ribbon of the given
// width. Each center point is offset to both sides along the perpendicular
// of the direction to its successor (indices wrap, so the loop always
// closes); the point's height carries over unchanged. Segment i becomes a
// quad over {inner i, outer i, outer i+1, inner i+1} with corner UVs
// (0,0) (1,0) (1,1) (0,1) and a constant +Z normal, split into two
// triangles. The result is an interleaved vertex buffer with four vertices
// per segment and a matching triangle index buffer.
//
// Fewer than two center points cannot form a loop; the result is empty.
func ExtrudeTrack(centers []math.Vec3, width float32) ([]float32, []uint32) {
	n := len(centers)
	if n < 2 || width <= 0 {
		return nil, nil
	}

	half := width / 2
	inner := make([]math.Vec3, n)
	outer := make([]math.Vec3, n)
	for i := 0; i < n; i++ {
		c := centers[i]
		dir := centers[(i+1)%n].XY().Sub(c.XY()).Normalize()
		perp := dir.Perp().Scale(half)
		inner[i] = math.Vec3{X: c.X - perp.X, Y: c.Y - perp.Y, Z: c.Z}
		outer[i] = math.Vec3{X: c.X + perp.X, Y: c.Y + perp.Y, Z: c.Z}
	}

	vertices := make([]float32, 0, n*4*Stride)
	indices := make([]uint32, 0, n*6)

	push := func(p math.Vec3, u, v float32) {
		vertices = append(vertices, p.X, p.Y, p.Z, u, v, 0, 0, 1)
	}

	for i := 0; i < n; i++ {
		next := (i + 1) % n
		base := uint32(i * 4)

		push(inner[i], 0, 0)    // base+0
		push(outer[i], 1, 0)    // base+1
		push(outer[next], 1, 1) // base+2
		push(inner[next], 0, 1) // base+3

		indices = append(indices,
			base, base+3, base+1, // inner i, inner i+1, outer i
			base+1, base+3, base+2, // outer i, inner i+1, outer i+1
		)
	}

	return vertices, indices
}

// Package mesh holds the in-memory polygon model: parallel per-corner
// attribute arrays, material-grouped triangles, and the bridge between
// geometry documents, procedural buffers, and the renderer.
package mesh

import (
	"fmt"

	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Stride is the number of floats per interleaved vertex: position (3),
// texture coordinate (2), normal (3).
const Stride = 8

// Uploader owns GPU-side mesh storage. CreateHandle receives an interleaved
// vertex buffer laid out per Stride and returns an opaque handle;
// DestroyHandle releases it.
type Uploader interface {
	CreateHandle(vertices []float32) (uint32, error)
	DestroyHandle(handle uint32)
}

// Face is a triangle: three indices into the model's parallel arrays.
type Face [3]int

// Group is an ordered run of faces sharing one material.
type Group struct {
	Material string
	Faces    []Face
}

// Mesh is a triangle model. Positions, UVs, and Normals are parallel and
// hold one entry per face-vertex occurrence; values are not deduplicated.
// Groups partition the faces by material in declaration order. A mesh is
// built once and never edited; new geometry means a new Mesh.
type Mesh struct {
	Positions []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3
	Groups    []Group

	handle   uint32
	uploaded bool
}

// NewFromDocument builds a mesh from a parsed geometry document. The
// document's occurrence arrays and material groups carry over directly.
func NewFromDocument(doc *formats.OBJ) *Mesh {
	m := &Mesh{
		Positions: append([]math.Vec3(nil), doc.Positions...),
		UVs:       append([]math.Vec2(nil), doc.UVs...),
		Normals:   append([]math.Vec3(nil), doc.Normals...),
	}

	next := 0
	for gi := range doc.Groups {
		src := &doc.Groups[gi]
		if len(src.Faces) == 0 {
			continue
		}
		grp := Group{Material: src.Material, Faces: make([]Face, 0, len(src.Faces))}
		for range src.Faces {
			grp.Faces = append(grp.Faces, Face{next, next + 1, next + 2})
			next += 3
		}
		m.Groups = append(m.Groups, grp)
	}
	if len(m.Groups) == 0 {
		m.Groups = []Group{{}}
	}

	return m
}

// NewFromBuffers builds a mesh from an interleaved vertex buffer and an
// optional triangle index buffer. With indices the referenced vertices are
// expanded into per-corner occurrences; without them the buffer is consumed
// in sequential triples as pre-triangulated faces. All faces land in one
// default group.
func NewFromBuffers(vertices []float32, indices []uint32) *Mesh {
	count := len(vertices) / Stride

	unpack := func(i int) (math.Vec3, math.Vec2, math.Vec3) {
		base := i * Stride
		v := vertices[base : base+Stride]
		return math.Vec3{X: v[0], Y: v[1], Z: v[2]},
			math.Vec2{X: v[3], Y: v[4]},
			math.Vec3{X: v[5], Y: v[6], Z: v[7]}
	}

	if len(indices) == 0 {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m := &Mesh{Groups: []Group{{}}}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if a >= count || b >= count || c >= count {
			// An index past the buffer names no vertex; a triangle with a
			// dangling corner is dropped whole.
			continue
		}
		var face Face
		for corner, idx := range [3]int{a, b, c} {
			p, uv, n := unpack(idx)
			face[corner] = len(m.Positions)
			m.Positions = append(m.Positions, p)
			m.UVs = append(m.UVs, uv)
			m.Normals = append(m.Normals, n)
		}
		m.Groups[0].Faces = append(m.Groups[0].Faces, face)
	}

	return m
}

// VertexCount returns the number of face-vertex occurrences.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FaceCount returns the total triangle count across all groups.
func (m *Mesh) FaceCount() int {
	n := 0
	for i := range m.Groups {
		n += len(m.Groups[i].Faces)
	}
	return n
}

// Interleave flattens the parallel arrays into one buffer laid out per
// Stride, in occurrence order.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Positions)*Stride)
	for i := range m.Positions {
		p, uv, n := m.Positions[i], m.UVs[i], m.Normals[i]
		out = append(out, p.X, p.Y, p.Z, uv.X, uv.Y, n.X, n.Y, n.Z)
	}
	return out
}

// Document exports the mesh as a geometry document for serialization.
func (m *Mesh) Document() *formats.OBJ {
	doc := &formats.OBJ{
		Positions: append([]math.Vec3(nil), m.Positions...),
		UVs:       append([]math.Vec2(nil), m.UVs...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
	}
	for gi := range m.Groups {
		grp := &m.Groups[gi]
		out := formats.Group{Name: grp.Material, Material: grp.Material}
		for _, face := range grp.Faces {
			var f formats.Face
			for c, idx := range face {
				f[c] = formats.FaceVertex{
					Position: m.Positions[idx],
					UV:       m.UVs[idx],
					Normal:   m.Normals[idx],
				}
			}
			out.Faces = append(out.Faces, f)
		}
		doc.Groups = append(doc.Groups, out)
	}
	return doc
}

// Upload creates the render handle. A mesh carries at most one handle;
// uploading twice is a programming error.
func (m *Mesh) Upload(u Uploader) error {
	if m.uploaded {
		return fmt.Errorf("mesh already uploaded (handle %d)", m.handle)
	}
	handle, err := u.CreateHandle(m.Interleave())
	if err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}
	m.handle = handle
	m.uploaded = true
	return nil
}

// Handle returns the render handle and whether Upload has run.
func (m *Mesh) Handle() (uint32, bool) {
	return m.handle, m.uploaded
}

// Release destroys the render handle. Safe to call on a mesh that was never
// uploaded; releasing twice is a no-op.
func (m *Mesh) Release(u Uploader) {
	if !m.uploaded {
		return
	}
	u.DestroyHandle(m.handle)
	m.uploaded = false
}

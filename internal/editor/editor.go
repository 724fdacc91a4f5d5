// Package editor holds the track sketching session: control points placed
// on the sketch plane, per-point heights, and the bake that turns the
// sketch into scene files.
package editor

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
	"github.com/Faultbox/trackforge/pkg/mesh"
	"github.com/Faultbox/trackforge/pkg/spline"
)

// Output file names inside the configured output directory.
const (
	ObjFileName    = "track.obj"
	MtlFileName    = "track.mtl"
	MarkerFileName = "marker.obj"
	AnimFileName   = "animation.txt"
	SceneFileName  = "Scene.txt"
)

// Session is one sketching session. Points live on the sketch plane:
// X and Y are the click position, Z is the height assigned afterwards.
type Session struct {
	cfg    config.EditorConfig
	points []math.Vec3
}

// New creates an empty session.
func New(cfg config.EditorConfig) *Session {
	return &Session{cfg: cfg}
}

// AddPoint appends a control point at the clicked position with height 0.
func (s *Session) AddPoint(x, y float32) {
	s.points = append(s.points, math.Vec3{X: x, Y: y})
	logger.Debug("control point added",
		zap.Int("index", len(s.points)-1),
		zap.Float32("x", x),
		zap.Float32("y", y),
	)
}

// RemoveLast drops the most recent control point, if any.
func (s *Session) RemoveLast() {
	if len(s.points) > 0 {
		s.points = s.points[:len(s.points)-1]
	}
}

// Points returns the control points in placement order.
func (s *Session) Points() []math.Vec3 {
	return s.points
}

// RaiseHeight raises the last point's height by one step, capped at the
// configured maximum.
func (s *Session) RaiseHeight() {
	s.adjustHeight(s.cfg.HeightStep)
}

// LowerHeight lowers the last point's height by one step, floored at zero.
func (s *Session) LowerHeight() {
	s.adjustHeight(-s.cfg.HeightStep)
}

func (s *Session) adjustHeight(delta float32) {
	if len(s.points) == 0 {
		return
	}
	p := &s.points[len(s.points)-1]
	p.Z = math.Clamp(p.Z+delta, 0, s.cfg.MaxHeight)
}

// CanBake reports whether enough points exist for a curve.
func (s *Session) CanBake() bool {
	return len(s.points) >= 4
}

// Preview evaluates the current sketch at the given density for on-screen
// display. Empty while the sketch has fewer than four points.
func (s *Session) Preview(density int) []math.Vec3 {
	return spline.Evaluate(s.points, density)
}

// BakeResult lists the files a bake produced.
type BakeResult struct {
	ObjPath    string
	MtlPath    string
	MarkerPath string
	AnimPath   string
	ScenePath  string
}

// Bake turns the sketch into a baked scene: the center curve is sampled at
// the bake density, extruded into a ribbon of the configured width, moved
// into the viewer frame (height axis Z to Y, applied exactly once here),
// and written out as geometry, material, animation waypoints, and a scene
// document. curveDensity is the per-segment sample count recorded for the
// displayed curve.
func (s *Session) Bake(curveDensity int) (*BakeResult, error) {
	center := spline.Evaluate(s.points, s.cfg.BakeDensity)
	if len(center) == 0 {
		return nil, fmt.Errorf("bake needs at least 4 control points, have %d", len(s.points))
	}

	vertices, indices := mesh.ExtrudeTrack(center, s.cfg.TrackWidth)
	m := mesh.NewFromBuffers(vertices, indices)
	m.Groups[0].Material = "track"

	// Sketch frame to viewer frame: height moves from Z to Y.
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].SwapYZ()
		m.Normals[i] = m.Normals[i].SwapYZ()
	}

	res := &BakeResult{
		ObjPath:    filepath.Join(s.cfg.OutputDir, ObjFileName),
		MtlPath:    filepath.Join(s.cfg.OutputDir, MtlFileName),
		MarkerPath: filepath.Join(s.cfg.OutputDir, MarkerFileName),
		AnimPath:   filepath.Join(s.cfg.OutputDir, AnimFileName),
		ScenePath:  filepath.Join(s.cfg.OutputDir, SceneFileName),
	}

	if err := formats.WriteOBJFile(m.Document(), res.ObjPath); err != nil {
		return nil, err
	}
	if err := formats.WriteMTLFile(trackMaterial(), res.MtlPath); err != nil {
		return nil, err
	}
	if err := formats.WriteOBJFile(markerMesh().Document(), res.MarkerPath); err != nil {
		return nil, err
	}

	waypoints := make([]math.Vec3, len(center))
	for i, p := range center {
		waypoints[i] = p.SwapYZ()
	}
	if err := formats.WriteWaypointsFile(waypoints, res.AnimPath); err != nil {
		return nil, err
	}

	controls := make([]math.Vec3, len(s.points))
	for i, p := range s.points {
		controls[i] = p.SwapYZ()
	}
	doc := &formats.SceneDoc{
		Global: formats.DefaultGlobalConfig(),
		// The track itself is static scenery; the marker rides the
		// exported waypoints to show the lap direction.
		Meshes: []formats.MeshDef{
			{
				Name:    "track",
				ObjFile: ObjFileName,
				MtlFile: MtlFileName,
				Scale:   math.Vec3{X: 1, Y: 1, Z: 1},
			},
			{
				Name:          "marker",
				ObjFile:       MarkerFileName,
				MtlFile:       MtlFileName,
				Scale:         math.Vec3{X: 1, Y: 1, Z: 1},
				AnimationFile: AnimFileName,
			},
		},
		Curves: []formats.CurveDef{{
			Name:             "path",
			ControlPoints:    controls,
			PointsPerSegment: curveDensity,
			Color:            [4]float32{1, 0, 0, 1},
		}},
	}
	if err := formats.WriteSceneFile(doc, res.ScenePath); err != nil {
		return nil, err
	}

	logger.Info("sketch baked",
		zap.Int("control_points", len(s.points)),
		zap.Int("center_samples", len(center)),
		zap.Int("triangles", m.FaceCount()),
		zap.String("scene", res.ScenePath),
	)
	return res, nil
}

// markerMesh builds the small arrowhead that follows the waypoint path in
// the baked scene. It is modeled in the viewer frame, nose along +Z so the
// path tangent points it forward.
func markerMesh() *mesh.Mesh {
	nose := math.Vec3{Z: 0.5}
	left := math.Vec3{X: -0.25, Z: -0.3}
	right := math.Vec3{X: 0.25, Z: -0.3}
	top := math.Vec3{Y: 0.4, Z: -0.3}

	var verts []float32
	push := func(a, b, c math.Vec3) {
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, p := range []math.Vec3{a, b, c} {
			verts = append(verts, p.X, p.Y, p.Z, 0, 0, n.X, n.Y, n.Z)
		}
	}
	push(nose, right, top)
	push(nose, top, left)
	push(nose, left, right)
	push(left, top, right)

	m := mesh.NewFromBuffers(verts, nil)
	m.Groups[0].Material = "marker"
	return m
}

// trackMaterial is the surface written alongside the baked geometry.
func trackMaterial() formats.Material {
	return formats.Material{
		Ambient:   [3]float32{0.2, 0.2, 0.2},
		Diffuse:   [3]float32{0.6, 0.6, 0.6},
		Specular:  [3]float32{0.3, 0.3, 0.3},
		Shininess: 16,
	}
}

package editor

import (
	"testing"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

func testConfig(dir string) config.EditorConfig {
	cfg := config.Default().Editor
	cfg.OutputDir = dir
	return cfg
}

func quietLogger(t *testing.T) {
	t.Helper()
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		t.Fatalf("logger init: %v", err)
	}
}

func sketchSquare(s *Session) {
	s.AddPoint(0, 0)
	s.AddPoint(10, 0)
	s.AddPoint(10, 10)
	s.AddPoint(0, 10)
}

func TestHeightStepping(t *testing.T) {
	quietLogger(t)
	s := New(testConfig(t.TempDir()))

	// Height editing with no points is a no-op.
	s.RaiseHeight()

	s.AddPoint(1, 2)
	s.RaiseHeight()
	s.RaiseHeight()
	if got := s.Points()[0].Z; got != 0.6 {
		t.Errorf("height = %v, want 0.6", got)
	}

	// Clamp at the configured maximum.
	for i := 0; i < 100; i++ {
		s.RaiseHeight()
	}
	if got := s.Points()[0].Z; got != 5.0 {
		t.Errorf("height = %v, want clamped to 5.0", got)
	}

	// And at zero on the way down.
	for i := 0; i < 100; i++ {
		s.LowerHeight()
	}
	if got := s.Points()[0].Z; got != 0 {
		t.Errorf("height = %v, want floored at 0", got)
	}
}

func TestRemoveLast(t *testing.T) {
	quietLogger(t)
	s := New(testConfig(t.TempDir()))
	s.AddPoint(1, 1)
	s.AddPoint(2, 2)
	s.RemoveLast()

	if len(s.Points()) != 1 || s.Points()[0].X != 1 {
		t.Errorf("points = %v", s.Points())
	}
	s.RemoveLast()
	s.RemoveLast() // no-op on empty
	if len(s.Points()) != 0 {
		t.Errorf("points = %v, want empty", s.Points())
	}
}

func TestCanBake(t *testing.T) {
	quietLogger(t)
	s := New(testConfig(t.TempDir()))
	sketchSquare(s)
	if !s.CanBake() {
		t.Error("4 points should be bakeable")
	}
	s.RemoveLast()
	if s.CanBake() {
		t.Error("3 points should not be bakeable")
	}
}

func TestBake_TooFewPoints(t *testing.T) {
	quietLogger(t)
	s := New(testConfig(t.TempDir()))
	s.AddPoint(0, 0)

	if _, err := s.Bake(100); err == nil {
		t.Error("expected error baking a 1-point sketch")
	}
}

func TestBake_WritesSceneFiles(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	s := New(testConfig(dir))
	sketchSquare(s)
	s.RaiseHeight() // last point gets height 0.3

	res, err := s.Bake(100)
	if err != nil {
		t.Fatalf("bake: %v", err)
	}

	// Geometry: the square sampled at density 50 gives (4-3)*51 center
	// samples, each contributing one quad (two triangles).
	obj, err := formats.ParseOBJFile(res.ObjPath)
	if err != nil {
		t.Fatalf("reading baked geometry: %v", err)
	}
	wantCenters := 51
	if obj.FaceCount() != 2*wantCenters {
		t.Errorf("baked faces = %d, want %d", obj.FaceCount(), 2*wantCenters)
	}
	if obj.Groups[len(obj.Groups)-1].Material != "track" {
		t.Errorf("baked material group missing: %+v", obj.Groups)
	}

	// The sketch plane maps into the viewer frame: heights end up on Y,
	// so every baked position keeps Y within the height range.
	for _, p := range obj.Positions {
		if p.Y < 0 || p.Y > 5 {
			t.Fatalf("baked height out of range: %v", p)
		}
	}

	mat, _, err := formats.ParseMTLFile(res.MtlPath)
	if err != nil {
		t.Fatalf("reading baked material: %v", err)
	}
	if mat.Diffuse == ([3]float32{}) {
		t.Error("baked material has no diffuse color")
	}

	waypoints, _, err := formats.ParseWaypointsFile(res.AnimPath)
	if err != nil {
		t.Fatalf("reading waypoints: %v", err)
	}
	if len(waypoints) != wantCenters {
		t.Errorf("waypoints = %d, want %d", len(waypoints), wantCenters)
	}

	doc, err := formats.ParseSceneFile(res.ScenePath, formats.DefaultGlobalConfig())
	if err != nil {
		t.Fatalf("reading scene: %v", err)
	}
	if len(doc.Meshes) != 2 || doc.Meshes[0].ObjFile != ObjFileName {
		t.Errorf("scene meshes = %+v", doc.Meshes)
	}
	if len(doc.Curves) != 1 {
		t.Fatalf("scene curves = %+v", doc.Curves)
	}
	curve := doc.Curves[0]
	if len(curve.ControlPoints) != 4 || curve.PointsPerSegment != 100 {
		t.Errorf("curve = %+v", curve)
	}
	if curve.Color != [4]float32{1, 0, 0, 1} {
		t.Errorf("curve color = %v", curve.Color)
	}
	// The raised point's height moved to the Y axis.
	if got := curve.ControlPoints[3]; got != (math.Vec3{X: 0, Y: 0.3, Z: 10}) {
		t.Errorf("swapped control point = %v", got)
	}
}

func TestBake_WritesFollowerMarker(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	s := New(testConfig(dir))
	sketchSquare(s)

	res, err := s.Bake(100)
	if err != nil {
		t.Fatalf("bake: %v", err)
	}

	// The marker is a small closed arrowhead with one face per side.
	marker, err := formats.ParseOBJFile(res.MarkerPath)
	if err != nil {
		t.Fatalf("reading marker geometry: %v", err)
	}
	if marker.FaceCount() != 4 {
		t.Errorf("marker faces = %d, want 4", marker.FaceCount())
	}
	for _, n := range marker.Normals {
		if n == (math.Vec3{}) {
			t.Error("marker has a zero normal")
			break
		}
	}

	// The scene attaches the waypoint file to the marker, not the track.
	doc, err := formats.ParseSceneFile(res.ScenePath, formats.DefaultGlobalConfig())
	if err != nil {
		t.Fatalf("reading scene: %v", err)
	}
	if len(doc.Meshes) != 2 {
		t.Fatalf("scene meshes = %+v", doc.Meshes)
	}
	if doc.Meshes[0].AnimationFile != "" {
		t.Errorf("track mesh got an animation file: %+v", doc.Meshes[0])
	}
	follower := doc.Meshes[1]
	if follower.Name != "marker" || follower.ObjFile != MarkerFileName {
		t.Errorf("follower mesh = %+v", follower)
	}
	if follower.AnimationFile != AnimFileName {
		t.Errorf("follower animation = %q, want %q", follower.AnimationFile, AnimFileName)
	}
}

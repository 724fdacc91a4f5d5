package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// fakeGraphics counts handle traffic without a GPU.
type fakeGraphics struct {
	next         uint32
	meshesLive   int
	linesLive    int
	texturesLive int
	textureLoads []string
	failNextMesh bool
}

func (f *fakeGraphics) CreateHandle(vertices []float32) (uint32, error) {
	if f.failNextMesh {
		return 0, os.ErrInvalid
	}
	f.next++
	f.meshesLive++
	return f.next, nil
}

func (f *fakeGraphics) DestroyHandle(handle uint32) {
	f.meshesLive--
}

func (f *fakeGraphics) CreateLine(points []math.Vec3) (uint32, error) {
	f.next++
	f.linesLive++
	return f.next, nil
}

func (f *fakeGraphics) DestroyLine(handle uint32) {
	f.linesLive--
}

func (f *fakeGraphics) LoadTexture(path string) uint32 {
	f.textureLoads = append(f.textureLoads, path)
	f.next++
	f.texturesLive++
	return f.next
}

func (f *fakeGraphics) DestroyTexture(handle uint32) {
	if handle == 0 {
		return
	}
	f.texturesLive--
}

func quietLogger(t *testing.T) {
	t.Helper()
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		t.Fatalf("logger init: %v", err)
	}
}

// writeTestScene lays out a complete baked scene in dir and returns the
// scene file path.
func writeTestScene(t *testing.T, dir string) string {
	t.Helper()

	objSrc := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 1 0
usemtl track
f 1/1/1 2/2/1 3/3/1
`
	if err := os.WriteFile(filepath.Join(dir, "track.obj"), []byte(objSrc), 0644); err != nil {
		t.Fatal(err)
	}

	mtlSrc := `Ka 0.2 0.2 0.2
Kd 0.6 0.6 0.6
Ks 0.3 0.3 0.3
Ns 16
`
	if err := os.WriteFile(filepath.Join(dir, "track.mtl"), []byte(mtlSrc), 0644); err != nil {
		t.Fatal(err)
	}

	animSrc := "0 0 0\n1 0 0\n1 0 1\n0 0 1\n"
	if err := os.WriteFile(filepath.Join(dir, "animation.txt"), []byte(animSrc), 0644); err != nil {
		t.Fatal(err)
	}

	sceneSrc := `Type GlobalConfig Config
Fov 60
End
Type Mesh track
Obj track.obj
Mtl track.mtl
AnimationFile animation.txt
End
Type BSplineCurve path
ControlPoint 0 0 0
ControlPoint 1 0 0
ControlPoint 1 0 1
ControlPoint 0 0 1
PointsPerSegment 10
Color 1 0 0 1
End
`
	scenePath := filepath.Join(dir, "Scene.txt")
	if err := os.WriteFile(scenePath, []byte(sceneSrc), 0644); err != nil {
		t.Fatal(err)
	}
	return scenePath
}

func TestLoad_MissingSceneFile(t *testing.T) {
	quietLogger(t)
	gfx := &fakeGraphics{}

	sc := Load(filepath.Join(t.TempDir(), "nope.txt"), config.Default().Scene, gfx)

	if len(sc.Objects) != 0 || len(sc.Curves) != 0 {
		t.Errorf("missing scene produced content: %+v", sc)
	}
	if sc.Global != formats.DefaultGlobalConfig() {
		t.Errorf("missing scene changed defaults")
	}
}

func TestLoad_FullScene(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	gfx := &fakeGraphics{}

	sc := Load(writeTestScene(t, dir), config.Default().Scene, gfx)

	if sc.Global.FOV != 60 {
		t.Errorf("global config not applied: FOV = %v", sc.Global.FOV)
	}
	if len(sc.Objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(sc.Objects))
	}
	obj := sc.Objects[0]
	if obj.Name != "track" || obj.Mesh.FaceCount() != 1 {
		t.Errorf("object = %+v", obj)
	}
	if obj.Material.Shininess != 16 {
		t.Errorf("material not loaded: %+v", obj.Material)
	}
	if len(obj.Waypoints) != 4 {
		t.Errorf("waypoints = %d, want 4", len(obj.Waypoints))
	}
	if gfx.meshesLive != 1 {
		t.Errorf("mesh handles = %d, want 1", gfx.meshesLive)
	}

	if len(sc.Curves) != 1 {
		t.Fatalf("curves = %d, want 1", len(sc.Curves))
	}
	// 4 control points at density 10: one segment, 11 samples.
	if len(sc.Curves[0].Points) != 11 {
		t.Errorf("curve samples = %d, want 11", len(sc.Curves[0].Points))
	}
	if gfx.linesLive != 1 {
		t.Errorf("line handles = %d, want 1", gfx.linesLive)
	}
}

func TestLoad_MissingGeometryDropsObject(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	sceneSrc := `Type Mesh ghost
Obj missing.obj
End
`
	scenePath := filepath.Join(dir, "Scene.txt")
	if err := os.WriteFile(scenePath, []byte(sceneSrc), 0644); err != nil {
		t.Fatal(err)
	}

	gfx := &fakeGraphics{}
	sc := Load(scenePath, config.Default().Scene, gfx)

	if len(sc.Objects) != 0 {
		t.Errorf("objects = %d, want 0", len(sc.Objects))
	}
	if gfx.meshesLive != 0 {
		t.Errorf("mesh handles leaked: %d", gfx.meshesLive)
	}
}

func TestLoad_MissingMaterialUsesDefault(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	scenePath := writeTestScene(t, dir)
	os.Remove(filepath.Join(dir, "track.mtl"))

	gfx := &fakeGraphics{}
	sc := Load(scenePath, config.Default().Scene, gfx)

	if len(sc.Objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(sc.Objects))
	}
	if sc.Objects[0].Material.Diffuse == ([3]float32{}) {
		t.Error("default material has no diffuse color")
	}
}

func TestUpdate_StepsAndWraps(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	gfx := &fakeGraphics{}
	sc := Load(writeTestScene(t, dir), config.Default().Scene, gfx)

	obj := sc.Objects[0]
	// Default rate is 30 steps per second: 0.1s advances 3 steps.
	sc.Update(0.1)
	if obj.step != 3 {
		t.Errorf("step = %d, want 3", obj.step)
	}
	// Two more steps wrap past the 4-waypoint loop.
	sc.Update(0.07)
	if obj.step != 1 {
		t.Errorf("step = %d, want wrapped to 1", obj.step)
	}
}

func TestModelMatrix_FollowsWaypoints(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	gfx := &fakeGraphics{}
	sc := Load(writeTestScene(t, dir), config.Default().Scene, gfx)

	obj := sc.Objects[0]
	m := obj.ModelMatrix()

	// Translation column holds the current waypoint (0, 0, 0).
	if m[12] != 0 || m[13] != 0 || m[14] != 0 {
		t.Errorf("translation = (%v, %v, %v)", m[12], m[13], m[14])
	}

	sc.Update(0.04)
	m = obj.ModelMatrix()
	if m[12] != 1 || m[13] != 0 || m[14] != 0 {
		t.Errorf("translation after one step = (%v, %v, %v)", m[12], m[13], m[14])
	}
}

func TestModelMatrix_Static(t *testing.T) {
	quietLogger(t)
	obj := &Object{
		Position: math.Vec3{X: 2, Y: 3, Z: 4},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
	m := obj.ModelMatrix()
	if m[12] != 2 || m[13] != 3 || m[14] != 4 {
		t.Errorf("translation = (%v, %v, %v)", m[12], m[13], m[14])
	}
}

func TestClose_ReleasesEverything(t *testing.T) {
	quietLogger(t)
	dir := t.TempDir()
	gfx := &fakeGraphics{}
	sc := Load(writeTestScene(t, dir), config.Default().Scene, gfx)

	sc.Close(gfx)

	if gfx.meshesLive != 0 || gfx.linesLive != 0 || gfx.texturesLive != 0 {
		t.Errorf("handles leaked: meshes %d, lines %d, textures %d",
			gfx.meshesLive, gfx.linesLive, gfx.texturesLive)
	}
}

// Package scene loads a baked scene document and owns the runtime state
// of everything in it: uploaded meshes, displayed curves, and waypoint
// animation. Missing or broken files degrade to defaults with a logged
// diagnostic; loading never aborts the session.
package scene

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
	"github.com/Faultbox/trackforge/pkg/mesh"
	"github.com/Faultbox/trackforge/pkg/spline"
)

// Graphics is the renderer surface the scene needs: mesh upload plus line
// and texture handles.
type Graphics interface {
	mesh.Uploader
	CreateLine(points []math.Vec3) (uint32, error)
	DestroyLine(handle uint32)
	LoadTexture(path string) uint32
	DestroyTexture(handle uint32)
}

// Object is one placed mesh: geometry, surface, transform, and optional
// waypoint animation.
type Object struct {
	Name     string
	Mesh     *mesh.Mesh
	Material formats.Material
	Texture  uint32

	Scale            math.Vec3
	Position         math.Vec3
	RotationAxis     math.Vec3
	Angle            math.Vec3
	IncrementalAngle bool

	Waypoints []math.Vec3

	// Animation state
	step    int
	stepAcc float64
	spin    float32
}

// Curve is one displayed curve: the evaluated polyline and its color.
type Curve struct {
	Name   string
	Points []math.Vec3
	Color  [4]float32
	Handle uint32
}

// Scene is a loaded scene session.
type Scene struct {
	Global  formats.GlobalConfig
	Objects []*Object
	Curves  []*Curve

	rate float64
}

// Load reads the scene document at path and builds the runtime scene. A
// missing document yields an empty scene with default settings; a missing
// geometry or material file degrades that object and keeps going.
func Load(path string, cfg config.SceneConfig, gfx Graphics) *Scene {
	sc := &Scene{
		Global: formats.DefaultGlobalConfig(),
		rate:   cfg.AnimationRate,
	}

	doc, err := formats.ParseSceneFile(path, formats.DefaultGlobalConfig())
	if err != nil {
		logger.Warn("scene file missing, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		return sc
	}
	for _, w := range doc.Warnings {
		logger.Warn("scene document", zap.String("detail", w))
	}
	sc.Global = doc.Global

	baseDir := filepath.Dir(path)

	for i := range doc.Meshes {
		if obj := loadObject(&doc.Meshes[i], baseDir, gfx); obj != nil {
			sc.Objects = append(sc.Objects, obj)
		}
	}

	for i := range doc.Curves {
		def := &doc.Curves[i]
		density := def.PointsPerSegment
		if density <= 0 {
			density = cfg.CurveDensity
		}
		points := spline.Evaluate(def.ControlPoints, density)
		if len(points) == 0 {
			logger.Warn("curve has too few control points",
				zap.String("name", def.Name),
				zap.Int("control_points", len(def.ControlPoints)),
			)
			continue
		}
		curve := &Curve{Name: def.Name, Points: points, Color: def.Color}
		handle, err := gfx.CreateLine(points)
		if err != nil {
			logger.Warn("curve upload failed", zap.String("name", def.Name), zap.Error(err))
			continue
		}
		curve.Handle = handle
		sc.Curves = append(sc.Curves, curve)
	}

	logger.Info("scene loaded",
		zap.String("path", path),
		zap.Int("objects", len(sc.Objects)),
		zap.Int("curves", len(sc.Curves)),
	)
	return sc
}

// loadObject builds one Object from its definition. Geometry that cannot
// be read or uploaded drops the object; everything else degrades.
func loadObject(def *formats.MeshDef, baseDir string, gfx Graphics) *Object {
	objDoc, err := formats.ParseOBJFile(resolve(baseDir, def.ObjFile))
	if err != nil {
		logger.Warn("geometry file missing, dropping object",
			zap.String("object", def.Name),
			zap.String("path", def.ObjFile),
			zap.Error(err),
		)
		return nil
	}
	for _, w := range objDoc.Warnings {
		logger.Warn("geometry document", zap.String("object", def.Name), zap.String("detail", w))
	}

	material := formats.Material{Diffuse: [3]float32{0.8, 0.8, 0.8}}
	if def.MtlFile != "" {
		mat, warnings, err := formats.ParseMTLFile(resolve(baseDir, def.MtlFile))
		if err != nil {
			logger.Warn("material file missing, using default",
				zap.String("object", def.Name),
				zap.String("path", def.MtlFile),
				zap.Error(err),
			)
		} else {
			material = mat
			for _, w := range warnings {
				logger.Warn("material document", zap.String("object", def.Name), zap.String("detail", w))
			}
		}
	}

	obj := &Object{
		Name:             def.Name,
		Mesh:             mesh.NewFromDocument(objDoc),
		Material:         material,
		Scale:            def.Scale,
		Position:         def.Position,
		RotationAxis:     def.RotationAxis,
		Angle:            def.Angle,
		IncrementalAngle: def.IncrementalAngle,
	}

	if err := obj.Mesh.Upload(gfx); err != nil {
		logger.Warn("mesh upload failed, dropping object",
			zap.String("object", def.Name),
			zap.Error(err),
		)
		return nil
	}

	if material.Texture != "" {
		// 0 means untextured; LoadTexture already logged the reason.
		obj.Texture = gfx.LoadTexture(resolve(baseDir, material.Texture))
	}

	if def.AnimationFile != "" {
		points, warnings, err := formats.ParseWaypointsFile(resolve(baseDir, def.AnimationFile))
		if err != nil {
			logger.Warn("animation file missing, object stays static",
				zap.String("object", def.Name),
				zap.String("path", def.AnimationFile),
				zap.Error(err),
			)
		} else {
			for _, w := range warnings {
				logger.Warn("animation document", zap.String("object", def.Name), zap.String("detail", w))
			}
			obj.Waypoints = points
		}
	}

	return obj
}

// resolve joins a scene-relative file reference with the scene directory.
func resolve(baseDir, ref string) string {
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	if _, err := os.Stat(ref); err == nil {
		return ref
	}
	return filepath.Join(baseDir, ref)
}

// Update advances animation state by dt seconds: waypoint followers step
// at the configured rate and wrap at the end; incremental-angle objects
// keep spinning around their rotation axis.
func (s *Scene) Update(dt float64) {
	for _, obj := range s.Objects {
		if len(obj.Waypoints) > 1 {
			obj.stepAcc += dt * s.rate
			for obj.stepAcc >= 1 {
				obj.stepAcc--
				obj.step = (obj.step + 1) % len(obj.Waypoints)
			}
		}
		if obj.IncrementalAngle {
			obj.spin += float32(dt) * 60
		}
	}
}

// ModelMatrix returns the object's current model transform. Waypoint
// followers sit at their current waypoint oriented along the path tangent;
// static objects use their declared position and angles.
func (o *Object) ModelMatrix() math.Mat4 {
	scale := math.Scale(o.Scale.X, o.Scale.Y, o.Scale.Z)

	if len(o.Waypoints) > 1 {
		cur := o.Waypoints[o.step]
		next := o.Waypoints[(o.step+1)%len(o.Waypoints)]

		forward := next.Sub(cur).Normalize()
		worldUp := math.Vec3{Y: 1}
		right := worldUp.Cross(forward).Normalize()
		up := forward.Cross(right)

		m := math.Translate(cur.X, cur.Y, cur.Z)
		m = m.Mul(math.FromBasis(right, up, forward))
		return m.Mul(scale)
	}

	m := math.Translate(o.Position.X, o.Position.Y, o.Position.Z)
	m = m.Mul(math.RotateX(math.Radians(o.Angle.X)))
	m = m.Mul(math.RotateY(math.Radians(o.Angle.Y)))
	m = m.Mul(math.RotateZ(math.Radians(o.Angle.Z)))
	if o.IncrementalAngle {
		axis := o.RotationAxis
		if axis.Y != 0 {
			m = m.Mul(math.RotateY(math.Radians(o.spin)))
		} else if axis.X != 0 {
			m = m.Mul(math.RotateX(math.Radians(o.spin)))
		} else if axis.Z != 0 {
			m = m.Mul(math.RotateZ(math.Radians(o.spin)))
		}
	}
	return m.Mul(scale)
}

// Close is the teardown sweep: it releases every handle the scene created.
// Handles are never released anywhere else; a scene lives until shutdown.
func (s *Scene) Close(gfx Graphics) {
	for _, obj := range s.Objects {
		obj.Mesh.Release(gfx)
		gfx.DestroyTexture(obj.Texture)
	}
	for _, curve := range s.Curves {
		gfx.DestroyLine(curve.Handle)
	}
	logger.Info("scene closed",
		zap.Int("objects", len(s.Objects)),
		zap.Int("curves", len(s.Curves)),
	)
}

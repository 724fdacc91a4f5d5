package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// GlobalConfig holds the scene-wide render settings: lighting, camera,
// projection, camera controls, light attenuation, and fog.
type GlobalConfig struct {
	LightPos    math.Vec3
	LightColor  math.Vec3
	CameraPos   math.Vec3
	CameraFront math.Vec3

	FOV       float32
	NearPlane float32
	FarPlane  float32

	Sensitivity float32
	CameraSpeed float32

	AttConstant  float32
	AttLinear    float32
	AttQuadratic float32

	FogColor math.Vec3
	FogStart float32
	FogEnd   float32
}

// DefaultGlobalConfig returns the settings a scene starts from; a parsed
// GlobalConfig block overrides only the keys it names.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		LightPos:     math.Vec3{X: 10, Y: 10, Z: 10},
		LightColor:   math.Vec3{X: 1, Y: 1, Z: 1},
		CameraPos:    math.Vec3{X: 0, Y: 5, Z: 10},
		CameraFront:  math.Vec3{X: 0, Y: 0, Z: -1},
		FOV:          45,
		NearPlane:    0.1,
		FarPlane:     100,
		Sensitivity:  0.1,
		CameraSpeed:  0.05,
		AttConstant:  1,
		AttLinear:    0.09,
		AttQuadratic: 0.032,
		FogColor:     math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		FogStart:     5,
		FogEnd:       50,
	}
}

// MeshDef describes one Mesh block: the geometry and material files to load
// and the object's transform. The referenced files are not touched here;
// resolving them is the scene loader's job.
type MeshDef struct {
	Name             string
	ObjFile          string
	MtlFile          string
	Scale            math.Vec3
	Position         math.Vec3
	RotationAxis     math.Vec3
	Angle            math.Vec3 // Euler angles, degrees
	IncrementalAngle bool
	AnimationFile    string
}

// CurveDef describes one BSplineCurve block.
type CurveDef struct {
	Name             string
	ControlPoints    []math.Vec3
	PointsPerSegment int
	Color            [4]float32
}

// SceneDoc is a parsed scene document.
type SceneDoc struct {
	Global GlobalConfig
	Meshes []MeshDef
	Curves []CurveDef

	// Warnings lists malformed lines that were skipped.
	Warnings []string
}

// defaultMeshDef returns the field values an omitted Mesh key retains.
func defaultMeshDef() MeshDef {
	return MeshDef{
		Scale: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// defaultCurveDef returns the field values an omitted BSplineCurve key
// retains.
func defaultCurveDef() CurveDef {
	return CurveDef{
		Color: [4]float32{1, 1, 1, 1},
	}
}

// ParseScene parses a scene document. Blocks open with "Type <Kind> <Name>"
// and close with a line containing only "End"; interior "Key value..."
// lines may appear in any order. Unknown keys and kinds are ignored,
// omitted keys keep their defaults, and malformed lines are skipped with a
// warning. The supplied defaults seed the global config so a document
// without a GlobalConfig block still yields usable settings.
func ParseScene(data []byte, defaults GlobalConfig) *SceneDoc {
	doc := &SceneDoc{Global: defaults}

	var kind, name string
	mesh := defaultMeshDef()
	curve := defaultCurveDef()

	warnf := func(line int, format string, args ...any) {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
	}

	lineNo := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		key, values := fields[0], fields[1:]

		switch key {
		case "Type":
			if len(values) < 2 {
				warnf(lineNo, "Type needs a kind and a name")
				continue
			}
			kind, name = values[0], values[1]
			mesh = defaultMeshDef()
			curve = defaultCurveDef()

		case "End":
			switch kind {
			case "GlobalConfig":
				// Values were applied in place.
			case "Mesh":
				mesh.Name = name
				doc.Meshes = append(doc.Meshes, mesh)
			case "BSplineCurve":
				curve.Name = name
				doc.Curves = append(doc.Curves, curve)
			}
			kind, name = "", ""

		default:
			switch kind {
			case "GlobalConfig":
				if !applyGlobalKey(&doc.Global, key, values) {
					warnf(lineNo, "malformed %s", key)
				}
			case "Mesh":
				if !applyMeshKey(&mesh, key, values) {
					warnf(lineNo, "malformed %s", key)
				}
			case "BSplineCurve":
				if !applyCurveKey(&curve, key, values) {
					warnf(lineNo, "malformed %s", key)
				}
			}
		}
	}

	return doc
}

// applyGlobalKey applies one GlobalConfig key. Returns false for a
// recognized key with malformed values; unknown keys are silently true.
func applyGlobalKey(g *GlobalConfig, key string, values []string) bool {
	setVec := func(dst *math.Vec3) bool {
		v, ok := parseVec3(values)
		if ok {
			*dst = v
		}
		return ok
	}
	setFloat := func(dst *float32) bool {
		f, ok := parseFloats(values, 1)
		if ok {
			*dst = f[0]
		}
		return ok
	}

	switch key {
	case "LightPos":
		return setVec(&g.LightPos)
	case "LightColor":
		return setVec(&g.LightColor)
	case "CameraPos":
		return setVec(&g.CameraPos)
	case "CameraFront":
		return setVec(&g.CameraFront)
	case "Fov":
		return setFloat(&g.FOV)
	case "NearPlane":
		return setFloat(&g.NearPlane)
	case "FarPlane":
		return setFloat(&g.FarPlane)
	case "Sensitivity":
		return setFloat(&g.Sensitivity)
	case "CameraSpeed":
		return setFloat(&g.CameraSpeed)
	case "AttConstant":
		return setFloat(&g.AttConstant)
	case "AttLinear":
		return setFloat(&g.AttLinear)
	case "AttQuadratic":
		return setFloat(&g.AttQuadratic)
	case "FogColor":
		return setVec(&g.FogColor)
	case "FogStart":
		return setFloat(&g.FogStart)
	case "FogEnd":
		return setFloat(&g.FogEnd)
	}
	return true
}

// applyMeshKey applies one Mesh key.
func applyMeshKey(m *MeshDef, key string, values []string) bool {
	switch key {
	case "Obj":
		if len(values) < 1 {
			return false
		}
		m.ObjFile = values[0]
	case "Mtl":
		if len(values) < 1 {
			return false
		}
		m.MtlFile = values[0]
	case "Scale":
		v, ok := parseVec3(values)
		if !ok {
			return false
		}
		m.Scale = v
	case "Position":
		v, ok := parseVec3(values)
		if !ok {
			return false
		}
		m.Position = v
	case "Rotation":
		v, ok := parseVec3(values)
		if !ok {
			return false
		}
		m.RotationAxis = v
	case "Angle":
		v, ok := parseVec3(values)
		if !ok {
			return false
		}
		m.Angle = v
	case "IncrementalAngle":
		if len(values) < 1 {
			return false
		}
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return false
		}
		m.IncrementalAngle = n != 0
	case "AnimationFile":
		if len(values) < 1 {
			return false
		}
		m.AnimationFile = values[0]
	}
	return true
}

// applyCurveKey applies one BSplineCurve key.
func applyCurveKey(c *CurveDef, key string, values []string) bool {
	switch key {
	case "ControlPoint":
		v, ok := parseVec3(values)
		if !ok {
			return false
		}
		c.ControlPoints = append(c.ControlPoints, v)
	case "PointsPerSegment":
		if len(values) < 1 {
			return false
		}
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return false
		}
		c.PointsPerSegment = n
	case "Color":
		f, ok := parseFloats(values, 4)
		if !ok {
			return false
		}
		copy(c.Color[:], f)
	}
	return true
}

// WriteScene serializes a scene document: the GlobalConfig block, then one
// Mesh block per object, then one BSplineCurve block per curve.
func WriteScene(doc *SceneDoc) []byte {
	var sb strings.Builder

	writeKeyVec := func(key string, v math.Vec3) {
		sb.WriteString(key)
		sb.WriteByte(' ')
		writeVec3(&sb, v)
		sb.WriteByte('\n')
	}
	writeKeyFloat := func(key string, f float32) {
		sb.WriteString(key)
		sb.WriteByte(' ')
		sb.WriteString(fmtFloat(f))
		sb.WriteByte('\n')
	}

	g := doc.Global
	sb.WriteString("Type GlobalConfig Config\n")
	writeKeyVec("LightPos", g.LightPos)
	writeKeyVec("LightColor", g.LightColor)
	writeKeyVec("CameraPos", g.CameraPos)
	writeKeyVec("CameraFront", g.CameraFront)
	writeKeyFloat("Fov", g.FOV)
	writeKeyFloat("NearPlane", g.NearPlane)
	writeKeyFloat("FarPlane", g.FarPlane)
	writeKeyFloat("Sensitivity", g.Sensitivity)
	writeKeyFloat("CameraSpeed", g.CameraSpeed)
	writeKeyFloat("AttConstant", g.AttConstant)
	writeKeyFloat("AttLinear", g.AttLinear)
	writeKeyFloat("AttQuadratic", g.AttQuadratic)
	writeKeyVec("FogColor", g.FogColor)
	writeKeyFloat("FogStart", g.FogStart)
	writeKeyFloat("FogEnd", g.FogEnd)
	sb.WriteString("End\n")

	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		fmt.Fprintf(&sb, "Type Mesh %s\n", m.Name)
		fmt.Fprintf(&sb, "Obj %s\n", m.ObjFile)
		fmt.Fprintf(&sb, "Mtl %s\n", m.MtlFile)
		writeKeyVec("Scale", m.Scale)
		writeKeyVec("Position", m.Position)
		writeKeyVec("Rotation", m.RotationAxis)
		writeKeyVec("Angle", m.Angle)
		inc := 0
		if m.IncrementalAngle {
			inc = 1
		}
		fmt.Fprintf(&sb, "IncrementalAngle %d\n", inc)
		if m.AnimationFile != "" {
			fmt.Fprintf(&sb, "AnimationFile %s\n", m.AnimationFile)
		}
		sb.WriteString("End\n")
	}

	for i := range doc.Curves {
		c := &doc.Curves[i]
		fmt.Fprintf(&sb, "Type BSplineCurve %s\n", c.Name)
		for _, cp := range c.ControlPoints {
			sb.WriteString("ControlPoint ")
			writeVec3(&sb, cp)
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "PointsPerSegment %d\n", c.PointsPerSegment)
		sb.WriteString("Color")
		for _, f := range c.Color {
			sb.WriteByte(' ')
			sb.WriteString(fmtFloat(f))
		}
		sb.WriteByte('\n')
		sb.WriteString("End\n")
	}

	return []byte(sb.String())
}

// ParseSceneFile parses a scene document from disk.
func ParseSceneFile(path string, defaults GlobalConfig) (*SceneDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseScene(data, defaults), nil
}

// WriteSceneFile writes a scene document to disk.
func WriteSceneFile(doc *SceneDoc, path string) error {
	if err := os.WriteFile(path, WriteScene(doc), 0644); err != nil {
		return fmt.Errorf("writing scene file: %w", err)
	}
	return nil
}

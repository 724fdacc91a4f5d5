package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Material holds the surface properties read from an MTL file: phong
// reflection coefficients, a shininess exponent, and an optional diffuse
// texture file name.
type Material struct {
	Ambient   [3]float32 // Ka
	Diffuse   [3]float32 // Kd
	Specular  [3]float32 // Ks
	Shininess float32    // Ns
	Texture   string     // map_Kd
}

// ParseMTL parses the MTL subset: Ka, Kd, Ks, Ns, and map_Kd. Unknown
// directives are ignored. Malformed records are skipped and reported in the
// returned warnings; parsing never fails.
func ParseMTL(data []byte) (Material, []string) {
	var mat Material
	var warnings []string

	warnf := func(line int, msg string) {
		warnings = append(warnings, fmt.Sprintf("line %d: %s", line, msg))
	}

	lineNo := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "Ka":
			f, ok := parseFloats(fields[1:], 3)
			if !ok {
				warnf(lineNo, "malformed Ka")
				continue
			}
			copy(mat.Ambient[:], f)
		case "Kd":
			f, ok := parseFloats(fields[1:], 3)
			if !ok {
				warnf(lineNo, "malformed Kd")
				continue
			}
			copy(mat.Diffuse[:], f)
		case "Ks":
			f, ok := parseFloats(fields[1:], 3)
			if !ok {
				warnf(lineNo, "malformed Ks")
				continue
			}
			copy(mat.Specular[:], f)
		case "Ns":
			f, ok := parseFloats(fields[1:], 1)
			if !ok {
				warnf(lineNo, "malformed Ns")
				continue
			}
			mat.Shininess = f[0]
		case "map_Kd":
			if len(fields) < 2 {
				warnf(lineNo, "map_Kd without a file name")
				continue
			}
			mat.Texture = fields[1]
		}
	}

	return mat, warnings
}

// WriteMTL serializes a material.
func WriteMTL(mat Material) []byte {
	var sb strings.Builder

	writeTriple := func(key string, v [3]float32) {
		sb.WriteString(key)
		for _, f := range v {
			sb.WriteByte(' ')
			sb.WriteString(fmtFloat(f))
		}
		sb.WriteByte('\n')
	}

	writeTriple("Ka", mat.Ambient)
	writeTriple("Kd", mat.Diffuse)
	writeTriple("Ks", mat.Specular)
	sb.WriteString("Ns ")
	sb.WriteString(fmtFloat(mat.Shininess))
	sb.WriteByte('\n')
	if mat.Texture != "" {
		sb.WriteString("map_Kd ")
		sb.WriteString(mat.Texture)
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) (Material, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Material{}, nil, fmt.Errorf("reading MTL file: %w", err)
	}
	mat, warnings := ParseMTL(data)
	return mat, warnings, nil
}

// WriteMTLFile writes a material to disk.
func WriteMTLFile(mat Material, path string) error {
	if err := os.WriteFile(path, WriteMTL(mat), 0644); err != nil {
		return fmt.Errorf("writing MTL file: %w", err)
	}
	return nil
}

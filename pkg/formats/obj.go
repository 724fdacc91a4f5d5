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

// FaceVertex is one corner of a triangle: resolved position, texture
// coordinate, and normal values. Indices from the file are resolved at parse
// time; a reference the file never declared resolves to the zero value.
type FaceVertex struct {
	Position math.Vec3
	UV       math.Vec2
	Normal   math.Vec3
}

// Face is a triangle. Source files may declare faces with more corners;
// those are fan-triangulated during parsing, so a Face always has three.
type Face [3]FaceVertex

// Group is a named run of faces sharing one material. A usemtl directive
// starts a new group; faces before the first directive belong to a default
// unnamed group. Groups only ever grow.
type Group struct {
	Name     string
	Material string
	Faces    []Face
}

// OBJ is a parsed geometry document. The three arrays are parallel and
// record every face-vertex occurrence in file order, without deduplication,
// so they always have equal length.
type OBJ struct {
	Positions []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3
	Groups    []Group

	// Warnings lists malformed records that were skipped, one entry per
	// record, with the 1-based line number.
	Warnings []string
}

// VertexCount returns the number of face-vertex occurrences.
func (o *OBJ) VertexCount() int {
	return len(o.Positions)
}

// FaceCount returns the total triangle count across all groups.
func (o *OBJ) FaceCount() int {
	n := 0
	for i := range o.Groups {
		n += len(o.Groups[i].Faces)
	}
	return n
}

// ParseOBJ parses the OBJ geometry subset: v, vt, vn, usemtl, and f lines.
// Unknown directives are ignored. Malformed records are skipped and reported
// in the document's Warnings; parsing never fails.
func ParseOBJ(data []byte) *OBJ {
	doc := &OBJ{
		Groups: []Group{{}}, // default unnamed group
	}

	// Raw declaration pools, in file order. Face records index into these.
	var rawPositions []math.Vec3
	var rawUVs []math.Vec2
	var rawNormals []math.Vec3

	current := 0 // index of the open group

	lineNo := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, ok := parseVec3(fields[1:])
			if !ok {
				doc.warnf(lineNo, "malformed vertex position")
				continue
			}
			rawPositions = append(rawPositions, p)

		case "vt":
			f, ok := parseFloats(fields[1:], 2)
			if !ok {
				doc.warnf(lineNo, "malformed texture coordinate")
				continue
			}
			rawUVs = append(rawUVs, math.Vec2{X: f[0], Y: f[1]})

		case "vn":
			n, ok := parseVec3(fields[1:])
			if !ok {
				doc.warnf(lineNo, "malformed normal")
				continue
			}
			rawNormals = append(rawNormals, n)

		case "usemtl":
			if len(fields) < 2 {
				doc.warnf(lineNo, "usemtl without a material name")
				continue
			}
			doc.Groups = append(doc.Groups, Group{Name: fields[1], Material: fields[1]})
			current = len(doc.Groups) - 1

		case "f":
			records := fields[1:]
			if len(records) < 3 {
				doc.warnf(lineNo, "face with fewer than 3 vertices")
				continue
			}

			corners := make([]FaceVertex, 0, len(records))
			ok := true
			for _, rec := range records {
				fv, valid := resolveRecord(rec, rawPositions, rawUVs, rawNormals)
				if !valid {
					doc.warnf(lineNo, "malformed face record %q", rec)
					ok = false
					break
				}
				corners = append(corners, fv)
			}
			if !ok {
				continue
			}

			// Fan triangulation: (c0, ci, ci+1).
			for i := 1; i+1 < len(corners); i++ {
				face := Face{corners[0], corners[i], corners[i+1]}
				for _, fv := range face {
					doc.Positions = append(doc.Positions, fv.Position)
					doc.UVs = append(doc.UVs, fv.UV)
					doc.Normals = append(doc.Normals, fv.Normal)
				}
				doc.Groups[current].Faces = append(doc.Groups[current].Faces, face)
			}
		}
	}

	return doc
}

// resolveRecord parses one face record in any of the four forms v, v/t,
// v//n, v/t/n and resolves the 1-based indices against the raw pools.
// References to indices the file never declared resolve to the zero value.
func resolveRecord(rec string, positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3) (FaceVertex, bool) {
	var fv FaceVertex

	parts := strings.Split(rec, "/")
	if len(parts) > 3 {
		return fv, false
	}

	vi, err := strconv.Atoi(parts[0])
	if err != nil {
		return fv, false
	}
	if vi >= 1 && vi <= len(positions) {
		fv.Position = positions[vi-1]
	}

	if len(parts) >= 2 && parts[1] != "" {
		ti, err := strconv.Atoi(parts[1])
		if err != nil {
			return fv, false
		}
		if ti >= 1 && ti <= len(uvs) {
			fv.UV = uvs[ti-1]
		}
	}

	if len(parts) == 3 && parts[2] != "" {
		ni, err := strconv.Atoi(parts[2])
		if err != nil {
			return fv, false
		}
		if ni >= 1 && ni <= len(normals) {
			fv.Normal = normals[ni-1]
		}
	}

	return fv, true
}

// WriteOBJ serializes the document: all positions, then all uvs, then all
// normals, then per group a usemtl directive (when named) and one f line per
// face. Face indices are produced by an index map built once over the
// arrays; the first occurrence of a value wins, so bit-identical entries
// collapse to the same index exactly as a linear first-match search would.
func WriteOBJ(doc *OBJ) []byte {
	var sb strings.Builder

	posIndex := make(map[math.Vec3]int, len(doc.Positions))
	for i, p := range doc.Positions {
		sb.WriteString("v ")
		writeVec3(&sb, p)
		sb.WriteByte('\n')
		if _, seen := posIndex[p]; !seen {
			posIndex[p] = i + 1
		}
	}

	uvIndex := make(map[math.Vec2]int, len(doc.UVs))
	for i, uv := range doc.UVs {
		sb.WriteString("vt ")
		sb.WriteString(fmtFloat(uv.X))
		sb.WriteByte(' ')
		sb.WriteString(fmtFloat(uv.Y))
		sb.WriteByte('\n')
		if _, seen := uvIndex[uv]; !seen {
			uvIndex[uv] = i + 1
		}
	}

	normIndex := make(map[math.Vec3]int, len(doc.Normals))
	for i, n := range doc.Normals {
		sb.WriteString("vn ")
		writeVec3(&sb, n)
		sb.WriteByte('\n')
		if _, seen := normIndex[n]; !seen {
			normIndex[n] = i + 1
		}
	}

	for gi := range doc.Groups {
		grp := &doc.Groups[gi]
		if grp.Material != "" {
			sb.WriteString("usemtl ")
			sb.WriteString(grp.Material)
			sb.WriteByte('\n')
		}
		for _, face := range grp.Faces {
			sb.WriteString("f")
			for _, fv := range face {
				sb.WriteByte(' ')
				sb.WriteString(strconv.Itoa(posIndex[fv.Position]))
				sb.WriteByte('/')
				sb.WriteString(strconv.Itoa(uvIndex[fv.UV]))
				sb.WriteByte('/')
				sb.WriteString(strconv.Itoa(normIndex[fv.Normal]))
			}
			sb.WriteByte('\n')
		}
	}

	return []byte(sb.String())
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data), nil
}

// WriteOBJFile writes the document to disk.
func WriteOBJFile(doc *OBJ, path string) error {
	if err := os.WriteFile(path, WriteOBJ(doc), 0644); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return nil
}

func (o *OBJ) warnf(line int, format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

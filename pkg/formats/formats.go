// Package formats provides parsers and writers for the track modeler's text
// file formats: the OBJ geometry subset, the MTL material subset, the scene
// document, and animation waypoint lists.
//
// All formats are line oriented and whitespace tokenized. Parsers never hard
// fail on malformed content: a record with too few tokens is skipped and
// reported as a warning on the returned document, and the rest of the file
// is still used. Missing files are the caller's concern; the File variants
// return the read error and the caller decides whether to degrade.
package formats

import (
	"strconv"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// fmtFloat renders a float32 with the shortest representation that parses
// back to the same value, keeping write/parse round trips exact.
func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// parseFloats converts n whitespace tokens to float32. ok is false when
// there are fewer than n tokens or any token is not a number.
func parseFloats(tokens []string, n int) ([]float32, bool) {
	if len(tokens) < n {
		return nil, false
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}

// parseVec3 converts three tokens to a Vec3.
func parseVec3(tokens []string) (math.Vec3, bool) {
	f, ok := parseFloats(tokens, 3)
	if !ok {
		return math.Vec3{}, false
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, true
}

// writeVec3 appends "x y z" to sb.
func writeVec3(sb *strings.Builder, v math.Vec3) {
	sb.WriteString(fmtFloat(v.X))
	sb.WriteByte(' ')
	sb.WriteString(fmtFloat(v.Y))
	sb.WriteByte(' ')
	sb.WriteString(fmtFloat(v.Z))
}

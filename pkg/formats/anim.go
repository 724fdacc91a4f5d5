package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// ParseWaypoints parses an animation waypoint file: one "x y z" float
// triple per line, file order = playback order. Malformed lines are skipped
// and reported in the returned warnings.
func ParseWaypoints(data []byte) ([]math.Vec3, []string) {
	var points []math.Vec3
	var warnings []string

	lineNo := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		p, ok := parseVec3(fields)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: malformed waypoint", lineNo))
			continue
		}
		points = append(points, p)
	}

	return points, warnings
}

// WriteWaypoints serializes waypoints, one triple per line.
func WriteWaypoints(points []math.Vec3) []byte {
	var sb strings.Builder
	for _, p := range points {
		writeVec3(&sb, p)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// ParseWaypointsFile parses a waypoint file from disk.
func ParseWaypointsFile(path string) ([]math.Vec3, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading waypoint file: %w", err)
	}
	points, warnings := ParseWaypoints(data)
	return points, warnings, nil
}

// WriteWaypointsFile writes waypoints to disk.
func WriteWaypointsFile(points []math.Vec3, path string) error {
	if err := os.WriteFile(path, WriteWaypoints(points), 0644); err != nil {
		return fmt.Errorf("writing waypoint file: %w", err)
	}
	return nil
}

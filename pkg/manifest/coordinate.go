// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"path"
	"strings"
)

// Coordinate is a parsed group:artifact:version triple.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinate splits s into its group, artifact and version. Anything other
// than exactly three non-empty segments yields a *CoordinateParseError.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, &CoordinateParseError{Coordinate: s, Segments: len(parts)}
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, &CoordinateParseError{Coordinate: s, Segments: len(parts)}
		}
	}
	return Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}, nil
}

// String reassembles the coordinate.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Key identifies the coordinate without its version.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// MavenPath returns the repository-relative path of the coordinate's jar:
// group (dots become slashes)/artifact/version/artifact-version.jar.
func (c Coordinate) MavenPath() string {
	return path.Join(
		strings.ReplaceAll(c.Group, ".", "/"),
		c.Artifact,
		c.Version,
		c.Artifact+"-"+c.Version+".jar",
	)
}

// ClassifierPath returns the repository-relative path of a classified jar such
// as a native: .../artifact/version/artifact-version-classifier.jar.
func (c Coordinate) ClassifierPath(classifier string) string {
	return path.Join(
		strings.ReplaceAll(c.Group, ".", "/"),
		c.Artifact,
		c.Version,
		c.Artifact+"-"+c.Version+"-"+classifier+".jar",
	)
}

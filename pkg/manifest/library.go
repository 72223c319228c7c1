// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"strings"
)

const (
	// UnknownSize marks an artifact whose byte length is not declared by the
	// descriptor and must be measured before it can be verified.
	UnknownSize int64 = -1

	// DefaultMavenBase is the repository used for libraries that carry neither
	// a download block nor a repository URL.
	DefaultMavenBase = "https://libraries.minecraft.net/"
)

type (
	// Artifact is a downloadable file with its repository-relative path.
	Artifact struct {
		Path string `json:"path,omitempty"`
		SHA1 string `json:"sha1,omitempty"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	}

	// LibrarySource is where a library's main jar comes from: either a
	// DirectArtifact declared by the descriptor or a MavenCoordinate derived
	// from a repository base URL.
	LibrarySource interface {
		// Location returns the jar's path, URL and size. Size is UnknownSize for
		// Maven-derived sources.
		Location() Artifact
		librarySource()
	}

	// DirectArtifact is a library jar fully described by downloads.artifact.
	DirectArtifact struct {
		Artifact
	}

	// MavenCoordinate is a library jar addressed by repository layout.
	MavenCoordinate struct {
		BaseURL string
		Path    string
		URL     string
	}

	// ExtractRules lists archive entries to skip when unpacking native jars.
	ExtractRules struct {
		Exclude []string `json:"exclude,omitempty"`
	}

	// LibraryEntry is one element of a descriptor's libraries list.
	LibraryEntry struct {
		// Coordinate is the raw group:artifact:version string.
		Coordinate string
		// Source is nil for entries that only carry native classifiers.
		Source LibrarySource
		// NativeClassifiers maps classifier keys such as "natives-linux" to jars.
		NativeClassifiers map[string]Artifact
		// Natives maps OS names to classifier keys. It is recorded in library
		// metadata; native selection uses the natives-<os> keys directly.
		Natives map[string]string
		OSRules []Rule
		Extract *ExtractRules
	}

	libraryWire struct {
		Name      string `json:"name"`
		URL       string `json:"url,omitempty"`
		Downloads *struct {
			Artifact    *Artifact           `json:"artifact,omitempty"`
			Classifiers map[string]Artifact `json:"classifiers,omitempty"`
		} `json:"downloads,omitempty"`
		Natives map[string]string `json:"natives,omitempty"`
		Rules   []Rule            `json:"rules,omitempty"`
		Extract *ExtractRules     `json:"extract,omitempty"`
	}
)

// Location implements LibrarySource.
func (d DirectArtifact) Location() Artifact { return d.Artifact }

func (DirectArtifact) librarySource() {}

// Location implements LibrarySource.
func (m MavenCoordinate) Location() Artifact {
	return Artifact{Path: m.Path, URL: m.URL, Size: UnknownSize}
}

func (MavenCoordinate) librarySource() {}

// NewMavenCoordinate derives a Maven-layout source for coordinate under baseURL.
func NewMavenCoordinate(coordinate, baseURL string) (MavenCoordinate, error) {
	c, err := ParseCoordinate(coordinate)
	if err != nil {
		return MavenCoordinate{}, err
	}
	p := c.MavenPath()
	return MavenCoordinate{
		BaseURL: baseURL,
		Path:    p,
		URL:     strings.TrimRight(baseURL, "/") + "/" + p,
	}, nil
}

// UnmarshalJSON resolves the library's download source once.
func (l *LibraryEntry) UnmarshalJSON(data []byte) error {
	var w libraryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*l = LibraryEntry{
		Coordinate: w.Name,
		Natives:    w.Natives,
		OSRules:    w.Rules,
		Extract:    w.Extract,
	}

	switch {
	case w.Downloads != nil:
		l.NativeClassifiers = w.Downloads.Classifiers
		if w.Downloads.Artifact != nil {
			l.Source = DirectArtifact{Artifact: *w.Downloads.Artifact}
		}
	default:
		base := w.URL
		if base == "" {
			base = DefaultMavenBase
		}
		src, err := NewMavenCoordinate(w.Name, base)
		if err != nil {
			return err
		}
		l.Source = src
	}
	return nil
}

// HasNatives reports whether the entry carries any native classifier.
func (l LibraryEntry) HasNatives() bool {
	return len(l.NativeClassifiers) > 0
}

// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ducklauncher/duck/pkg/manifest"
)

// SchemaVersion is the only store layout this package reads and writes.
const SchemaVersion = 1

// ErrSchemaVersion is the sentinel wrapped by SchemaVersionError.
var ErrSchemaVersion = errors.New("unsupported metadata schema version")

type (
	// Store is the persisted cumulative library record.
	Store struct {
		SchemaVersion   int              `json:"schemaVersion"`
		Libraries       []GAVRecord      `json:"libraries"`
		ClientArtifacts []ArtifactRecord `json:"clientArtifacts"`
		ServerArtifacts []ArtifactRecord `json:"serverArtifacts"`
	}

	// GAVRecord groups every known version of one (group, artifact).
	GAVRecord struct {
		Group    string           `json:"group"`
		Artifact string           `json:"artifact"`
		Versions []ArtifactRecord `json:"versions"`
	}

	// ArtifactRecord describes one downloadable file.
	ArtifactRecord struct {
		ID               string            `json:"id"`
		Name             string            `json:"name"`
		Size             *int64            `json:"size,omitempty"`
		URL              string            `json:"url,omitempty"`
		RelativePath     string            `json:"relativePath,omitempty"`
		NativeDescriptor *NativeDescriptor `json:"nativeDescriptor,omitempty"`
	}

	// NativeDescriptor records a library's native classifiers and OS rules.
	NativeDescriptor struct {
		Platforms map[string]ArtifactRecord `json:"platforms"`
		// Classifiers maps OS names to platform keys for descriptors that
		// declare a "natives" table.
		Classifiers map[string]string `json:"classifiers,omitempty"`
		OSRules     map[string]OSRule `json:"osRules,omitempty"`
	}

	// OSRule is the outcome of a rule naming one OS.
	OSRule struct {
		OSVersion string `json:"osVersion,omitempty"`
		Allowed   bool   `json:"allowed"`
	}

	// SchemaVersionError is returned when a store file declares a schema this
	// package does not understand.
	SchemaVersionError struct {
		Path    string
		Version int
	}
)

// Error implements the error interface.
func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("%s: schemaVersion %d is not supported (want %d)", e.Path, e.Version, SchemaVersion)
}

// Unwrap returns ErrSchemaVersion for errors.Is() compatibility.
func (e *SchemaVersionError) Unwrap() error { return ErrSchemaVersion }

// New returns an empty store.
func New() *Store {
	return &Store{
		SchemaVersion:   SchemaVersion,
		Libraries:       []GAVRecord{},
		ClientArtifacts: []ArtifactRecord{},
		ServerArtifacts: []ArtifactRecord{},
	}
}

// Load reads the store at path. A missing file is created holding an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s := New()
		if err := Save(path, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata store: %w", err)
	}

	var header struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, &manifest.ParseError{Document: "library metadata", Source: path, Cause: err}
	}
	if header.SchemaVersion != SchemaVersion {
		return nil, &SchemaVersionError{Path: path, Version: header.SchemaVersion}
	}

	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, &manifest.ParseError{Document: "library metadata", Source: path, Cause: err}
	}
	return s, nil
}

// Save writes s to path as indented JSON, creating parent directories.
func Save(path string, s *Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing metadata store: %w", err)
	}
	return nil
}

// KnownSize returns the recorded size of the library with the given raw coordinate.
func (s *Store) KnownSize(coordinate string) (int64, bool) {
	c, err := manifest.ParseCoordinate(coordinate)
	if err != nil {
		return 0, false
	}
	gav := s.find(c.Group, c.Artifact)
	if gav == nil {
		return 0, false
	}
	for _, v := range gav.Versions {
		if v.ID == c.Version && v.Size != nil {
			return *v.Size, true
		}
	}
	return 0, false
}

// Versions returns the known versions of group:artifact in insertion order.
func (s *Store) Versions(group, artifact string) []string {
	gav := s.find(group, artifact)
	if gav == nil {
		return nil
	}
	out := make([]string, 0, len(gav.Versions))
	for _, v := range gav.Versions {
		out = append(out, v.ID)
	}
	return out
}

func (s *Store) find(group, artifact string) *GAVRecord {
	for i := range s.Libraries {
		if s.Libraries[i].Group == group && s.Libraries[i].Artifact == artifact {
			return &s.Libraries[i]
		}
	}
	return nil
}

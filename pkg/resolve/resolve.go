// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"maps"

	"github.com/ducklauncher/duck/pkg/manifest"

	"github.com/Masterminds/semver/v3"
)

type (
	// Entry is a library retained by the resolver together with its parsed coordinate.
	Entry struct {
		Coordinate manifest.Coordinate
		Library    manifest.LibraryEntry
	}

	// Set is the resolved dependency set. Entries keep the order in which their
	// libraries appeared in the descriptor.
	Set struct {
		entries []Entry
	}

	candidate struct {
		entry   Entry
		version *semver.Version // nil when the version is not a semantic version
		removed bool
	}
)

// Resolve parses every library coordinate and collapses libraries sharing a
// (group, artifact) to the highest semantic version. Equal versions keep the
// entry that appeared first. A malformed coordinate fails the whole resolution
// with a *manifest.CoordinateParseError.
func Resolve(libs []manifest.LibraryEntry) (*Set, error) {
	candidates := make([]*candidate, 0, len(libs))
	byRaw := make(map[string]*candidate, len(libs))

	for _, lib := range libs {
		coord, err := manifest.ParseCoordinate(lib.Coordinate)
		if err != nil {
			return nil, err
		}

		// Descriptors list some libraries twice under one coordinate, once for
		// the jar and once for its natives. Fold them into a single entry.
		if existing, ok := byRaw[lib.Coordinate]; ok {
			existing.entry.Library = fold(existing.entry.Library, lib)
			continue
		}

		c := &candidate{entry: Entry{Coordinate: coord, Library: lib}}
		if v, err := semver.NewVersion(coord.Version); err == nil {
			c.version = v
		}
		byRaw[lib.Coordinate] = c
		candidates = append(candidates, c)
	}

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.entry.Coordinate.Key() != b.entry.Coordinate.Key() {
				continue
			}
			if a.version == nil || b.version == nil {
				continue
			}
			if b.version.GreaterThan(a.version) {
				a.removed = true
			} else {
				b.removed = true
			}
		}
	}

	set := &Set{entries: make([]Entry, 0, len(candidates))}
	for _, c := range candidates {
		if !c.removed {
			set.entries = append(set.entries, c.entry)
		}
	}
	return set, nil
}

// fold fills in the parts of kept that only dup carries.
func fold(kept, dup manifest.LibraryEntry) manifest.LibraryEntry {
	if kept.Source == nil {
		kept.Source = dup.Source
	}
	if len(dup.NativeClassifiers) > 0 {
		merged := maps.Clone(kept.NativeClassifiers)
		if merged == nil {
			merged = make(map[string]manifest.Artifact, len(dup.NativeClassifiers))
		}
		for k, v := range dup.NativeClassifiers {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		kept.NativeClassifiers = merged
	}
	if kept.Extract == nil {
		kept.Extract = dup.Extract
	}
	return kept
}

// Entries returns the retained entries in descriptor order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Libraries returns the retained library entries in descriptor order.
func (s *Set) Libraries() []manifest.LibraryEntry {
	out := make([]manifest.LibraryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Library)
	}
	return out
}

// Len returns the number of retained entries.
func (s *Set) Len() int { return len(s.entries) }

// Lookup returns the first retained entry for group and artifact.
func (s *Set) Lookup(group, artifact string) (Entry, bool) {
	for _, e := range s.entries {
		if e.Coordinate.Group == group && e.Coordinate.Artifact == artifact {
			return e, true
		}
	}
	return Entry{}, false
}

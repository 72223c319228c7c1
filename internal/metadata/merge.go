// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"maps"
	"slices"

	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/resolve"
)

// ClientCoordinate is the synthetic coordinate recording a version's game jars.
func ClientCoordinate(versionID string) string {
	return "com.mojang:minecraft:" + versionID
}

// Merge returns a copy of s grown by the libraries of set and the game jars of
// d. Versions already recorded are kept as they are, except that a missing
// native descriptor is filled in. sizes supplies measured sizes of
// Maven-derived libraries, keyed by raw coordinate; it may be nil.
func Merge(s *Store, set *resolve.Set, d *manifest.VersionDescriptor, sizes map[string]int64) *Store {
	out := s.Clone()

	for _, e := range set.Entries() {
		rec := libraryRecord(e, sizes)

		gav := out.find(e.Coordinate.Group, e.Coordinate.Artifact)
		if gav == nil {
			out.Libraries = append(out.Libraries, GAVRecord{
				Group:    e.Coordinate.Group,
				Artifact: e.Coordinate.Artifact,
				Versions: []ArtifactRecord{rec},
			})
			continue
		}

		i := slices.IndexFunc(gav.Versions, func(v ArtifactRecord) bool { return v.ID == e.Coordinate.Version })
		if i < 0 {
			gav.Versions = append(gav.Versions, rec)
			continue
		}
		if gav.Versions[i].NativeDescriptor == nil && rec.NativeDescriptor != nil {
			gav.Versions[i].NativeDescriptor = rec.NativeDescriptor
		}
	}

	if d != nil {
		id := ClientCoordinate(d.ID)
		out.ClientArtifacts = appendOnce(out.ClientArtifacts, id, d.ID, d.Downloads.Client, "com/mojang/minecraft/"+d.ID+"/"+d.ID+".jar")
		out.ServerArtifacts = appendOnce(out.ServerArtifacts, id, d.ID, d.Downloads.Server, "com/mojang/minecraft/"+d.ID+"/"+d.ID+"-server.jar")
	}
	return out
}

func appendOnce(records []ArtifactRecord, id, name string, art *manifest.Artifact, rel string) []ArtifactRecord {
	if art == nil || slices.ContainsFunc(records, func(r ArtifactRecord) bool { return r.ID == id }) {
		return records
	}
	size := art.Size
	return append(records, ArtifactRecord{ID: id, Name: name, Size: &size, URL: art.URL, RelativePath: rel})
}

func libraryRecord(e resolve.Entry, sizes map[string]int64) ArtifactRecord {
	rec := ArtifactRecord{ID: e.Coordinate.Version, Name: e.Library.Coordinate}

	if e.Library.Source != nil {
		loc := e.Library.Source.Location()
		rec.URL = loc.URL
		rec.RelativePath = loc.Path
		if loc.Size >= 0 {
			size := loc.Size
			rec.Size = &size
		} else if measured, ok := sizes[e.Library.Coordinate]; ok {
			rec.Size = &measured
		}
	}

	if e.Library.HasNatives() {
		nd := &NativeDescriptor{
			Platforms:   make(map[string]ArtifactRecord, len(e.Library.NativeClassifiers)),
			Classifiers: maps.Clone(e.Library.Natives),
		}
		for key, art := range e.Library.NativeClassifiers {
			size := art.Size
			nd.Platforms[key] = ArtifactRecord{
				ID:           key,
				Name:         e.Library.Coordinate + ":" + key,
				Size:         &size,
				URL:          art.URL,
				RelativePath: art.Path,
			}
		}
		for _, r := range e.Library.OSRules {
			if r.OS == nil || r.OS.Name == "" {
				continue
			}
			if nd.OSRules == nil {
				nd.OSRules = make(map[string]OSRule)
			}
			nd.OSRules[r.OS.Name] = OSRule{OSVersion: r.OS.Version, Allowed: r.Action == manifest.ActionAllow}
		}
		rec.NativeDescriptor = nd
	}
	return rec
}

// Clone returns a deep copy of s.
func (s *Store) Clone() *Store {
	out := &Store{
		SchemaVersion:   s.SchemaVersion,
		Libraries:       make([]GAVRecord, len(s.Libraries)),
		ClientArtifacts: cloneRecords(s.ClientArtifacts),
		ServerArtifacts: cloneRecords(s.ServerArtifacts),
	}
	for i, gav := range s.Libraries {
		out.Libraries[i] = GAVRecord{Group: gav.Group, Artifact: gav.Artifact, Versions: cloneRecords(gav.Versions)}
	}
	return out
}

func cloneRecords(in []ArtifactRecord) []ArtifactRecord {
	out := make([]ArtifactRecord, len(in))
	for i, r := range in {
		out[i] = r.clone()
	}
	return out
}

func (r ArtifactRecord) clone() ArtifactRecord {
	if r.Size != nil {
		size := *r.Size
		r.Size = &size
	}
	if r.NativeDescriptor != nil {
		nd := &NativeDescriptor{
			Platforms:   make(map[string]ArtifactRecord, len(r.NativeDescriptor.Platforms)),
			Classifiers: maps.Clone(r.NativeDescriptor.Classifiers),
			OSRules:     maps.Clone(r.NativeDescriptor.OSRules),
		}
		for k, p := range r.NativeDescriptor.Platforms {
			nd.Platforms[k] = p.clone()
		}
		r.NativeDescriptor = nd
	}
	return r
}

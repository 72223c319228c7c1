// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"slices"
)

// Version types published in the manifest index.
const (
	TypeRelease  = "release"
	TypeSnapshot = "snapshot"
	TypeOldBeta  = "old_beta"
	TypeOldAlpha = "old_alpha"
)

type (
	// VersionManifestIndex lists every published version. It is replaced
	// wholesale on refresh and never merged field by field.
	VersionManifestIndex struct {
		Latest   Latest        `json:"latest"`
		Versions []VersionStub `json:"versions"`
	}

	// Latest names the newest release and snapshot ids.
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	}

	// VersionStub points at one version's descriptor.
	VersionStub struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		URL         string `json:"url"`
		Time        string `json:"time"`
		ReleaseTime string `json:"releaseTime"`
	}
)

// ParseIndex decodes a version manifest index.
func ParseIndex(data []byte, source string) (*VersionManifestIndex, error) {
	var idx VersionManifestIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &ParseError{Document: "version manifest index", Source: source, Cause: err}
	}
	return &idx, nil
}

// Find returns the stub with the given id.
func (idx *VersionManifestIndex) Find(id string) (VersionStub, bool) {
	i := slices.IndexFunc(idx.Versions, func(v VersionStub) bool { return v.ID == id })
	if i < 0 {
		return VersionStub{}, false
	}
	return idx.Versions[i], true
}

// Filter returns the stubs whose type is one of types, in index order. An empty
// types list returns every stub.
func (idx *VersionManifestIndex) Filter(types ...string) []VersionStub {
	if len(types) == 0 {
		return slices.Clone(idx.Versions)
	}
	var out []VersionStub
	for _, v := range idx.Versions {
		if slices.Contains(types, v.Type) {
			out = append(out, v)
		}
	}
	return out
}

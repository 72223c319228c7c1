// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"maps"
	"slices"
)

type (
	// AssetIndex maps logical asset paths to content-addressed objects.
	AssetIndex struct {
		// Virtual assets are additionally laid out by logical path in a
		// per-version directory.
		Virtual bool
		Objects map[string]AssetObject
	}

	// AssetObject is one entry of an asset index.
	AssetObject struct {
		Hash string `json:"hash"`
		Size int64  `json:"size"`
	}

	assetIndexWire struct {
		Virtual        bool                   `json:"virtual,omitempty"`
		MapToResources bool                   `json:"map_to_resources,omitempty"`
		Objects        map[string]AssetObject `json:"objects"`
	}
)

// ParseAssetIndex decodes an asset index document.
func ParseAssetIndex(data []byte, source string) (*AssetIndex, error) {
	var idx AssetIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &ParseError{Document: "asset index", Source: source, Cause: err}
	}
	return &idx, nil
}

// UnmarshalJSON treats "map_to_resources" as a synonym of "virtual".
func (a *AssetIndex) UnmarshalJSON(data []byte) error {
	var w assetIndexWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = AssetIndex{
		Virtual: w.Virtual || w.MapToResources,
		Objects: w.Objects,
	}
	return nil
}

// MarshalJSON writes the authoritative "virtual" field only.
func (a AssetIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(assetIndexWire{Virtual: a.Virtual, Objects: a.Objects})
}

// LogicalPaths returns the index's logical paths in sorted order.
func (a *AssetIndex) LogicalPaths() []string {
	return slices.Sorted(maps.Keys(a.Objects))
}

// ObjectPath returns the object's location in the content-addressed store
// relative to both the local objects directory and the resource host:
// <hash[0:2]>/<hash>.
func (o AssetObject) ObjectPath() string {
	if len(o.Hash) < 2 {
		return o.Hash
	}
	return o.Hash[:2] + "/" + o.Hash
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"fmt"
)

type (
	// VersionDescriptor is the full manifest of a single version. It is never
	// mutated after parse.
	VersionDescriptor struct {
		ID          string         `json:"id"`
		Type        string         `json:"type"`
		MainClass   string         `json:"mainClass"`
		Assets      string         `json:"assets"`
		AssetIndex  AssetIndexRef  `json:"assetIndex"`
		Downloads   Downloads      `json:"downloads"`
		Libraries   []LibraryEntry `json:"libraries"`
		Arguments   *Arguments     `json:"arguments,omitempty"`
		ReleaseTime string         `json:"releaseTime"`
		Time        string         `json:"time"`

		// MinecraftArguments is the single-string game argument template used
		// by descriptors that predate Arguments.
		MinecraftArguments string `json:"minecraftArguments,omitempty"`
	}

	// AssetIndexRef points at a version's asset index document.
	AssetIndexRef struct {
		ID        string `json:"id"`
		SHA1      string `json:"sha1,omitempty"`
		Size      int64  `json:"size"`
		TotalSize int64  `json:"totalSize,omitempty"`
		URL       string `json:"url"`
	}

	// Downloads holds the version's client and server jars.
	Downloads struct {
		Client *Artifact `json:"client,omitempty"`
		Server *Artifact `json:"server,omitempty"`
	}

	// Arguments holds the token templates for the JVM and the game.
	Arguments struct {
		Game []ArgumentToken `json:"game"`
		JVM  []ArgumentToken `json:"jvm"`
	}

	// ArgumentToken is either a plain string or a rule-gated group of values.
	// A plain string decodes to a single Value with no Rules.
	ArgumentToken struct {
		Value []string
		Rules []Rule
	}

	argumentObject struct {
		Rules []Rule          `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
)

// ParseDescriptor decodes a version descriptor.
func ParseDescriptor(data []byte, source string) (*VersionDescriptor, error) {
	var d VersionDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &ParseError{Document: "version descriptor", Source: source, Cause: err}
	}
	return &d, nil
}

// AssetsID returns the id naming the version's asset set. Old descriptors omit
// "assets" and rely on the asset index id.
func (d *VersionDescriptor) AssetsID() string {
	if d.Assets != "" {
		return d.Assets
	}
	return d.AssetIndex.ID
}

// Literal builds a token from plain strings.
func Literal(values ...string) ArgumentToken {
	return ArgumentToken{Value: values}
}

// UnmarshalJSON accepts either a string or {"rules": [...], "value": string|[]string}.
func (t *ArgumentToken) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ArgumentToken{Value: []string{s}}
		return nil
	}

	var obj argumentObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("argument token: %w", err)
	}
	values, err := decodeStringOrList(obj.Value)
	if err != nil {
		return fmt.Errorf("argument token value: %w", err)
	}
	*t = ArgumentToken{Value: values, Rules: obj.Rules}
	return nil
}

func decodeStringOrList(raw json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

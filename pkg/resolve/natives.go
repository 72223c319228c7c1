// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"
)

// Native is the classifier jar of one resolved library for one OS.
type Native struct {
	Coordinate manifest.Coordinate
	Classifier string
	Artifact   manifest.Artifact
	Extract    *manifest.ExtractRules
}

// SelectNatives returns, in set order, the "natives-<os>" classifier of every
// resolved library that has one. Libraries without a matching key contribute
// nothing. OS rules are not consulted.
func SelectNatives(set *Set, os platform.OS) []Native {
	key := os.NativesKey()

	var natives []Native
	for _, e := range set.entries {
		art, ok := e.Library.NativeClassifiers[key]
		if !ok {
			continue
		}
		natives = append(natives, Native{
			Coordinate: e.Coordinate,
			Classifier: key,
			Artifact:   art,
			Extract:    e.Library.Extract,
		})
	}
	return natives
}

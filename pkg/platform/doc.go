// SPDX-License-Identifier: MPL-2.0

// Package platform identifies the host operating system in the vocabulary used
// by game-client manifests.
//
// Manifests name operating systems in two dialects: native classifier keys
// ("natives-windows", "natives-linux", "natives-macos") and rule objects, which
// spell macOS as "osx". OS carries the classifier spelling and translates to the
// rule spelling on demand.
package platform

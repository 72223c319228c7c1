// SPDX-License-Identifier: MPL-2.0

// Package manifest models the documents a game-client provisioning run consumes:
// the version manifest index, a single version's descriptor, and the asset index.
//
// The types are plain data. Parsing resolves every polymorphic field once
// (library download sources, argument tokens, the virtual asset flag) so callers
// never branch on "is this field present" at consumption sites.
package manifest

// SPDX-License-Identifier: MPL-2.0

// Package resolve turns a descriptor's library list into a conflict-free set
// holding one entry per (group, artifact), and selects the native artifacts that
// apply to a given operating system.
//
// Conflict resolution is a flat highest-version-wins collapse. Versions that do
// not parse as semantic versions are incomparable and never collapsed.
package resolve

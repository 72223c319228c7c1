// SPDX-License-Identifier: MPL-2.0

// Package metadata maintains the cumulative library store: a JSON file that
// accumulates, across every provisioned version, each distinct library seen,
// its known versions, native classifiers and OS rules, plus the client and
// server jars of each version.
//
// The store only grows. Merge is a pure function returning a new Store; Load
// and Save are the only operations touching disk.
package metadata

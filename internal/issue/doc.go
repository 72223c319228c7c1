// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. An error may also name an Issue: a Markdown guide for a
// whole class of failure (missing version, unreachable host, broken config),
// rendered with glamour when the CLI runs verbosely.
package issue

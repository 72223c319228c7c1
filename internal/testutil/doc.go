// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, SetHomeDir),
// fixture files (WriteSized, WriteZip) and Upstream, an httptest server that
// stands in for the manifest, library and asset hosts and counts requests.
package testutil

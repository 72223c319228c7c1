// SPDX-License-Identifier: MPL-2.0

// Package provision runs one provisioning pass for a game version.
//
// A pass reads the version manifest index and the version descriptor (cached
// under the data directory and refetched on demand), resolves the library set,
// records it in the cumulative metadata store, then syncs the client jar,
// libraries, natives, asset index and assets as separate batches. Each batch
// completes before the next starts, and the first failure aborts the pass.
//
//	p := provision.New(cfg, client, client)
//	res, err := p.Provision(ctx, "1.20.1", provision.Options{OS: platform.OSLinux})
//	// res is nil when the version does not exist
//
// Launch compiles the provisioned result into a process invocation.
package provision

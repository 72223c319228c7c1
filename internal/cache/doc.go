// SPDX-License-Identifier: MPL-2.0

// Package cache verifies provisioned artifacts against the on-disk cache and
// fetches whatever is missing.
//
// The only integrity check is byte length: a file that is absent or whose size
// differs from the declared size is fetched again, one that matches is left
// alone. Each call to Syncer.Sync handles one batch (libraries, natives, asset
// objects, ...) and fans the pending subset out to a bounded set of workers.
// The first failure cancels the rest of the batch.
package cache

// SPDX-License-Identifier: MPL-2.0

// Package fetch provides the single-file transfer capabilities the provisioning
// engine builds on: Fetcher downloads a URL to a path, SizeReader asks a server
// for a resource's byte length without downloading it.
//
// Client implements both over HTTP. Retrying layers a bounded exponential
// backoff on top of any Fetcher.
package fetch

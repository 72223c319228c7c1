// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/duck/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/duck/config.cue on macOS, %APPDATA%\duck\config.cue
// on Windows), validated against the embedded #Config schema (config_schema.cue), and
// overridden by DUCK_* environment variables (DUCK_NETWORK_MAX_CONCURRENT_FETCHES and so on).
package config

// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"github.com/ducklauncher/duck/internal/cache"
	"github.com/ducklauncher/duck/internal/launch"
)

// DefaultManifestURL is the upstream version manifest index.
const DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

// maxDocumentSize caps index, descriptor and asset index downloads.
const maxDocumentSize = 64 << 20

type (
	// Config holds the settings of a provisioning pipeline.
	Config struct {
		// DataDir is the root of the on-disk layout.
		DataDir string

		// ManifestURL is where the version manifest index is fetched from.
		ManifestURL string

		// ResourcesURL is the content-addressed asset host.
		ResourcesURL string

		// MaxConcurrentFetches bounds the in-flight fetches of a batch.
		MaxConcurrentFetches int

		// IncludeServer also syncs the dedicated server jar when declared.
		IncludeServer bool

		// JavaPath is the Java executable used by Launch.
		JavaPath string

		// LauncherName and LauncherVersion are substituted into templates.
		LauncherName    string
		LauncherVersion string
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)
)

// DefaultConfig returns a Config rooted at dataDir with upstream endpoints.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:              dataDir,
		ManifestURL:          DefaultManifestURL,
		ResourcesURL:         cache.DefaultResourcesURL,
		MaxConcurrentFetches: cache.DefaultMaxConcurrency,
		JavaPath:             launch.DefaultJava,
		LauncherName:         launch.DefaultLauncherName,
		LauncherVersion:      launch.DefaultLauncherVersion,
	}
}

// WithManifestURL returns an Option that sets ManifestURL on the config.
func WithManifestURL(url string) Option {
	return func(c *Config) {
		c.ManifestURL = url
	}
}

// WithResourcesURL returns an Option that sets ResourcesURL on the config.
func WithResourcesURL(url string) Option {
	return func(c *Config) {
		c.ResourcesURL = url
	}
}

// WithMaxConcurrentFetches returns an Option that sets MaxConcurrentFetches on the config.
func WithMaxConcurrentFetches(n int) Option {
	return func(c *Config) {
		c.MaxConcurrentFetches = n
	}
}

// WithIncludeServer returns an Option that sets IncludeServer on the config.
func WithIncludeServer(include bool) Option {
	return func(c *Config) {
		c.IncludeServer = include
	}
}

// WithJavaPath returns an Option that sets JavaPath on the config.
func WithJavaPath(path string) Option {
	return func(c *Config) {
		c.JavaPath = path
	}
}

// WithLauncher returns an Option that sets the launcher name and version.
func WithLauncher(name, version string) Option {
	return func(c *Config) {
		c.LauncherName = name
		c.LauncherVersion = version
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

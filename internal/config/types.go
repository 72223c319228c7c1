// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultManifestURL is the upstream version manifest index.
	DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
	// DefaultResourcesURL is the upstream content-addressed asset host.
	DefaultResourcesURL = "https://resources.download.minecraft.net"
	// DefaultMaxConcurrentFetches bounds in-flight transfers per batch.
	DefaultMaxConcurrentFetches = 64
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxRetries is how often a failed artifact transfer is retried.
	DefaultMaxRetries = 3
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DataDir is the root of the provisioning layout (meta, libraries, assets, instances).
		DataDir string `json:"data_dir" mapstructure:"data_dir"`
		// Network configures upstream endpoints and transfer limits
		Network NetworkConfig `json:"network" mapstructure:"network"`
		// Launcher configures how the game process is started
		Launcher LauncherConfig `json:"launcher" mapstructure:"launcher"`
		// Account locates the player profile
		Account AccountConfig `json:"account" mapstructure:"account"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// NetworkConfig configures fetching.
	NetworkConfig struct {
		ManifestURL          string        `json:"manifest_url" mapstructure:"manifest_url"`
		ResourcesURL         string        `json:"resources_url" mapstructure:"resources_url"`
		MaxConcurrentFetches int           `json:"max_concurrent_fetches" mapstructure:"max_concurrent_fetches"`
		Timeout              time.Duration `json:"timeout" mapstructure:"timeout"`
		// MaxRetries of zero disables the retry decorator.
		MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
	}

	// LauncherConfig configures launch.
	LauncherConfig struct {
		Name     string `json:"name" mapstructure:"name"`
		Version  string `json:"version" mapstructure:"version"`
		JavaPath string `json:"java_path" mapstructure:"java_path"`
		// Server also provisions the dedicated server jar.
		Server bool `json:"server" mapstructure:"server"`
	}

	// AccountConfig locates the TOML player profile.
	AccountConfig struct {
		// ProfilePath defaults to account.toml in the config directory when empty.
		ProfilePath string `json:"profile_path" mapstructure:"profile_path"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "." + AppName
	}
	return &Config{
		DataDir: dataDir,
		Network: NetworkConfig{
			ManifestURL:          DefaultManifestURL,
			ResourcesURL:         DefaultResourcesURL,
			MaxConcurrentFetches: DefaultMaxConcurrentFetches,
			Timeout:              DefaultTimeout,
			MaxRetries:           DefaultMaxRetries,
		},
		Launcher: LauncherConfig{
			Name:     "DuckLauncher",
			Version:  "1",
			JavaPath: "java",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields.
// It checks what the CUE schema cannot: URL shape, positive bounds, the data dir.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir: must not be empty"))
	}
	for name, raw := range map[string]string{
		"network.manifest_url":  c.Network.ManifestURL,
		"network.resources_url": c.Network.ResourcesURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: %q is not an absolute URL", name, raw))
		}
	}
	if c.Network.MaxConcurrentFetches < 1 {
		errs = append(errs, fmt.Errorf("network.max_concurrent_fetches: %d is below 1", c.Network.MaxConcurrentFetches))
	}
	if c.Network.Timeout < 0 {
		errs = append(errs, fmt.Errorf("network.timeout: %s is negative", c.Network.Timeout))
	}
	if c.Network.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("network.max_retries: %d is negative", c.Network.MaxRetries))
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

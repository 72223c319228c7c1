// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// GOOS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

const (
	// OSWindows is the Windows host.
	OSWindows OS = "windows"
	// OSLinux is the Linux host.
	OSLinux OS = "linux"
	// OSMacOS is the macOS host.
	OSMacOS OS = "macos"

	// ruleNameMacOS is how rule objects in version descriptors name macOS.
	ruleNameMacOS = "osx"
)

// ErrUnsupportedOS is the sentinel wrapped by UnsupportedOSError.
var ErrUnsupportedOS = errors.New("unsupported operating system")

type (
	// OS is one of the three host operating systems a client can be provisioned for.
	OS string

	// UnsupportedOSError is returned when a GOOS or OS name has no OS mapping.
	UnsupportedOSError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("unsupported operating system %q (expected windows, linux or macos)", e.Value)
}

// Unwrap returns ErrUnsupportedOS for errors.Is() compatibility.
func (e *UnsupportedOSError) Unwrap() error { return ErrUnsupportedOS }

// Current returns the OS of the running process.
func Current() (OS, error) {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to an OS.
func FromGOOS(goos string) (OS, error) {
	switch goos {
	case Windows:
		return OSWindows, nil
	case Linux:
		return OSLinux, nil
	case Darwin:
		return OSMacOS, nil
	default:
		return "", &UnsupportedOSError{Value: goos}
	}
}

// Parse accepts an OS name as written by users: the classifier spelling, the
// rule spelling ("osx") or a GOOS value.
func Parse(name string) (OS, error) {
	switch name {
	case string(OSMacOS), ruleNameMacOS:
		return OSMacOS, nil
	case string(OSWindows), string(OSLinux):
		return OS(name), nil
	default:
		return FromGOOS(name)
	}
}

// String returns the classifier spelling of the OS.
func (o OS) String() string { return string(o) }

// IsValid reports whether o is one of the supported operating systems.
func (o OS) IsValid() bool {
	switch o {
	case OSWindows, OSLinux, OSMacOS:
		return true
	default:
		return false
	}
}

// NativesKey returns the classifier key holding this OS's native artifact.
func (o OS) NativesKey() string {
	return "natives-" + string(o)
}

// RuleName returns the name rule objects use for this OS.
func (o OS) RuleName() string {
	if o == OSMacOS {
		return ruleNameMacOS
	}
	return string(o)
}

// ClasspathSeparator returns the separator the JVM expects between classpath entries.
func (o OS) ClasspathSeparator() string {
	if o == OSWindows {
		return ";"
	}
	return ":"
}

// Arch maps a runtime.GOARCH value to the architecture names used in rule objects.
func Arch(goarch string) string {
	switch goarch {
	case "386":
		return "x86"
	case "amd64":
		return "x86_64"
	default:
		return goarch
	}
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"regexp"

	"github.com/ducklauncher/duck/pkg/platform"
)

// Rule actions.
const (
	ActionAllow    = "allow"
	ActionDisallow = "disallow"
)

type (
	// Rule gates a library or argument token on the host environment.
	Rule struct {
		Action   string          `json:"action"`
		OS       *OSRule         `json:"os,omitempty"`
		Features map[string]bool `json:"features,omitempty"`
	}

	// OSRule restricts a rule to an OS name, OS version pattern or architecture.
	// Name uses rule spelling ("osx" for macOS). Version is a regular expression.
	OSRule struct {
		Name    string `json:"name,omitempty"`
		Version string `json:"version,omitempty"`
		Arch    string `json:"arch,omitempty"`
	}

	// Environment describes the host a rule list is evaluated against.
	Environment struct {
		OS        platform.OS
		Arch      string
		OSVersion string
		// Features lists enabled launcher features; rules naming any other
		// feature never match.
		Features map[string]bool
	}
)

// Allowed evaluates a rule list the way launchers do: an empty list allows,
// otherwise the last matching rule decides and no match disallows.
func Allowed(rules []Rule, env Environment) bool {
	if len(rules) == 0 {
		return true
	}
	allowed := false
	for _, r := range rules {
		if r.matches(env) {
			allowed = r.Action == ActionAllow
		}
	}
	return allowed
}

func (r Rule) matches(env Environment) bool {
	for name, want := range r.Features {
		if env.Features[name] != want {
			return false
		}
	}
	if r.OS == nil {
		return true
	}
	if r.OS.Name != "" && r.OS.Name != env.OS.RuleName() {
		return false
	}
	if r.OS.Arch != "" && r.OS.Arch != env.Arch {
		return false
	}
	if r.OS.Version != "" {
		re, err := regexp.Compile(r.OS.Version)
		if err != nil || !re.MatchString(env.OSVersion) {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"

	"mvdan.cc/sh/v3/shell"
)

const (
	// DefaultLauncherName is substituted for ${launcher_name}.
	DefaultLauncherName = "DuckLauncher"
	// DefaultLauncherVersion is substituted for ${launcher_version}.
	DefaultLauncherVersion = "1"

	nativesDirName = "natives"
	gameDirName    = ".minecraft"
)

var (
	placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

	// legacyJVMTemplate is used for descriptors that only carry minecraftArguments.
	legacyJVMTemplate = []manifest.ArgumentToken{
		manifest.Literal("-Djava.library.path=${natives_directory}"),
		manifest.Literal("-cp"),
		manifest.Literal("${classpath}"),
	}
)

type (
	// NativeJar is a native classifier jar on disk and the entries to skip when
	// unpacking it.
	NativeJar struct {
		Path    string
		Exclude []string
	}

	// ResolvedPaths are the absolute local paths of everything on the classpath.
	ResolvedPaths struct {
		Libraries []string
		Natives   []NativeJar
		ClientJar string
	}

	// Options carries the host and launcher values the templates refer to.
	Options struct {
		OS              platform.OS
		Arch            string
		LauncherName    string
		LauncherVersion string
		AssetsRoot      string
		// GameAssets is the legacy ${game_assets} directory. AssetsRoot is used
		// when empty.
		GameAssets string
		// Extractor unpacks native jars. Nil skips extraction.
		Extractor Extractor
		// Features enables feature-gated template tokens.
		Features map[string]bool
	}

	// Arguments is the compiled argument vector.
	Arguments struct {
		JVM  []string
		Game []string
	}

	compiler struct {
		vars      map[string]string
		paths     ResolvedPaths
		nativeDir string
		extractor Extractor
		extracted bool
	}
)

// NativesDir is where native jars of the instance at instanceDir are unpacked.
func NativesDir(instanceDir string) string {
	return filepath.Join(instanceDir, nativesDirName)
}

// GameDir is the game working directory of the instance at instanceDir.
func GameDir(instanceDir string) string {
	return filepath.Join(instanceDir, gameDirName)
}

// Compile substitutes the descriptor's argument templates. Output order follows
// template order exactly.
func Compile(d *manifest.VersionDescriptor, paths ResolvedPaths, acct account.Account, instanceDir string, opts Options) (*Arguments, error) {
	if !opts.OS.IsValid() {
		return nil, &platform.UnsupportedOSError{Value: string(opts.OS)}
	}
	if opts.LauncherName == "" {
		opts.LauncherName = DefaultLauncherName
	}
	if opts.LauncherVersion == "" {
		opts.LauncherVersion = DefaultLauncherVersion
	}
	if opts.GameAssets == "" {
		opts.GameAssets = opts.AssetsRoot
	}

	c := &compiler{
		paths:     paths,
		nativeDir: NativesDir(instanceDir),
		extractor: opts.Extractor,
	}
	c.vars = map[string]string{
		"launcher_name":       opts.LauncherName,
		"launcher_version":    opts.LauncherVersion,
		"natives_directory":   c.nativeDir,
		"classpath":           classpath(paths, opts.OS),
		"classpath_separator": opts.OS.ClasspathSeparator(),
		"auth_player_name":    acct.PlayerName,
		"auth_uuid":           acct.PlayerUUID,
		"auth_access_token":   acct.AccessToken,
		"user_type":           account.UserTypeMojang,
		"user_properties":     "{}",
		"version_name":        d.ID,
		"version_type":        d.Type,
		"assets_index_name":   d.AssetIndex.ID,
		"assets_root":         opts.AssetsRoot,
		"game_assets":         opts.GameAssets,
		"game_directory":      GameDir(instanceDir),
	}

	env := manifest.Environment{OS: opts.OS, Arch: opts.Arch, Features: opts.Features}

	jvmTemplate, gameTemplate := legacyJVMTemplate, []manifest.ArgumentToken(nil)
	if d.Arguments != nil {
		jvmTemplate, gameTemplate = d.Arguments.JVM, d.Arguments.Game
	} else if d.MinecraftArguments != "" {
		tokens, err := splitLegacy(d.MinecraftArguments)
		if err != nil {
			return nil, err
		}
		gameTemplate = tokens
	}

	jvm, err := c.expand(jvmTemplate, env)
	if err != nil {
		return nil, err
	}
	game, err := c.expand(gameTemplate, env)
	if err != nil {
		return nil, err
	}
	return &Arguments{JVM: jvm, Game: game}, nil
}

func (c *compiler) expand(tokens []manifest.ArgumentToken, env manifest.Environment) ([]string, error) {
	var out []string
	for _, tok := range tokens {
		if !manifest.Allowed(tok.Rules, env) {
			continue
		}
		for _, v := range tok.Value {
			arg, err := c.substitute(v)
			if err != nil {
				return nil, err
			}
			out = append(out, arg)
		}
	}
	return out, nil
}

func (c *compiler) substitute(arg string) (string, error) {
	if strings.Contains(arg, "${natives_directory}") && !c.extracted {
		if err := c.extractNatives(); err != nil {
			return "", err
		}
	}
	return placeholderPattern.ReplaceAllStringFunc(arg, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := c.vars[name]; ok {
			return v
		}
		return m
	}), nil
}

func (c *compiler) extractNatives() error {
	c.extracted = true
	if c.extractor == nil {
		return nil
	}
	for _, n := range c.paths.Natives {
		if err := c.extractor.Extract(n.Path, c.nativeDir, n.Exclude); err != nil {
			return fmt.Errorf("extracting natives from %s: %w", n.Path, err)
		}
	}
	return nil
}

func classpath(paths ResolvedPaths, os platform.OS) string {
	entries := make([]string, 0, len(paths.Libraries)+len(paths.Natives)+1)
	entries = append(entries, paths.Libraries...)
	for _, n := range paths.Natives {
		entries = append(entries, n.Path)
	}
	if paths.ClientJar != "" {
		entries = append(entries, paths.ClientJar)
	}
	return strings.Join(entries, os.ClasspathSeparator())
}

// splitLegacy tokenizes a minecraftArguments string with shell quoting rules,
// keeping ${...} placeholders intact for substitution.
func splitLegacy(s string) ([]manifest.ArgumentToken, error) {
	fields, err := shell.Fields(s, func(name string) string {
		if name == "IFS" {
			return ""
		}
		return "${" + name + "}"
	})
	if err != nil {
		return nil, &manifest.ParseError{Document: "minecraftArguments", Cause: err}
	}
	tokens := make([]manifest.ArgumentToken, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, manifest.Literal(f))
	}
	return tokens, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for duck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ducklauncher/duck/internal/config"
	"github.com/ducklauncher/duck/internal/issue"
	"github.com/ducklauncher/duck/internal/provision"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// cliState holds the per-invocation flag values and the configuration they
// select. Configuration is loaded on first use so that `config path` and
// `config init` still work next to a broken config file.
type cliState struct {
	app        *App
	verbose    bool
	configPath string

	cfg    *config.Config
	source string
	logger *log.Logger
	pipe   *provision.Pipeline
}

// NewRootCommand builds the duck command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	st := &cliState{app: app}

	rootCmd := &cobra.Command{
		Use:   "duck",
		Short: "A game client provisioner and launcher",
		Long: TitleStyle.Render("duck") + SubtitleStyle.Render(" - a game client provisioner and launcher") + `

duck reads the published version manifest, downloads exactly what a
version needs (client jar, libraries, natives and assets) into a
shared cache, and starts the game with fully resolved arguments.

` + SubtitleStyle.Render("Examples:") + `
  duck versions             List release versions
  duck sync 1.20.1          Download everything 1.20.1 needs
  duck launch 1.20.1        Sync and start 1.20.1
  duck account set Steve    Save an offline player profile
  duck config show          Show current configuration`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default is $HOME/.config/duck/config.cue)")

	rootCmd.AddCommand(newVersionsCommand(st))
	rootCmd.AddCommand(newSyncCommand(st))
	rootCmd.AddCommand(newLaunchCommand(st))
	rootCmd.AddCommand(newAccountCommand(st))
	rootCmd.AddCommand(newConfigCommand(st))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the duck command tree with production dependencies.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// load returns the effective configuration, reading it once per invocation.
// The first successful load also sets up logging and the color scheme.
func (s *cliState) load(ctx context.Context) (*config.Config, error) {
	if s.cfg != nil {
		return s.cfg, nil
	}

	cfg, source, err := s.app.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: s.configPath})
	if err != nil {
		return nil, withIssue(err, issue.ConfigLoadFailedId, "load configuration")
	}

	// Apply verbose from config if not set via flag
	if !s.verbose {
		s.verbose = cfg.UI.Verbose
	}
	applyColorScheme(cfg.UI.ColorScheme)

	s.cfg, s.source = cfg, source
	s.logger = newLogger(s.app.stderr, s.verbose)
	return cfg, nil
}

// newLogger returns the structured logger shared by every engine component.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

func applyColorScheme(cs config.ColorScheme) {
	switch cs {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ColorSchemeAuto:
		// terminal detection
	}
}

// glamourStyle picks the guide style for the active color scheme.
func (s *cliState) glamourStyle() string {
	if s.cfg != nil && s.cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	if s.cfg != nil && s.cfg.UI.ColorScheme == config.ColorSchemeDark {
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// fail reports err on stderr and converts it into an ExitError so fang
// exits with the right status. Guides from the issue catalog are shown in
// verbose mode.
func (s *cliState) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr
	}

	err = classify(err)
	fmt.Fprintln(s.app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, s.verbose))

	var ae *issue.ActionableError
	if s.verbose && errors.As(err, &ae) {
		if guide := ae.Issue(); guide != nil {
			if rendered, renderErr := guide.Render(s.glamourStyle()); renderErr == nil {
				fmt.Fprint(s.app.stderr, rendered)
			}
		}
	}

	code := 1
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}
	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

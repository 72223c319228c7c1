// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ducklauncher/duck/internal/config"
	"github.com/ducklauncher/duck/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `duck config` command tree.
func newConfigCommand(st *cliState) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage duck configuration",
		Long: `Manage duck configuration.

Configuration is stored in:
  - Linux: ~/.config/duck/config.cue
  - macOS: ~/Library/Application Support/duck/config.cue
  - Windows: %APPDATA%\duck\config.cue

Every key can be overridden with a DUCK_ environment variable, for
example DUCK_NETWORK_MAX_RETRIES=5.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, showConfig(cmd.Context(), st))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, initConfig(st))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, showConfigPath(st))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.load(cmd.Context())
			if err != nil {
				return st.fail(cmd, err)
			}
			fmt.Fprint(st.app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, st *cliState) error {
	cfg, err := st.load(ctx)
	if err != nil {
		if !st.verbose {
			rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(st.glamourStyle())
			fmt.Fprint(st.app.stderr, rendered)
		}
		return err
	}

	w := st.app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if st.source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), st.source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("data_dir"), valueStyle.Render(cfg.DataDir))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("network"))
	fmt.Fprintf(w, "  manifest_url: %s\n", valueStyle.Render(cfg.Network.ManifestURL))
	fmt.Fprintf(w, "  resources_url: %s\n", valueStyle.Render(cfg.Network.ResourcesURL))
	fmt.Fprintf(w, "  max_concurrent_fetches: %s\n", valueStyle.Render(fmt.Sprint(cfg.Network.MaxConcurrentFetches)))
	fmt.Fprintf(w, "  timeout: %s\n", valueStyle.Render(cfg.Network.Timeout.String()))
	fmt.Fprintf(w, "  max_retries: %s\n", valueStyle.Render(fmt.Sprint(cfg.Network.MaxRetries)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("launcher"))
	fmt.Fprintf(w, "  name: %s\n", valueStyle.Render(cfg.Launcher.Name))
	fmt.Fprintf(w, "  version: %s\n", valueStyle.Render(cfg.Launcher.Version))
	fmt.Fprintf(w, "  java_path: %s\n", valueStyle.Render(cfg.Launcher.JavaPath))
	fmt.Fprintf(w, "  server: %s\n", valueStyle.Render(fmt.Sprint(cfg.Launcher.Server)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("account"))
	if cfg.Account.ProfilePath == "" {
		fmt.Fprintf(w, "  profile_path: %s\n", SubtitleStyle.Render("(default)"))
	} else {
		fmt.Fprintf(w, "  profile_path: %s\n", valueStyle.Render(cfg.Account.ProfilePath))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	return nil
}

func initConfig(st *cliState) error {
	path, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(st.app.stdout, "%s Default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(st *cliState) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	w := st.app.stdout
	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(w, "Account profile: %s\n", filepath.Join(cfgDir, "account.toml"))
	fmt.Fprintf(w, "Data directory: %s\n", dataDir)
	return nil
}

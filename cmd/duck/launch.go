// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/internal/config"
	"github.com/ducklauncher/duck/internal/issue"

	"github.com/spf13/cobra"
)

// newLaunchCommand creates the `duck launch` command.
func newLaunchCommand(st *cliState) *cobra.Command {
	var offline string

	cmd := &cobra.Command{
		Use:   "launch <version>",
		Short: "Sync a version and start the game",
		Long: `Sync a version, then start it with the saved player profile.

The profile is read from account.toml in the config directory unless
account.profile_path is set. --offline starts the game as the named
player without a session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, launchVersion(cmd.Context(), st, args[0], offline))
		},
	}

	cmd.Flags().StringVar(&offline, "offline", "", "launch as an offline player with this name")

	return cmd
}

func launchVersion(ctx context.Context, st *cliState, id, offline string) error {
	cfg, err := st.load(ctx)
	if err != nil {
		return err
	}
	acct, err := resolveAccount(cfg, offline)
	if err != nil {
		return err
	}

	p, err := st.pipeline(ctx)
	if err != nil {
		return err
	}
	res, err := syncVersion(ctx, st, p, id, "")
	if err != nil {
		return err
	}

	code, err := p.Launch(ctx, res, acct, st.runner())
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return issue.NewErrorContext().
				WithOperation("start the game").
				WithResource(cfg.Launcher.JavaPath).
				WithSuggestion("Install a Java runtime or set launcher.java_path in your config").
				WithIssue(issue.JavaNotFoundId).
				Wrap(err).
				BuildError()
		}
		return err
	}
	if code != 0 {
		return &ExitError{Code: code, Err: fmt.Errorf("game exited with status %d", code)}
	}
	return nil
}

// resolveAccount returns the offline account for name when set, and the
// saved profile otherwise.
func resolveAccount(cfg *config.Config, name string) (account.Account, error) {
	if name != "" {
		return account.Offline(name)
	}
	path, err := config.ProfilePath(cfg)
	if err != nil {
		return account.Account{}, err
	}
	acct, err := account.LoadProfile(path)
	if err != nil {
		return account.Account{}, issue.NewErrorContext().
			WithOperation("load account profile").
			WithResource(path).
			WithSuggestion("Run 'duck account set <name>' to save a profile").
			WithSuggestion("Launch with --offline <name> to skip the profile").
			WithIssue(issue.ProfileInvalidId).
			Wrap(err).
			BuildError()
	}
	return acct, nil
}

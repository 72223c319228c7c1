// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/internal/config"

	"github.com/spf13/cobra"
)

// newAccountCommand creates the `duck account` command tree.
func newAccountCommand(st *cliState) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the saved player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved player profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, showAccount(cmd.Context(), st))
		},
	})

	var playerUUID, token string
	setCmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Save a player profile",
		Long: `Save a player profile used by 'duck launch'.

Without --uuid the offline UUID derived from the name is stored. Without
--token the offline access token is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct := account.Account{PlayerName: args[0], PlayerUUID: playerUUID, AccessToken: token}
			return st.fail(cmd, saveAccount(cmd.Context(), st, acct))
		},
	}
	setCmd.Flags().StringVar(&playerUUID, "uuid", "", "player UUID, dashed or undashed")
	setCmd.Flags().StringVar(&token, "token", "", "session access token")
	accountCmd.AddCommand(setCmd)

	return accountCmd
}

func showAccount(ctx context.Context, st *cliState) error {
	cfg, err := st.load(ctx)
	if err != nil {
		return err
	}
	acct, err := resolveAccount(cfg, "")
	if err != nil {
		return err
	}
	path, _ := config.ProfilePath(cfg)

	w := st.app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Account"))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("profile"), path)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("player_name"), acct.PlayerName)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("player_uuid"), acct.PlayerUUID)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("access_token"), maskToken(acct.AccessToken))
	return nil
}

func saveAccount(ctx context.Context, st *cliState, acct account.Account) error {
	cfg, err := st.load(ctx)
	if err != nil {
		return err
	}
	acct, err = account.Normalize(acct)
	if err != nil {
		return err
	}
	path, err := config.ProfilePath(cfg)
	if err != nil {
		return err
	}
	if err := account.SaveProfile(path, acct); err != nil {
		return err
	}
	fmt.Fprintf(st.app.stdout, "%s Saved profile for %s to %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(acct.PlayerName), path)
	return nil
}

// maskToken hides all but the last four characters of a session token.
func maskToken(token string) string {
	if token == account.OfflineAccessToken || len(token) <= 4 {
		return token
	}
	return "****" + token[len(token)-4:]
}

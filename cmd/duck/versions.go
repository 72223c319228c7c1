// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ducklauncher/duck/pkg/manifest"

	"github.com/spf13/cobra"
)

type versionsOptions struct {
	all     bool
	refresh bool
	types   []string
}

// newVersionsCommand creates the `duck versions` command.
func newVersionsCommand(st *cliState) *cobra.Command {
	opts := &versionsOptions{}

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List versions from the manifest index",
		Long: `List versions published in the version manifest index.

Only releases are listed unless --all or --type is given. Versions whose
client jar is already in the cache are marked as synced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.fail(cmd, listVersions(cmd.Context(), st, opts))
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "list every version type")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch the manifest index")
	cmd.Flags().StringSliceVar(&opts.types, "type", nil, "version types to list (release, snapshot, old_beta, old_alpha)")

	return cmd
}

func listVersions(ctx context.Context, st *cliState, opts *versionsOptions) error {
	p, err := st.pipeline(ctx)
	if err != nil {
		return err
	}
	idx, err := p.Index(ctx, opts.refresh)
	if err != nil {
		return err
	}

	var stubs []manifest.VersionStub
	switch {
	case opts.all:
		stubs = idx.Filter()
	case len(opts.types) > 0:
		stubs = idx.Filter(opts.types...)
	default:
		stubs = idx.Filter(manifest.TypeRelease)
	}

	w := st.app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Versions"))
	fmt.Fprintf(w, "%s: %s\n", SubtitleStyle.Render("Latest release"), CmdStyle.Render(idx.Latest.Release))
	fmt.Fprintf(w, "%s: %s\n", SubtitleStyle.Render("Latest snapshot"), CmdStyle.Render(idx.Latest.Snapshot))
	fmt.Fprintln(w)

	if len(stubs) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no matching versions)"))
		return nil
	}

	layout := p.Layout()
	for _, v := range stubs {
		line := fmt.Sprintf("  %-24s %-10s %s", v.ID, v.Type, v.ReleaseTime)
		if _, statErr := os.Stat(layout.ClientJarPath(v.ID)); statErr == nil {
			line += " " + SuccessStyle.Render("(synced)")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

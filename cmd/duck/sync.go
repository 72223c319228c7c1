// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ducklauncher/duck/internal/provision"
	"github.com/ducklauncher/duck/pkg/platform"

	"github.com/spf13/cobra"
)

type syncOptions struct {
	os     string
	server bool
}

// newSyncCommand creates the `duck sync` command.
func newSyncCommand(st *cliState) *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync <version>",
		Short: "Download everything a version needs",
		Long: `Download the client jar, libraries, natives, asset index and assets
of a version into the shared cache. Files already present with the
expected size are not downloaded again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("server") {
				if _, err := st.load(cmd.Context()); err != nil {
					return st.fail(cmd, err)
				}
				st.cfg.Launcher.Server = opts.server
			}
			p, err := st.pipeline(cmd.Context())
			if err != nil {
				return st.fail(cmd, err)
			}
			_, err = syncVersion(cmd.Context(), st, p, args[0], opts.os)
			return st.fail(cmd, err)
		},
	}

	cmd.Flags().StringVar(&opts.os, "os", "", "target operating system (windows, linux, macos); defaults to the host")
	cmd.Flags().BoolVar(&opts.server, "server", false, "also download the server jar")

	return cmd
}

// targetOptions resolves the provisioning target from an --os value.
func targetOptions(osName string) (provision.Options, error) {
	var (
		target platform.OS
		err    error
	)
	if osName != "" {
		target, err = platform.Parse(osName)
	} else {
		target, err = platform.Current()
	}
	if err != nil {
		return provision.Options{}, err
	}
	return provision.Options{OS: target, Arch: platform.Arch(runtime.GOARCH)}, nil
}

// syncVersion provisions id and prints one line per batch.
func syncVersion(ctx context.Context, st *cliState, p *provision.Pipeline, id, osName string) (*provision.Result, error) {
	opts, err := targetOptions(osName)
	if err != nil {
		return nil, err
	}

	res, err := p.Provision(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &provision.MissingVersionError{ID: id}
	}

	w := st.app.stdout
	for _, r := range res.Reports {
		fmt.Fprintf(w, "%s %-12s %d of %d downloaded\n", SuccessStyle.Render("✓"), r.Batch, r.Fetched, r.Required)
	}
	fmt.Fprintf(w, "%s %s ready for %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.Descriptor.ID), res.OS)
	return res, nil
}

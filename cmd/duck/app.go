// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/ducklauncher/duck/internal/config"
	"github.com/ducklauncher/duck/internal/fetch"
	"github.com/ducklauncher/duck/internal/launch"
	"github.com/ducklauncher/duck/internal/provision"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler reaches configuration, the network
	// client and the game runner through it.
	App struct {
		Config ConfigProvider
		Client provision.Client
		Runner launch.Runner
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp, except Client and Runner,
	// which are built per invocation from the loaded configuration.
	Dependencies struct {
		Config ConfigProvider
		Client provision.Client
		Runner launch.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Client: deps.Client,
		Runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// pipeline returns the provisioning pipeline for the loaded configuration,
// building it on first use.
func (s *cliState) pipeline(ctx context.Context) (*provision.Pipeline, error) {
	if s.pipe != nil {
		return s.pipe, nil
	}
	cfg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	client := s.app.Client
	if client == nil {
		client = fetch.NewClient(
			fetch.WithHTTPClient(&http.Client{Timeout: cfg.Network.Timeout}),
			fetch.WithUserAgent(config.AppName+"/"+Version),
		)
	}

	opts := []provision.PipelineOption{provision.WithLogger(s.logger)}
	if cfg.Network.MaxRetries > 0 {
		opts = append(opts, provision.WithFetcher(
			fetch.NewRetrying(client, fetch.WithMaxRetries(uint64(cfg.Network.MaxRetries))),
		))
	}

	pcfg := provision.DefaultConfig(cfg.DataDir)
	pcfg.Apply(
		provision.WithManifestURL(cfg.Network.ManifestURL),
		provision.WithResourcesURL(cfg.Network.ResourcesURL),
		provision.WithMaxConcurrentFetches(cfg.Network.MaxConcurrentFetches),
		provision.WithIncludeServer(cfg.Launcher.Server),
		provision.WithJavaPath(cfg.Launcher.JavaPath),
		provision.WithLauncher(cfg.Launcher.Name, cfg.Launcher.Version),
	)
	s.pipe = provision.New(pcfg, client, opts...)
	return s.pipe, nil
}

// runner returns the injected Runner or one that inherits the terminal.
func (s *cliState) runner() launch.Runner {
	if s.app.Runner != nil {
		return s.app.Runner
	}
	return &launch.ExecRunner{
		Stdin:  os.Stdin,
		Stdout: s.app.stdout,
		Stderr: s.app.stderr,
		Logger: s.logger,
	}
}

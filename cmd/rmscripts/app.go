// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/config"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/convert"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/launch"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration and output through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags are the persistent flags shared by every command.
	globalFlags struct {
		project    string
		configFile string
		verbose    bool
		play       bool
	}

	// session is one resolved invocation: configuration, paths and services.
	session struct {
		cfg     *config.Config
		layout  config.Layout
		logger  *log.Logger
		service *convert.Service
		verbose bool
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadOptions maps global flags to config loading inputs.
func (f *globalFlags) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: f.configFile,
		ProjectDir:     f.project,
	}
}

// open loads configuration and resolves the project layout.
func (a *App) open(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg, err := a.Config.Load(ctx, flags.loadOptions())
	if err != nil {
		return nil, err
	}

	layout, err := config.Resolve(cfg, flags.project)
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("layout resolved",
		"project", layout.ProjectDir, "data", layout.DataFile, "scripts", layout.ScriptsDir)

	return &session{
		cfg:     cfg,
		layout:  layout,
		logger:  logger,
		service: convert.New(convert.OptionsFromConfig(cfg, layout, logger)),
		verbose: verbose,
	}, nil
}

// launcher returns the game launcher for s, writing game output to the App's streams.
func (a *App) launcher(s *session) *launch.Launcher {
	return &launch.Launcher{
		Dir:     s.layout.ProjectDir,
		Command: string(s.cfg.Play.Command),
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Logger:  s.logger,
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `rmscripts config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rmscripts configuration",
		Long: `Manage rmscripts configuration.

The first file found is used:
  - the file given with --config
  - rmscripts.cue in the project directory
  - Linux: ~/.config/rmscripts/config.cue
    macOS: ~/Library/Application Support/rmscripts/config.cue
    Windows: %APPDATA%\rmscripts\config.cue

Any key can also be set with an RMSCRIPTS_ environment variable,
e.g. RMSCRIPTS_PLAY_ENABLED=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), flags)
			if err != nil {
				return app.fail(nil, err)
			}
			source, err := config.Locate(flags.loadOptions())
			if err != nil {
				return app.fail(s, err)
			}
			showConfig(app.stdout, s, source)
			return nil
		},
	})

	var global bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create rmscripts.cue with the default settings in the project directory,
or the user configuration file with --global. Existing files are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flags.project, config.ProjectConfigFile)
			if global {
				var err error
				if path, err = config.UserConfigPath(""); err != nil {
					return app.fail(nil, err)
				}
			}
			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return app.fail(nil, err)
			}
			if created {
				fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			} else {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&global, "global", false, "write the user configuration file instead of the project one")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.Locate(flags.loadOptions())
			if err != nil {
				return app.fail(nil, err)
			}
			if source == "" {
				fmt.Fprintln(app.stdout, "(using defaults)")
			} else {
				fmt.Fprintln(app.stdout, source)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), flags.loadOptions())
			if err != nil {
				return app.fail(nil, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, s *session, source string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	field := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if source == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	}
	fmt.Fprintln(w)

	cfg := s.cfg
	field("", "data_file", cfg.DataFile)
	if cfg.ScriptsDir == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("scripts_dir"), SubtitleStyle.Render("(next to the project)"))
	} else {
		field("", "scripts_dir", cfg.ScriptsDir)
	}
	field("", "manifest_file", cfg.ManifestFile)
	field("", "script_ext", cfg.ScriptExt)
	field("", "tag", cfg.Tag)
	field("", "backup", cfg.Backup)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("play"))
	field("  ", "enabled", cfg.Play.Enabled)
	field("  ", "command", cfg.Play.Command)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	field("  ", "color_scheme", cfg.UI.ColorScheme)
	field("  ", "verbose", cfg.UI.Verbose)

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Resolved Paths"))
	fmt.Fprintln(w)
	field("", "project", s.layout.ProjectDir)
	field("", "data file", s.layout.DataFile)
	field("", "scripts folder", s.layout.ScriptsDir)
	field("", "manifest", s.layout.ManifestPath())
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
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

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "rmscripts",
		Short: "Edit RPG Maker scripts as plain .rb files",
		Long: TitleStyle.Render("rmscripts") + SubtitleStyle.Render(" - Edit RPG Maker scripts as plain .rb files") + `

rmscripts moves the scripts of an RPG Maker project out of
Data/Scripts.rvdata2 into a folder of .rb files, and back.

Run without a subcommand, it exports when the scripts folder does not
exist yet and imports otherwise. The scripts folder sits next to the
project as '<ProjectName>-Scripts' unless configured otherwise.

Close the RPG Maker editor before importing: saving the project in the
editor overwrites the imported scripts.

` + SubtitleStyle.Render("Examples:") + `
  rmscripts                 Export on first run, import afterwards
  rmscripts export          Overwrite the scripts folder from the data file
  rmscripts import --play   Rebuild the data file, then start the game
  rmscripts list            Show folders and scripts in the data file
  rmscripts watch           Import whenever a script file is saved
  rmscripts config init     Create rmscripts.cue in the project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, app, flags, 0)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.project, "project", "C", ".", "RPG Maker project directory")
	pf.StringVar(&flags.configFile, "config", "", "config file (default is <project>/rmscripts.cue, then the user config directory)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&flags.play, "play", false, "start the game after a successful conversion (overrides play.enabled)")

	root.AddCommand(
		newExportCommand(app, flags),
		newImportCommand(app, flags),
		newListCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with os.Args and exits. It is called by main.main().
func Execute() {
	os.Exit(Main())
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	return run(context.Background(), NewApp(Dependencies{}), os.Args[1:])
}

func run(ctx context.Context, app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	// Pass version via fang.WithVersion() since fang overrides root.Version
	if err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

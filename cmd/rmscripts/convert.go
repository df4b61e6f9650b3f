// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/convert"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/issue"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/launch"

	"github.com/spf13/cobra"
)

func newExportCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the scripts folder from the data file",
		Long: `Write every script of the data file to the scripts folder and record
their order in the manifest. Existing files with the same names are
overwritten; other files in the folder are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, app, flags, convert.ModeExport)
		},
	}
}

func newImportCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Rebuild the data file from the scripts folder",
		Long: `Rebuild the data file from the manifest and the script files it lists.
Nothing is written unless every listed script file can be read. The
previous data file is kept with a .bak suffix unless backup is disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, app, flags, convert.ModeImport)
		},
	}
}

// runConversion runs mode, or the detected mode when mode is zero, and then
// starts the game if requested.
func runConversion(cmd *cobra.Command, app *App, flags *globalFlags, mode convert.Mode) error {
	ctx := cmd.Context()

	s, err := app.open(ctx, flags)
	if err != nil {
		return app.fail(nil, err)
	}

	// A broken play command must not cost the user a rewritten data file.
	play := shouldPlay(cmd, flags, s)
	if play {
		if err := app.launcher(s).Validate(); err != nil {
			return app.fail(s, launchError(s, err))
		}
	}

	if mode == 0 {
		if mode, err = s.service.DetectMode(); err != nil {
			return app.fail(s, err)
		}
		if mode == convert.ModeExport {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Scripts folder not found. Exporting scripts..."))
		} else {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Scripts folder found. Importing scripts..."))
		}
	}

	var sum convert.Summary
	if mode == convert.ModeExport {
		sum, err = s.service.Export(ctx)
	} else {
		sum, err = s.service.Import(ctx)
	}
	if err != nil {
		return app.fail(s, err)
	}
	printSummary(app, sum)

	if !play {
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Starting game: %s\n", CmdStyle.Render("▶"), s.cfg.Play.Command)
	if err := app.launcher(s).Run(ctx); err != nil {
		code := 1
		var ee *launch.ExitError
		if errors.As(err, &ee) {
			code = ee.Code
		}
		return app.fail(s, &ExitError{Code: code, Err: launchError(s, err)})
	}
	return nil
}

func launchError(s *session, err error) error {
	return issue.NewErrorContext().
		WithOperation("start the game").
		WithResource(string(s.cfg.Play.Command)).
		WithIssue(issue.LaunchFailedId).
		Wrap(err).
		BuildError()
}

// shouldPlay lets an explicit --play or --play=false win over play.enabled.
func shouldPlay(cmd *cobra.Command, flags *globalFlags, s *session) bool {
	if f := cmd.Flag("play"); f != nil && f.Changed {
		return flags.play
	}
	return s.cfg.Play.Enabled
}

func printSummary(app *App, sum convert.Summary) {
	check := SuccessStyle.Render("✓")
	switch sum.Mode {
	case convert.ModeExport:
		fmt.Fprintf(app.stdout, "%s Exported %d scripts in %d folders to %s\n",
			check, sum.Scripts, sum.Folders, CmdStyle.Render(sum.ScriptsDir))
	case convert.ModeImport:
		fmt.Fprintf(app.stdout, "%s Imported %d scripts in %d folders into %s\n",
			check, sum.Scripts, sum.Folders, CmdStyle.Render(sum.DataFile))
	}
}

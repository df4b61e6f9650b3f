// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/convert"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, flags *globalFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import every time a script file changes",
		Long: `Watch the scripts folder and rebuild the data file whenever a script
file or the manifest changes. The scripts are exported first when the
folder does not exist yet. Stop with Ctrl+C.

A failed import is reported and watching continues; the data file is
left as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.open(ctx, flags)
			if err != nil {
				return app.fail(nil, err)
			}

			mode, err := s.service.DetectMode()
			if err != nil {
				return app.fail(s, err)
			}
			if mode == convert.ModeExport {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("Scripts folder not found. Exporting scripts..."))
				sum, err := s.service.Export(ctx)
				if err != nil {
					return app.fail(s, err)
				}
				printSummary(app, sum)
			}

			fmt.Fprintf(app.stdout, "%s Watching %s for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"), CmdStyle.Render(s.layout.ScriptsDir))
			err = s.service.Watch(ctx, debounce, func(sum convert.Summary, err error) {
				if err != nil {
					fmt.Fprintf(app.stderr, "%s %v\n", ErrorStyle.Render("✗"), err)
					renderGuidance(app.stderr, err, s.verbose, string(s.cfg.UI.ColorScheme))
					return
				}
				printSummary(app, sum)
			})
			if err != nil {
				return app.fail(s, err)
			}
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Stopped watching."))
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period after the last change before importing")
	return cmd
}

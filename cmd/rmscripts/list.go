// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/projector"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"
)

func newListCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the folders and scripts of the data file",
		Long: `Show the folders and scripts of the data file as they would be exported,
without writing anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), flags)
			if err != nil {
				return app.fail(nil, err)
			}
			entries, err := s.service.List(cmd.Context())
			if err != nil {
				return app.fail(s, err)
			}
			fmt.Fprintln(app.stdout, buildTree(s, entries).String())
			return nil
		},
	}
}

// buildTree renders entries below the scripts root. A repeated folder label
// gets its own node so the tree keeps the data file order.
func buildTree(s *session, entries []projector.Entry) *tree.Tree {
	root := tree.Root(rootStyle.Render(s.layout.ScriptsDir)).
		Enumerator(tree.RoundedEnumerator)

	var folder *tree.Tree
	for _, e := range entries {
		switch e.Kind {
		case projector.KindSentinel:
			folder = nil
		case projector.KindFolder:
			folder = tree.Root(folderStyle.Render(projector.FileName(e.Name) + "/"))
			root.Child(folder)
		case projector.KindScript:
			leaf := scriptStyle.Render(filepath.Base(s.service.ScriptPath(e)))
			if folder == nil || e.Folder == "" {
				root.Child(leaf)
			} else {
				folder.Child(leaf)
			}
		}
	}
	return root
}

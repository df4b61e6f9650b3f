// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"strings"
	"time"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/issue"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/watch"
)

// ImportFunc receives the outcome of every import triggered by Watch.
type ImportFunc func(Summary, error)

// Watch imports the folder tree into the container each time a script file
// or the manifest changes, until ctx is canceled. The scripts folder must
// exist. Failed imports are passed to report and do not stop watching.
func (s *Service) Watch(ctx context.Context, debounce time.Duration, report ImportFunc) error {
	w, err := watch.New(watch.Config{
		Root:     s.layout.ScriptsDir,
		Patterns: s.watchPatterns(),
		Debounce: debounce,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Debug("scripts changed", "paths", changed)
			sum, err := s.Import(ctx)
			if report != nil {
				report(sum, err)
			}
			return err
		},
	})
	if err != nil {
		return s.watchError(err)
	}

	s.logger.Info("watching", "dir", w.Root())
	if err := w.Run(ctx); err != nil {
		return s.watchError(err)
	}
	return nil
}

func (s *Service) watchError(err error) error {
	return issue.NewErrorContext().
		WithOperation("watch scripts folder").
		WithResource(s.layout.ScriptsDir).
		WithIssue(issue.WatchFailedId).
		Wrap(err).
		BuildError()
}

// watchPatterns selects script files at any depth and the manifest at the root.
func (s *Service) watchPatterns() []string {
	return []string{
		"**/*" + escapeGlob(s.layout.ScriptExt),
		escapeGlob(s.layout.ManifestFile),
	}
}

var globMeta = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
)

func escapeGlob(s string) string { return globMeta.Replace(s) }

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/config"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/issue"
)

// fail prints guidance for err and returns it as an ExitError. The error
// line itself is printed by fang when the command returns.
func (a *App) fail(s *session, err error) error {
	verbose, scheme := false, config.ColorSchemeAuto
	if s != nil {
		verbose, scheme = s.verbose, s.cfg.UI.ColorScheme
	}
	renderGuidance(a.stderr, err, verbose, string(scheme))

	code := 1
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}
	return &ExitError{Code: code, Err: err}
}

// renderGuidance writes the catalog entry, the suggestions and, in verbose
// mode, the error chain of an ActionableError. Other errors print nothing.
func renderGuidance(w io.Writer, err error, verbose bool, stylePath string) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}

	if g := ae.Guidance(); g != nil {
		if rendered, renderErr := g.Render(stylePath); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}

	// Format() opens with the error line, which fang prints on its own.
	formatted := ae.Format(verbose)
	if _, details, ok := strings.Cut(formatted, "\n"); ok {
		fmt.Fprintln(w, strings.TrimLeft(details, "\n"))
	}
}

// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/issue"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/projector"
)

// wrapError attaches the operation, the most specific file involved, and the
// matching catalog entry to err.
func wrapError(operation, resource string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	ec := issue.NewErrorContext().WithOperation(operation).WithResource(resource).Wrap(err)

	var (
		missingScript *projector.MissingScriptFileError
		missingMan    *projector.MissingManifestError
		invalidName   *projector.InvalidNameError
		duplicate     *projector.DuplicateScriptError
		corrupt       *container.CorruptBodyError
	)
	switch {
	case errors.As(err, &missingScript):
		ec.WithResource(missingScript.Path).
			WithIssue(issue.ScriptFileNotFoundId).
			WithSuggestion(fmt.Sprintf("Restore the file, or remove %q from the manifest", missingScript.Name))
	case errors.As(err, &missingMan):
		ec.WithResource(missingMan.Path).
			WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Restore the manifest, or move the scripts folder away and export again")
	case errors.As(err, &invalidName):
		ec.WithIssue(issue.InvalidScriptNameId).
			WithSuggestion(fmt.Sprintf("Rename script #%d in the RPG Maker script editor", invalidName.Index))
	case errors.As(err, &duplicate):
		ec.WithResource(duplicate.Path).
			WithIssue(issue.DuplicateScriptId).
			WithSuggestion("Give one of the scripts a different name in the RPG Maker script editor")
	case errors.As(err, &corrupt):
		ec.WithIssue(issue.CorruptBodyId).
			WithSuggestion(fmt.Sprintf("Check script %q in the RPG Maker editor", corrupt.Name))
	case errors.Is(err, container.ErrMalformedContainer):
		ec.WithIssue(issue.MalformedContainerId).
			WithSuggestion("Make sure the file is a scripts data file saved by the RPG Maker editor")
	case errors.Is(err, fs.ErrNotExist):
		ec.WithIssue(issue.ContainerNotFoundId).
			WithSuggestion("Run rmscripts from the project folder or pass --project")
	case errors.Is(err, fs.ErrPermission):
		ec.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Close the RPG Maker editor and check file permissions")
	}
	return ec.BuildError()
}

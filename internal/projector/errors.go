// SPDX-License-Identifier: MPL-2.0

package projector

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingManifest is returned when import finds no manifest file.
	ErrMissingManifest = errors.New("missing manifest")
	// ErrMissingScriptFile is returned when a manifest entry has no script file.
	ErrMissingScriptFile = errors.New("missing script file")
	// ErrInvalidName is returned for record names the manifest cannot hold.
	ErrInvalidName = errors.New("invalid record name")
	// ErrDuplicateScript is returned when two records would be written to the
	// same file or directory.
	ErrDuplicateScript = errors.New("duplicate script path")
)

type (
	// MissingManifestError wraps ErrMissingManifest with the expected path.
	MissingManifestError struct {
		Path string
	}

	// MissingScriptFileError wraps ErrMissingScriptFile with the manifest
	// entry and the file it resolved to. Path is left out of the message;
	// callers report it as the failing resource.
	MissingScriptFileError struct {
		Folder string
		Name   string
		Path   string
	}

	// InvalidNameError wraps ErrInvalidName with the offending record.
	InvalidNameError struct {
		Index int
		Name  string
	}

	// DuplicateScriptError wraps ErrDuplicateScript with both colliding records.
	DuplicateScriptError struct {
		Path       string
		FirstIndex int
		Index      int
	}
)

// Error implements the error interface for MissingManifestError.
func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("missing manifest: %s", e.Path)
}

// Unwrap returns ErrMissingManifest for errors.Is() compatibility.
func (e *MissingManifestError) Unwrap() error { return ErrMissingManifest }

// Error implements the error interface for MissingScriptFileError.
func (e *MissingScriptFileError) Error() string {
	if e.Folder == "" {
		return fmt.Sprintf("missing script file for %q", e.Name)
	}
	return fmt.Sprintf("missing script file for %q in folder %q", e.Name, e.Folder)
}

// Unwrap returns ErrMissingScriptFile for errors.Is() compatibility.
func (e *MissingScriptFileError) Unwrap() error { return ErrMissingScriptFile }

// Error implements the error interface for InvalidNameError.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid record name at %d: %q contains a line break", e.Index, e.Name)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface for DuplicateScriptError.
func (e *DuplicateScriptError) Error() string {
	if e.FirstIndex < 0 {
		return fmt.Sprintf("record %d maps to reserved path %s", e.Index, e.Path)
	}
	return fmt.Sprintf("records %d and %d both map to %s", e.FirstIndex, e.Index, e.Path)
}

// Unwrap returns ErrDuplicateScript for errors.Is() compatibility.
func (e *DuplicateScriptError) Unwrap() error { return ErrDuplicateScript }

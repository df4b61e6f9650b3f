// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDataFile is the container location used by RPG Maker VX Ace.
	DefaultDataFile FilePath = "Data/Scripts.rvdata2"
	// DefaultManifestFile is the manifest name inside the scripts root.
	DefaultManifestFile FileName = "manifest.txt"
	// DefaultScriptExt is appended to every exported script.
	DefaultScriptExt ScriptExt = ".rb"
	// DefaultPlayCommand starts the game from the project directory.
	DefaultPlayCommand PlayCommand = "Game.exe"
	// ScriptsDirSuffix is appended to the project name for the default scripts root.
	ScriptsDirSuffix = "-Scripts"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFilePath is returned when a FilePath value is empty or whitespace-only.
	ErrInvalidFilePath = errors.New("invalid file path")
	// ErrInvalidFileName is returned when a FileName is empty or contains a separator.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidScriptExt is returned when a ScriptExt is not a single ".ext" suffix.
	ErrInvalidScriptExt = errors.New("invalid script extension")
	// ErrInvalidTag is returned when a Tag does not fit a Marshal fixnum.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrInvalidPlayCommand is returned when a PlayCommand is whitespace-only.
	ErrInvalidPlayCommand = errors.New("invalid play command")
	// ErrInvalidPlayConfig is the sentinel error wrapped by InvalidPlayConfigError.
	ErrInvalidPlayConfig = errors.New("invalid play config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FilePath is a path relative to the project directory, or absolute.
	// The zero value is only valid where a field documents a default.
	FilePath string

	// InvalidFilePathError is returned for whitespace-only paths.
	InvalidFilePathError struct {
		Value FilePath
	}

	// FileName is a single path element.
	FileName string

	// InvalidFileNameError is returned when a FileName is empty or not a single element.
	InvalidFileNameError struct {
		Value FileName
	}

	// ScriptExt is the extension given to exported scripts, including the dot.
	ScriptExt string

	// InvalidScriptExtError is returned when a ScriptExt is malformed.
	InvalidScriptExtError struct {
		Value ScriptExt
	}

	// Tag is the integer written in the first slot of imported records.
	Tag int64

	// InvalidTagError is returned when a Tag is outside the 32-bit range.
	InvalidTagError struct {
		Value Tag
	}

	// PlayCommand is the shell command line used to start the game.
	PlayCommand string

	// InvalidPlayCommandError is returned when a PlayCommand is whitespace-only.
	InvalidPlayCommandError struct {
		Value PlayCommand
	}

	// InvalidPlayConfigError collects field errors of a PlayConfig.
	InvalidPlayConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DataFile is the script container, relative to the project directory.
		DataFile FilePath `json:"data_file" mapstructure:"data_file"`
		// ScriptsDir is the folder tree root. Empty means "../<Project>-Scripts".
		ScriptsDir FilePath `json:"scripts_dir" mapstructure:"scripts_dir"`
		// ManifestFile is the manifest name inside ScriptsDir.
		ManifestFile FileName `json:"manifest_file" mapstructure:"manifest_file"`
		// ScriptExt is appended to every script file.
		ScriptExt ScriptExt `json:"script_ext" mapstructure:"script_ext"`
		// Tag is written on every record by import.
		Tag Tag `json:"tag" mapstructure:"tag"`
		// Backup keeps the previous container as <DataFile>.bak on import.
		Backup bool `json:"backup" mapstructure:"backup"`
		// Play configures the post-conversion game launch.
		Play PlayConfig `json:"play" mapstructure:"play"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PlayConfig configures the post-conversion game launch.
	PlayConfig struct {
		// Enabled starts the game after a successful conversion.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Command is run in the project directory.
		Command PlayCommand `json:"command" mapstructure:"command"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataFile:     DefaultDataFile,
		ManifestFile: DefaultManifestFile,
		ScriptExt:    DefaultScriptExt,
		Backup:       true,
		Play: PlayConfig{
			Command: DefaultPlayCommand,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields.
// ScriptsDir may be empty; every other path must be set.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DataFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.ScriptsDir != "" {
		if valid, fieldErrs := c.ScriptsDir.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.ManifestFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ScriptExt.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Tag.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Play.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the PlayConfig has valid fields.
// The command is checked even when launching is disabled.
func (c PlayConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		return false, []error{&InvalidPlayConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPlayConfigError.
func (e *InvalidPlayConfigError) Error() string {
	return fmt.Sprintf("invalid play config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPlayConfig and the field errors for errors.Is() compatibility.
func (e *InvalidPlayConfigError) Unwrap() []error {
	return append([]error{ErrInvalidPlayConfig}, e.FieldErrors...)
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig and the field errors for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() []error {
	return append([]error{ErrInvalidUIConfig}, e.FieldErrors...)
}

// String returns the string representation of the FilePath.
func (p FilePath) String() string { return string(p) }

// IsValid returns whether the FilePath is non-empty and not whitespace-only.
func (p FilePath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilePathError.
func (e *InvalidFilePathError) Error() string {
	return fmt.Sprintf("invalid file path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilePath for errors.Is() compatibility.
func (e *InvalidFilePathError) Unwrap() error { return ErrInvalidFilePath }

// String returns the string representation of the FileName.
func (n FileName) String() string { return string(n) }

// IsValid returns whether the FileName is a single, non-empty path element.
func (n FileName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) || filepath.Base(s) != s {
		return false, []error{&InvalidFileNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFileNameError.
func (e *InvalidFileNameError) Error() string {
	return fmt.Sprintf("invalid file name %q: must be a single path element", e.Value)
}

// Unwrap returns ErrInvalidFileName for errors.Is() compatibility.
func (e *InvalidFileNameError) Unwrap() error { return ErrInvalidFileName }

// String returns the string representation of the ScriptExt.
func (x ScriptExt) String() string { return string(x) }

// IsValid returns whether the ScriptExt is a dot followed by at least one
// character, with no further dots or separators.
func (x ScriptExt) IsValid() (bool, []error) {
	s := string(x)
	if len(s) < 2 || s[0] != '.' || strings.ContainsAny(s[1:], `./\`) || strings.TrimSpace(s) != s {
		return false, []error{&InvalidScriptExtError{Value: x}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptExtError.
func (e *InvalidScriptExtError) Error() string {
	return fmt.Sprintf("invalid script extension %q (example: .rb)", e.Value)
}

// Unwrap returns ErrInvalidScriptExt for errors.Is() compatibility.
func (e *InvalidScriptExtError) Unwrap() error { return ErrInvalidScriptExt }

// IsValid returns whether the Tag fits in 32 bits.
func (t Tag) IsValid() (bool, []error) {
	if t < -1<<31 || t > 1<<31-1 {
		return false, []error{&InvalidTagError{Value: t}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTagError.
func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid tag %d: must fit in 32 bits", e.Value)
}

// Unwrap returns ErrInvalidTag for errors.Is() compatibility.
func (e *InvalidTagError) Unwrap() error { return ErrInvalidTag }

// String returns the string representation of the PlayCommand.
func (c PlayCommand) String() string { return string(c) }

// IsValid returns whether the PlayCommand is non-empty.
func (c PlayCommand) IsValid() (bool, []error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidPlayCommandError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPlayCommandError.
func (e *InvalidPlayCommandError) Error() string {
	return fmt.Sprintf("invalid play command %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidPlayCommand for errors.Is() compatibility.
func (e *InvalidPlayCommandError) Unwrap() error { return ErrInvalidPlayCommand }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

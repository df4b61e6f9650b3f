// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Layout holds the absolute locations a conversion works with.
type Layout struct {
	ProjectDir   string
	ProjectName  string
	DataFile     string
	ScriptsDir   string
	ManifestFile string
	ScriptExt    string
}

// Resolve turns cfg into absolute paths for the project in projectDir.
// Without scripts_dir, the tree lives next to the project as
// "<ProjectName>-Scripts".
func Resolve(cfg *Config, projectDir string) (Layout, error) {
	if valid, errs := cfg.IsValid(); !valid {
		return Layout{}, errors.Join(errs...)
	}

	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve project directory: %w", err)
	}

	l := Layout{
		ProjectDir:   abs,
		ProjectName:  filepath.Base(abs),
		DataFile:     within(abs, string(cfg.DataFile)),
		ManifestFile: string(cfg.ManifestFile),
		ScriptExt:    string(cfg.ScriptExt),
	}
	if cfg.ScriptsDir != "" {
		l.ScriptsDir = within(abs, string(cfg.ScriptsDir))
	} else {
		l.ScriptsDir = filepath.Join(filepath.Dir(abs), l.ProjectName+ScriptsDirSuffix)
	}
	return l, nil
}

// ManifestPath returns the manifest location inside the scripts root.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.ScriptsDir, l.ManifestFile)
}

func within(base, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

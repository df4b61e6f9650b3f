// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration root at dir and
// returns the directory config.ConfigDir is expected to resolve to,
// before the application name is appended. The variables are restored
// through t.Cleanup, so callers must not run in parallel.
//
//   - Windows: APPDATA
//   - macOS: HOME (Library/Application Support below it)
//   - Linux and others: XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Cleanup(MustSetenv(t, "APPDATA", dir))
		return dir
	case "darwin":
		t.Cleanup(MustSetenv(t, "HOME", dir))
		return filepath.Join(dir, "Library", "Application Support")
	default:
		t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", dir))
		return dir
	}
}

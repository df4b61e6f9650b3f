// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"io/fs"
	"runtime"
	"strings"
)

// IsTransientError reports whether a failed file replacement may succeed on
// retry. On Windows the game editor and virus scanners hold the data file
// open for short periods, which surfaces as access denied or a sharing
// violation on rename.
//
// Context errors are never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "being used by another process") ||
		strings.Contains(errStr, "sharing violation") {
		return true
	}

	return runtime.GOOS == "windows" && errors.Is(err, fs.ErrPermission)
}

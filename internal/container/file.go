// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to the container path when the previous
// container is kept on write.
const BackupSuffix = ".bak"

// WriteOptions controls how WriteFile replaces an existing container.
type WriteOptions struct {
	// Backup keeps a copy of the previous container at path+BackupSuffix.
	Backup bool
}

// ReadFile reads and decodes the container at path.
func ReadFile(path string) (Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return Decode(data)
}

// WriteFile encodes stream and replaces the container at path. The new
// content is written to a temporary file in the same directory and renamed
// into place, so a failure never leaves a truncated container behind. The
// rename is retried while another process briefly holds the old file.
func WriteFile(ctx context.Context, path string, stream Stream, opts WriteOptions) (err error) {
	data, err := Encode(stream)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create container directory: %w", err)
	}

	mode := fs.FileMode(0o644)
	prev, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		mode = prev.Mode().Perm()
		if opts.Backup {
			if err := backup(path, mode); err != nil {
				return err
			}
		}
	case !errors.Is(statErr, fs.ErrNotExist):
		return fmt.Errorf("stat container: %w", statErr)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary container: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName) // Best-effort cleanup; the original error wins
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temporary container: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temporary container: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary container: %w", err)
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("set container permissions: %w", err)
	}
	return replace(ctx, tmpName, path)
}

func replace(ctx context.Context, from, to string) error {
	err := RetryWithBackoff(ctx, replaceAttempts, replaceBackoff, func(int) (bool, error) {
		err := os.Rename(from, to)
		return IsTransientError(err), err
	})
	if err != nil {
		return fmt.Errorf("replace container: %w", err)
	}
	return nil
}

func backup(path string, mode fs.FileMode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read container for backup: %w", err)
	}
	if err := os.WriteFile(path+BackupSuffix, data, mode); err != nil {
		return fmt.Errorf("write container backup: %w", err)
	}
	return nil
}

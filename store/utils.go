package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultFileName is the live file name used by the flat-file engine.
	DefaultFileName = "memory.db"

	// DefaultBoltFileName is the live file name used by the bolt engine.
	DefaultBoltFileName = "memory.bolt"

	// DefaultMaxBackups is the retention cap applied when none is configured.
	DefaultMaxBackups = 10

	// BackupsDirName is the backups directory name inside a store root.
	BackupsDirName = "backups"

	// tempSuffix is appended to the live file name to form the staging path.
	tempSuffix = ".tmp"

	// storeDirMode is the permission mode for directories the engines create.
	storeDirMode = 0o750
)

// layout is the on-disk shape shared by the file-backed engines: a root
// directory holding the live file, its temp sibling, and a backups
// subdirectory.
type layout struct {
	root     string
	livePath string
	tempPath string
	keep     retention
}

// resolveLayout validates the root, file name, and retention cap, and
// computes the engine's paths. The root does not have to exist yet; it is
// created on first save.
func resolveLayout(root, fileName, defaultFileName string, maxBackups int) (layout, error) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		return layout{}, err
	}

	if strings.TrimSpace(fileName) == "" {
		fileName = defaultFileName
	}

	if fileName != filepath.Base(fileName) || fileName == "." || fileName == ".." {
		return layout{}, fmt.Errorf("%w: %q", ErrFileNameInvalid, fileName)
	}

	if maxBackups < 1 {
		return layout{}, fmt.Errorf("%w: got %d", ErrRetentionInvalid, maxBackups)
	}

	livePath := filepath.Join(resolved, fileName)

	return layout{
		root:     resolved,
		livePath: livePath,
		tempPath: livePath + tempSuffix,
		keep: retention{
			dir: filepath.Join(resolved, BackupsDirName),
			max: maxBackups,
		},
	}, nil
}

// ResolveRoot normalizes a store root directory path. The root may be
// absent (it is created lazily on first save), but an existing root must
// be a directory.
func ResolveRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", ErrRootResolveFailed)
	}

	absPath, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("%w: path %q: %w", ErrRootResolveFailed, trimmed, err)
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %q", ErrRootNotDirectory, absPath)
		}

		return absPath, nil
	case errors.Is(err, os.ErrNotExist):
		return absPath, nil
	default:
		return "", fmt.Errorf("%w: %q: %w", ErrRootResolveFailed, absPath, err)
	}
}

// replaceFile stages srcPath's contents at tempPath and renames the staged
// copy over livePath. The rename is atomic, so a reader never observes a
// half-written live file.
func replaceFile(livePath, tempPath, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrBackupNotFound, srcPath)
		}

		return fmt.Errorf("%w: %q: %w", ErrBackupListFailed, srcPath, err)
	}
	defer src.Close()

	temp, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTempFileFailed, tempPath, err)
	}

	// Track the outcome so the temp file is removed only on failure; on
	// success the rename consumes it.
	var replaceErr error

	defer func() {
		if replaceErr != nil {
			_ = temp.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(temp, src); err != nil {
		replaceErr = fmt.Errorf("%w: %w", ErrTempFileFailed, err)

		return replaceErr
	}

	if err := temp.Sync(); err != nil {
		replaceErr = fmt.Errorf("%w: %w", ErrTempFileFailed, err)

		return replaceErr
	}

	if err := temp.Close(); err != nil {
		replaceErr = fmt.Errorf("%w: %w", ErrTempFileFailed, err)

		return replaceErr
	}

	if err := os.Rename(tempPath, livePath); err != nil {
		replaceErr = fmt.Errorf("%w: %w", ErrLiveReplaceFailed, err)

		return replaceErr
	}

	return nil
}

package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// backupTimestampFormat names new backups. Nanosecond precision keeps
// rapid consecutive saves from colliding on a filename; parsing accepts
// any RFC3339 timestamp regardless of fractional precision.
const backupTimestampFormat = time.RFC3339Nano

// retention manages the timestamped backup set for a file-backed engine:
// listing, capped pruning, and capturing new backups.
//
// Filenames double as sort keys. A file whose name does not parse as an
// RFC3339 timestamp is not a backup: it is excluded from the count and
// is never deleted.
type retention struct {
	// dir is the backups directory.
	dir string

	// max is the retention cap, at least 1.
	max int
}

// list returns the retained backups sorted ascending by parsed timestamp.
// A missing backups directory yields an empty listing and no error.
func (r retention) list() ([]Backup, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %q: %w", ErrBackupListFailed, r.dir, err)
	}

	var backups []Backup

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		createdAt, parseErr := time.Parse(backupTimestampFormat, entry.Name())
		if parseErr != nil {
			// Not a timestamp, not a backup. Foreign files stay untouched.
			continue
		}

		backup := Backup{
			Name:      entry.Name(),
			CreatedAt: createdAt,
		}

		if info, infoErr := entry.Info(); infoErr == nil {
			backup.Size = info.Size()
		}

		backups = append(backups, backup)
	}

	// Deletion order is strictly parsed-timestamp order, so equivalent
	// timestamps written with different offsets still sort correctly.
	slices.SortFunc(backups, func(a, b Backup) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return backups, nil
}

// prune deletes the oldest backups until at most max remain. Each victim
// is removed by its listed filename, so a non-canonical but parseable
// name never produces a remove-miss.
func (r retention) prune() error {
	backups, err := r.list()
	if err != nil {
		return err
	}

	excess := len(backups) - r.max
	for i := 0; i < excess; i++ {
		path := filepath.Join(r.dir, backups[i].Name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrBackupRemoveFailed, backups[i].Name, err)
		}
	}

	return nil
}

// capture creates the backups directory if needed and writes one new
// backup named by the current local timestamp, streaming its contents
// through write. Returns the new backup's name. A partially written
// backup is removed on failure so retention never counts it.
func (r retention) capture(write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(r.dir, storeDirMode); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrBackupsDirectoryFailed, r.dir, err)
	}

	name := time.Now().Format(backupTimestampFormat)
	path := filepath.Join(r.dir, name)

	handle, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrBackupCopyFailed, name, err)
	}

	if err := write(handle); err != nil {
		_ = handle.Close()
		_ = os.Remove(path)

		return "", fmt.Errorf("%w: %q: %w", ErrBackupCopyFailed, name, err)
	}

	if err := handle.Close(); err != nil {
		_ = os.Remove(path)

		return "", fmt.Errorf("%w: %q: %w", ErrBackupCopyFailed, name, err)
	}

	return name, nil
}

// find validates a backup name and returns its full path. The name must
// itself parse as an RFC3339 timestamp before the directory is consulted,
// so arbitrary relative paths can never reach the filesystem.
func (r retention) find(name string) (string, error) {
	if _, err := time.Parse(backupTimestampFormat, name); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrBackupNameUnparsable, name, err)
	}

	path := filepath.Join(r.dir, name)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrBackupNotFound, name)
		}

		return "", fmt.Errorf("%w: %q: %w", ErrBackupListFailed, name, err)
	}

	return path, nil
}

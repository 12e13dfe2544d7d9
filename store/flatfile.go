package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FlatFile is the canonical engine: a plain text live file holding one
// record per line as key=<encoded value>, with full-copy timestamped
// backups in a sibling backups directory.
//
// Layout, rooted at a directory:
//
//	<root>/memory.db        live file
//	<root>/memory.db.tmp    staging file, transient during a save
//	<root>/backups/<ts>     one full copy per save, RFC3339-named
//
// The engine holds no file handles between calls; every operation opens
// and releases its own. It performs no locking: concurrent callers on
// the same root race on the temp and live files.
type FlatFile struct {
	root     string
	livePath string
	tempPath string
	keep     retention
}

var _ Store = (*FlatFile)(nil)

// NewFlatFile constructs a flat-file engine rooted at the given directory.
// An empty fileName selects DefaultFileName. The root may not exist yet;
// it is created on first save. maxBackups must be at least 1.
func NewFlatFile(root, fileName string, maxBackups int) (*FlatFile, error) {
	resolved, err := resolveLayout(root, fileName, DefaultFileName, maxBackups)
	if err != nil {
		return nil, err
	}

	return &FlatFile{
		root:     resolved.root,
		livePath: resolved.livePath,
		tempPath: resolved.tempPath,
		keep:     resolved.keep,
	}, nil
}

// Path returns the live file's absolute path.
func (s *FlatFile) Path() string { return s.livePath }

// BackupsDir returns the backups directory's absolute path.
func (s *FlatFile) BackupsDir() string { return s.keep.dir }

// Load reads the live file and returns its records. A missing live file
// reads as an empty store. Lines without a separator are skipped; when a
// key repeats, the later line wins.
func (s *FlatFile) Load() (map[string][]byte, error) {
	raw, err := os.ReadFile(s.livePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string][]byte), nil
		}

		return nil, fmt.Errorf("%w: %q: %w", ErrLiveReadFailed, s.livePath, err)
	}

	return parseRecords(raw), nil
}

// Save replaces the live file's contents with records.
//
// The ordering below is fixed: retention runs before any live-file
// mutation, the backup captures the pre-save state, and the staged file
// is renamed into place only after a sync, so a reader never observes a
// half-written live file.
func (s *FlatFile) Save(records map[string][]byte) error {
	if err := s.keep.prune(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.root, storeDirMode); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRootDirectoryFailed, s.root, err)
	}

	temp, err := os.Create(s.tempPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTempFileFailed, s.tempPath, err)
	}

	// Track the outcome so the deferred cleanup only runs on failure; on
	// success the rename consumes the temp file.
	var saveErr error

	defer func() {
		if saveErr != nil {
			_ = temp.Close()
			_ = os.Remove(s.tempPath)
		}
	}()

	if saveErr = s.ensureLiveFile(); saveErr != nil {
		return saveErr
	}

	if _, saveErr = s.captureBackup(); saveErr != nil {
		return saveErr
	}

	// Enforce the cap again now that the capture added a file, keeping
	// the post-save backup count at or below the configured maximum.
	if saveErr = s.keep.prune(); saveErr != nil {
		return saveErr
	}

	if saveErr = writeRecords(temp, records); saveErr != nil {
		return saveErr
	}

	if err := temp.Sync(); err != nil {
		saveErr = fmt.Errorf("%w: %q: %w", ErrTempFileFailed, s.tempPath, err)

		return saveErr
	}

	if err := temp.Close(); err != nil {
		saveErr = fmt.Errorf("%w: %q: %w", ErrTempFileFailed, s.tempPath, err)

		return saveErr
	}

	if err := os.Rename(s.tempPath, s.livePath); err != nil {
		saveErr = fmt.Errorf("%w: %q: %w", ErrLiveReplaceFailed, s.livePath, err)

		return saveErr
	}

	return nil
}

// Prune enforces the backup retention cap.
func (s *FlatFile) Prune() error { return s.keep.prune() }

// Backups lists the retained backups sorted oldest first.
func (s *FlatFile) Backups() ([]Backup, error) { return s.keep.list() }

// Restore replaces the live file with the named backup's contents using
// the same stage-then-rename protocol as Save.
func (s *FlatFile) Restore(name string) error {
	backupPath, err := s.keep.find(name)
	if err != nil {
		return err
	}

	return replaceFile(s.livePath, s.tempPath, backupPath)
}

// Stat reports the live file's path, record count, size, and digest.
// A store that has never been saved stats as empty.
func (s *FlatFile) Stat() (Stat, error) {
	stat := Stat{Path: s.livePath}

	info, err := os.Stat(s.livePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stat, nil
		}

		return Stat{}, fmt.Errorf("%w: %q: %w", ErrLiveStatFailed, s.livePath, err)
	}

	stat.Bytes = info.Size()

	records, err := s.Load()
	if err != nil {
		return Stat{}, err
	}

	stat.Entries = len(records)

	digest, err := FileDigest(s.livePath)
	if err != nil {
		return Stat{}, err
	}

	stat.Digest = digest

	return stat, nil
}

// Close is a no-op; the engine holds no handles between calls.
func (s *FlatFile) Close() error { return nil }

// ensureLiveFile creates an empty live file when none exists yet, so the
// first save still captures a backup of the (empty) prior state. An
// existing live file is left untouched.
func (s *FlatFile) ensureLiveFile() error {
	handle, err := os.OpenFile(s.livePath, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrLiveCreateFailed, s.livePath, err)
	}

	if err := handle.Close(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrLiveCreateFailed, s.livePath, err)
	}

	return nil
}

// captureBackup copies the current live file into a new timestamped
// backup and returns the backup's name.
func (s *FlatFile) captureBackup() (string, error) {
	return s.keep.capture(func(dst io.Writer) error {
		src, err := os.Open(s.livePath)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrLiveReadFailed, s.livePath, err)
		}
		defer src.Close()

		if _, err := io.Copy(dst, src); err != nil {
			return err
		}

		return nil
	})
}

// parseRecords splits the live file's text into records: one per line,
// key and encoded value separated by the first "=", both trimmed.
func parseRecords(raw []byte) map[string][]byte {
	records := make(map[string][]byte)

	for _, line := range strings.Split(string(raw), "\n") {
		key, fragment, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		records[strings.TrimSpace(key)] = []byte(strings.TrimSpace(fragment))
	}

	return records
}

// writeRecords writes one record per line in the key=<encoded value> wire
// form, each followed by a newline. Map iteration order is unspecified
// and not significant on disk.
func writeRecords(w io.Writer, records map[string][]byte) error {
	buffered := bufio.NewWriter(w)

	for key, fragment := range records {
		if _, err := fmt.Fprintf(buffered, "%s=%s\n", key, fragment); err != nil {
			return fmt.Errorf("%w: %w", ErrTempFileFailed, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrTempFileFailed, err)
	}

	return nil
}

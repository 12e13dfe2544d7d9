package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
	boltErrors "go.etcd.io/bbolt/errors"
)

// Bolt is a bbolt-backed engine for hosts that outgrow the text file but
// keep the whole-map persistence model. Records live in a single bucket;
// Save rewrites the bucket in one write transaction. Backups are
// consistent snapshots streamed via tx.WriteTo into the same timestamped
// backups directory the flat-file engine uses, under the same retention
// policy.
//
// Unlike FlatFile, the engine holds its database handle open between
// calls; Close releases it. The two layouts are not wire-compatible.
type Bolt struct {
	livePath string
	tempPath string
	bucket   []byte
	keep     retention
	handle   *bolt.DB
}

var _ Store = (*Bolt)(nil)

const (
	// boltBucketName is the bucket holding the record set.
	boltBucketName = "records"

	// boltOpenTimeout bounds how long opening waits on another process's
	// file lock before failing instead of hanging.
	boltOpenTimeout = time.Second
)

// NewBolt constructs and opens a bolt engine rooted at the given
// directory, creating the root and the database file if needed. An empty
// fileName selects DefaultBoltFileName. maxBackups must be at least 1.
func NewBolt(root, fileName string, maxBackups int) (*Bolt, error) {
	resolved, err := resolveLayout(root, fileName, DefaultBoltFileName, maxBackups)
	if err != nil {
		return nil, err
	}

	s := &Bolt{
		livePath: resolved.livePath,
		tempPath: resolved.tempPath,
		bucket:   []byte(boltBucketName),
		keep:     resolved.keep,
	}

	if err := os.MkdirAll(resolved.root, storeDirMode); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrRootDirectoryFailed, resolved.root, err)
	}

	if err := s.openHandle(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the live database file's absolute path.
func (s *Bolt) Path() string { return s.livePath }

// BackupsDir returns the backups directory's absolute path.
func (s *Bolt) BackupsDir() string { return s.keep.dir }

// Load reads the full record set in one read transaction. Values are
// cloned out of bolt's transaction-scoped memory.
func (s *Bolt) Load() (map[string][]byte, error) {
	if s.handle == nil {
		return nil, ErrStoreClosed
	}

	records := make(map[string][]byte)

	err := s.handle.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("%w: %q", ErrBoltBucketMissing, s.bucket)
		}

		return bucket.ForEach(func(k, v []byte) error {
			records[string(k)] = slices.Clone(v)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBoltReadFailed, err)
	}

	return records, nil
}

// Save replaces the record set: retention first, then a backup of the
// pre-save state, then the cap again, then one write transaction that
// drops and rebuilds the bucket.
func (s *Bolt) Save(records map[string][]byte) error {
	if s.handle == nil {
		return ErrStoreClosed
	}

	if err := s.keep.prune(); err != nil {
		return err
	}

	if _, err := s.captureBackup(); err != nil {
		return err
	}

	if err := s.keep.prune(); err != nil {
		return err
	}

	err := s.handle.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil && !errors.Is(err, boltErrors.ErrBucketNotFound) {
			return err
		}

		bucket, err := tx.CreateBucket(s.bucket)
		if err != nil {
			return err
		}

		for key, fragment := range records {
			if err := bucket.Put([]byte(key), fragment); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBoltWriteFailed, err)
	}

	return nil
}

// Prune enforces the backup retention cap.
func (s *Bolt) Prune() error { return s.keep.prune() }

// Backups lists the retained backups sorted oldest first.
func (s *Bolt) Backups() ([]Backup, error) { return s.keep.list() }

// Restore closes the database, renames a staged copy of the named backup
// over the live file, and reopens. If staging fails the original
// database is reopened untouched.
func (s *Bolt) Restore(name string) error {
	if s.handle == nil {
		return ErrStoreClosed
	}

	backupPath, err := s.keep.find(name)
	if err != nil {
		return err
	}

	if err := s.closeHandle(); err != nil {
		return err
	}

	replaceErr := replaceFile(s.livePath, s.tempPath, backupPath)

	if err := s.openHandle(); err != nil {
		if replaceErr != nil {
			return replaceErr
		}

		return err
	}

	return replaceErr
}

// Stat reports the database file's path, record count, size, and digest.
func (s *Bolt) Stat() (Stat, error) {
	if s.handle == nil {
		return Stat{}, ErrStoreClosed
	}

	stat := Stat{Path: s.livePath}

	info, err := os.Stat(s.livePath)
	if err != nil {
		return Stat{}, fmt.Errorf("%w: %q: %w", ErrLiveStatFailed, s.livePath, err)
	}

	stat.Bytes = info.Size()

	entries, err := s.entryCount()
	if err != nil {
		return Stat{}, err
	}

	stat.Entries = entries

	digest, err := FileDigest(s.livePath)
	if err != nil {
		return Stat{}, err
	}

	stat.Digest = digest

	return stat, nil
}

// Close releases the database handle. Closing an already-closed engine
// is a no-op.
func (s *Bolt) Close() error {
	if s.handle == nil {
		return nil
	}

	return s.closeHandle()
}

// openHandle opens the database file and ensures the records bucket
// exists.
func (s *Bolt) openHandle() error {
	handle, err := bolt.Open(s.livePath, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrBoltOpenFailed, s.livePath, err)
	}

	err = handle.Update(func(tx *bolt.Tx) error {
		_, bucketErr := tx.CreateBucketIfNotExists(s.bucket)

		return bucketErr
	})
	if err != nil {
		_ = handle.Close()

		return fmt.Errorf("%w: %q: %w", ErrBoltOpenFailed, s.livePath, err)
	}

	s.handle = handle

	return nil
}

// closeHandle closes the database handle and marks the engine closed.
func (s *Bolt) closeHandle() error {
	err := s.handle.Close()
	s.handle = nil

	if err != nil {
		return fmt.Errorf("%w: %w", ErrBoltCloseFailed, err)
	}

	return nil
}

// captureBackup streams a consistent snapshot of the database into a new
// timestamped backup and returns the backup's name. tx.WriteTo copies
// the full file format inside a read transaction, so the snapshot is
// point-in-time even though the handle stays open.
func (s *Bolt) captureBackup() (string, error) {
	return s.keep.capture(func(dst io.Writer) error {
		return s.handle.View(func(tx *bolt.Tx) error {
			if _, err := tx.WriteTo(dst); err != nil {
				return err
			}

			return nil
		})
	})
}

// entryCount returns the number of records from bucket stats without
// iterating entries.
func (s *Bolt) entryCount() (int, error) {
	var count int

	err := s.handle.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("%w: %q", ErrBoltBucketMissing, s.bucket)
		}

		count = bucket.Stats().KeyN

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBoltReadFailed, err)
	}

	return count, nil
}

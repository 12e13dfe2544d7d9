package store

import (
	"fmt"
	"slices"
	"sync"
)

// Memory is an ephemeral engine holding the record set in process
// memory. It exists for host tests and cache-only hosts that want the
// Store contract without a filesystem: nothing survives the process, no
// backups are kept, and Restore always fails.
//
// Memory is the one engine safe for concurrent use; it is meant to be
// shared across goroutines in tests. Load and Save copy the record map
// and every value, so callers never alias the engine's memory.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory constructs an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Load returns a deep copy of the current record set.
func (s *Memory) Load() (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.records), nil
}

// Save replaces the record set with a deep copy of records.
func (s *Memory) Save(records map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = cloneRecords(records)

	return nil
}

// Prune is a no-op; the engine keeps no backups.
func (s *Memory) Prune() error { return nil }

// Backups returns an empty listing; the engine keeps no backups.
func (s *Memory) Backups() ([]Backup, error) { return nil, nil }

// Restore always fails; there is never a backup to restore from.
func (s *Memory) Restore(name string) error {
	return fmt.Errorf("%w: %q", ErrBackupNotFound, name)
}

// Stat reports the record count and the total encoded payload size.
// Path and Digest are zero: there is no live file to describe.
func (s *Memory) Stat() (Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payloadBytes int64
	for key, fragment := range s.records {
		payloadBytes += int64(len(key) + len(fragment))
	}

	return Stat{
		Entries: len(s.records),
		Bytes:   payloadBytes,
	}, nil
}

// Close is a no-op.
func (s *Memory) Close() error { return nil }

// cloneRecords deep-copies a record map, cloning every value slice.
func cloneRecords(records map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(records))

	for key, fragment := range records {
		out[key] = slices.Clone(fragment)
	}

	return out
}

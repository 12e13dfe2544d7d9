package memorydb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/southvictor/memory-db/store"
)

type (
	// Backup describes one timestamped backup of the live file.
	Backup = store.Backup

	// Stat describes the live file behind a DB.
	Stat = store.Stat
)

// DB binds a storage engine to a codec. Values go in and out as whole maps:
// Load materializes everything the live file holds, Save replaces everything
// it holds. A DB performs no locking of its own; the memory backend is the
// only engine safe for concurrent use.
type DB[T any] struct {
	// store is the backing engine chosen by Options.Backend.
	store store.Store

	// codec encodes values into stored fragments and back.
	codec Codec[T]
}

// Open builds a DB that encodes values of type T as JSON.
func Open[T any](opts Options) (*DB[T], error) {
	return OpenWithCodec[T](opts, JSONCodec[T]{})
}

// OpenWithCodec builds a DB over the engine selected by opts, using the
// provided codec. Every option problem surfaces here, before any data
// moves.
func OpenWithCodec[T any](opts Options, codec Codec[T]) (*DB[T], error) {
	if codec == nil {
		return nil, classify(fmt.Errorf("%w: codec must not be nil", ErrOptionsInvalid))
	}

	opts = opts.normalize()
	if err := opts.validate(); err != nil {
		return nil, classify(err)
	}

	var (
		eng store.Store
		err error
	)

	switch opts.Backend {
	case BackendFlatFile:
		eng, err = store.NewFlatFile(opts.Root, opts.FileName, opts.MaxBackups)
	case BackendBolt:
		eng, err = store.NewBolt(opts.Root, opts.FileName, opts.MaxBackups)
	case BackendMemory:
		eng = store.NewMemory()
	}

	if err != nil {
		return nil, classify(err)
	}

	return &DB[T]{
		store: eng,
		codec: codec,
	}, nil
}

// Load reads and decodes every stored record. A missing live file is not an
// error; it decodes to an empty map.
//
// Error cases:
//   - DecodeError when a fragment cannot be decoded (reported with its key).
//   - IOError when the live file exists but cannot be read.
func (db *DB[T]) Load() (map[string]T, error) {
	records, err := db.store.Load()
	if err != nil {
		return nil, classify(err)
	}

	values := make(map[string]T, len(records))

	for key, fragment := range records {
		value, err := db.codec.Decode(fragment)
		if err != nil {
			return nil, classify(fmt.Errorf("key %q: %w", key, err))
		}

		values[key] = value
	}

	return values, nil
}

// Save encodes the full map and replaces the stored state with it. Keys are
// validated and values encoded before the engine runs, so a bad entry leaves
// the stored state untouched. A successful save also captures a backup of
// the previous state and prunes the backup set down to the retention cap.
//
// Error cases:
//   - InvalidKeyError when a key would not survive a save/load round trip.
//   - EncodeError when a value cannot be encoded (reported with its key).
//   - IOError when the engine fails to persist the new state.
func (db *DB[T]) Save(values map[string]T) error {
	records, err := encodeAll(db.codec, values)
	if err != nil {
		return classify(err)
	}

	return classify(db.store.Save(records))
}

// Prune deletes the oldest backups until at most the retention cap remain.
// Save runs this automatically; Prune exists to reclaim space after the cap
// was lowered on an existing store.
func (db *DB[T]) Prune() error {
	return classify(db.store.Prune())
}

// Backups lists the stored backups sorted oldest first. Files whose names do
// not parse as timestamps are not backups and are not listed.
func (db *DB[T]) Backups() ([]Backup, error) {
	backups, err := db.store.Backups()
	if err != nil {
		return nil, classify(err)
	}

	return backups, nil
}

// Restore replaces the live state with the named backup's contents. The name
// must be one reported by Backups.
//
// Error cases:
//   - TimestampParseError when the name does not parse as a timestamp.
//   - IOError when the backup is missing or the replacement fails.
func (db *DB[T]) Restore(name string) error {
	return classify(db.store.Restore(name))
}

// Stat reports the live file's path, entry count, size, and content digest.
func (db *DB[T]) Stat() (Stat, error) {
	stat, err := db.store.Stat()
	if err != nil {
		return Stat{}, classify(err)
	}

	return stat, nil
}

// Close releases the engine's resources. Operations on a closed DB fail.
func (db *DB[T]) Close() error {
	return classify(db.store.Close())
}

// Load reads the database under root in one call: open the default
// flat-file engine, load everything as JSON, close.
func Load[T any](root string) (map[string]T, error) {
	db, err := Open[T](Options{Root: root})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Load()
}

// Save writes the full map under root in one call: open the default
// flat-file engine, replace the stored state, close.
func Save[T any](root string, values map[string]T) error {
	db, err := Open[T](Options{Root: root})
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Save(values)
}

// encodeAll validates every key and encodes every value up front, so an
// invalid entry is caught before anything touches disk.
func encodeAll[T any](codec Codec[T], values map[string]T) (map[string][]byte, error) {
	records := make(map[string][]byte, len(values))

	for key, value := range values {
		if err := validateKey(key); err != nil {
			return nil, err
		}

		fragment, err := codec.Encode(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		if bytes.ContainsAny(fragment, "\n\r") {
			return nil, fmt.Errorf("%w: key %q: fragment spans multiple lines", ErrEncodeFailed, key)
		}

		records[key] = fragment
	}

	return records, nil
}

// validateKey rejects keys the record format cannot round-trip. A key sits
// bare on the left of the separator, so a separator, a line break, or
// surrounding whitespace in it would change meaning on the next load. The
// rules hold for every backend, which keeps data portable between engines.
func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: key is empty", ErrKeyInvalid)
	case strings.ContainsAny(key, "=\n\r"):
		return fmt.Errorf("%w: %q contains a separator or line break", ErrKeyInvalid, key)
	case strings.TrimSpace(key) != key:
		return fmt.Errorf("%w: %q has leading or trailing whitespace", ErrKeyInvalid, key)
	}

	return nil
}

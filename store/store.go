package store

import "time"

type (
	// Backup describes one retained backup of the live store file.
	Backup struct {
		// Name is the backup's filename inside the backups directory,
		// an RFC3339 timestamp recorded at capture time.
		Name string

		// CreatedAt is the capture timestamp parsed from Name. It is the
		// sort key for retention; filesystem metadata is never consulted.
		CreatedAt time.Time

		// Size is the backup file's size in bytes.
		Size int64
	}

	// Stat is a point-in-time description of the live store.
	Stat struct {
		// Path is the live file's absolute path. Empty for engines that
		// keep no file.
		Path string

		// Entries is the number of records currently stored.
		Entries int

		// Bytes is the live file's size in bytes.
		Bytes int64

		// Digest is the 64-bit xxHash of the live file's contents. Zero
		// when no live file exists.
		Digest uint64
	}
)

// Store is the contract shared by all persistence engines.
//
// The model is whole-map persistence: Load returns every record, Save
// replaces every record. There are no partial updates, no per-key
// operations, and no range queries at this layer.
//
// Error semantics:
//
//   - A missing live file is not an error; Load returns an empty map.
//   - All other failures wrap one of the package's sentinel errors so
//     callers can classify them with errors.Is.
type Store interface {
	// Load reads the full record set from the live store.
	//
	// If the live store does not exist yet, Load returns an empty,
	// non-nil map and no error.
	Load() (map[string][]byte, error)

	// Save replaces the live store's contents with records, capturing a
	// timestamped backup of the prior state first and enforcing the
	// retention cap. On success the live store reflects exactly records;
	// on failure the on-disk state is undefined.
	Save(records map[string][]byte) error

	// Prune enforces the backup retention cap, deleting the oldest
	// backups strictly by parsed timestamp order until at most the
	// configured maximum remain. A missing backups directory is a no-op
	// success. Save runs Prune automatically; it is exposed for hosts
	// that want to reclaim space without saving.
	Prune() error

	// Backups lists the retained backups sorted oldest first. Files
	// whose names do not parse as RFC3339 timestamps are not backups:
	// they are excluded from the listing, the retention count, and the
	// deletion set.
	Backups() ([]Backup, error)

	// Restore replaces the live store's contents with the named backup's.
	// The name must parse as an RFC3339 timestamp and must exist in the
	// backups directory. Restore does not capture a backup of the state
	// it overwrites and does not run retention.
	Restore(name string) error

	// Stat reports the live store's path, record count, byte size, and
	// content digest. A store that has never been saved stats as empty.
	Stat() (Stat, error)

	// Close releases any resources held by the engine. Engines that hold
	// no handles between calls implement this as a no-op.
	Close() error
}

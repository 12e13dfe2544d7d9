package memorydb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/southvictor/memory-db/store"
)

const (
	// BackendFlatFile selects the line-oriented text file engine.
	BackendFlatFile = "flatfile"

	// BackendBolt selects the bbolt engine.
	BackendBolt = "bolt"

	// BackendMemory selects the ephemeral in-process engine.
	BackendMemory = "memory"

	// DefaultBackend is the engine used when Options.Backend is empty.
	DefaultBackend = BackendFlatFile
)

// Options controls how Open and OpenWithCodec build a DB.
type Options struct {
	// Backend selects the storage engine.
	// Valid values: "flatfile" (persistent text), "bolt" (persistent bbolt),
	// "memory" (ephemeral). When empty, "flatfile" is used.
	Backend string

	// Root is the directory holding the live file, its staging sibling, and
	// the backups subdirectory. It does not have to exist yet; it is created
	// on the first save. Required by the persistent backends, ignored by
	// "memory".
	Root string

	// FileName overrides the engine's default live file name. It must be a
	// bare name without path separators. Ignored by "memory".
	FileName string

	// MaxBackups caps how many timestamped backups are retained per save.
	// Zero selects DefaultMaxBackups; values below zero are rejected.
	MaxBackups int
}

// normalize fills in defaults without touching fields that are set.
func (o Options) normalize() Options {
	o.Backend = strings.TrimSpace(o.Backend)
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}

	o.FileName = strings.TrimSpace(o.FileName)

	if o.MaxBackups == 0 {
		o.MaxBackups = store.DefaultMaxBackups
	}

	return o
}

// Validate reports whether the options describe a usable configuration.
// Fields with defaults (empty Backend and FileName, zero MaxBackups) are
// valid; Open and OpenWithCodec apply the defaults before building engines.
func (o Options) Validate() error {
	return o.normalize().validate()
}

// validate assumes normalize has already been applied.
func (o Options) validate() error {
	switch o.Backend {
	case BackendFlatFile, BackendBolt:
		if strings.TrimSpace(o.Root) == "" {
			return fmt.Errorf(
				"%w: a root directory is required by the %q backend", ErrOptionsInvalid, o.Backend,
			)
		}
	case BackendMemory:
		// The memory backend keeps nothing on disk and needs no paths.
	default:
		return fmt.Errorf(
			"%w: unknown backend %q; valid values are: %q, %q, %q",
			ErrOptionsInvalid, o.Backend, BackendFlatFile, BackendBolt, BackendMemory,
		)
	}

	if o.FileName != "" {
		if o.FileName != filepath.Base(o.FileName) || o.FileName == "." || o.FileName == ".." {
			return fmt.Errorf("%w: file name %q must be a bare name", ErrOptionsInvalid, o.FileName)
		}
	}

	if o.MaxBackups < 1 {
		return fmt.Errorf("%w: max backups must be at least 1, got %d", ErrOptionsInvalid, o.MaxBackups)
	}

	return nil
}

// Equal checks if two Options are equal after defaults are applied.
func (o Options) Equal(other Options) bool {
	left, right := o.normalize(), other.normalize()

	return left.Backend == right.Backend &&
		left.Root == right.Root &&
		left.FileName == right.FileName &&
		left.MaxBackups == right.MaxBackups
}

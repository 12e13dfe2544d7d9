package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// FileDigest returns the 64-bit xxHash of the file's contents, streamed so
// large stores are never loaded whole. A missing file digests to zero with
// no error, matching the "absent store reads as empty" rule.
//
// Digests are content fingerprints, not integrity proofs: two files with
// equal digests can be assumed identical for backup-verification purposes.
func FileDigest(path string) (uint64, error) {
	handle, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return 0, fmt.Errorf("%w: %q: %w", ErrDigestFailed, path, err)
	}
	defer handle.Close()

	hasher := xxhash.New()

	if _, err := io.Copy(hasher, handle); err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrDigestFailed, path, err)
	}

	return hasher.Sum64(), nil
}

// Package memorydb persists string-keyed values in a small, inspectable
// database with automatic timestamped backups.
//
// High-level behavior:
//   - A DB is a typed facade over a storage engine: values of any type go in,
//     a codec turns them into stored fragments, and whole maps come back out.
//   - The default engine keeps one record per line in a flat text file, so the
//     database stays readable and diffable with ordinary tools. A bbolt engine
//     and an ephemeral memory engine are available through Options.Backend.
//   - Every save captures the previous state into a timestamped backup first
//     and prunes the oldest backups beyond the retention cap, so the last
//     known-good state always survives a bad write.
//   - Every error crossing the API is a classified *Error; the cause chain
//     stays reachable through errors.Is and errors.As.
package memorydb

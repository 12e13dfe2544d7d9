// Package store provides the persistence engines behind memory-db: the
// canonical flat-file engine, a bbolt-backed engine, and an ephemeral
// in-memory engine. All engines share one contract: load the entire
// record set, save the entire record set, and retain a bounded history
// of timestamped backups of the prior state.
//
// The persistence model is single-caller. Engines perform no
// cross-process coordination, and unless an engine documents otherwise
// its methods are NOT safe for concurrent use; hosts that share a store
// across goroutines must serialize access themselves.
package store

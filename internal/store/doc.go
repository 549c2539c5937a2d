// Package store provides durable key-value storage for cardwise
// entities (cards, payments, presets, flags) across two backends.
//
// The primary backend is SQLite. A legacy single-file JSON store,
// written by pre-SQLite installs, is read through a one-time per-key
// migration: the first Get of an unmigrated key copies the legacy
// value into SQLite and flags the key so the legacy file is never
// consulted for it again. If SQLite becomes unavailable, reads fall
// back to the legacy file and writes degrade to it, reported to the
// caller as an unsuccessful (but not fatal) result.
//
// The store also owns the versioned backup document format used by
// export, import, and the linked-file sync manager.
package store

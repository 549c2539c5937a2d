// Package syncfile keeps the store in best-effort sync with a single
// linked external backup file.
//
// Two capability tiers exist. A native link holds a real read/write
// path: sync writes the export document silently, pull re-reads the
// file, and external edits are detected by modification time. A
// fallback link records only a filename: sync degrades to dropping
// the export into the downloads directory for the user to move by
// hand, and pull is unsupported (the manual import path covers it).
//
// Change detection is polled, not watched. Between an external edit
// and the next check, local edits can be made and then lost on pull;
// that window is an accepted trade-off of the single-writer model.
package syncfile

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Legacy is the synchronous single-file JSON store written by
// pre-SQLite installs. It keeps two separate namespaces: the stored
// values themselves and the per-key migration flags, so flag
// bookkeeping never collides with a legacy key of the same name.
//
// Every operation reads or rewrites the whole file. Writes go through
// a temp file and rename so a crash never leaves a half-written
// document behind.
type Legacy struct {
	path string
}

// legacyDoc is the on-disk shape of the legacy file.
type legacyDoc struct {
	Values   map[string]json.RawMessage `json:"values"`
	Migrated map[string]bool            `json:"migrated"`
}

// NewLegacy attaches a legacy store to path. The file need not exist;
// a missing file reads as empty.
func NewLegacy(path string) *Legacy {
	return &Legacy{path: path}
}

// Path returns the backing file path.
func (l *Legacy) Path() string {
	return l.path
}

func (l *Legacy) load() (legacyDoc, error) {
	doc := legacyDoc{
		Values:   map[string]json.RawMessage{},
		Migrated: map[string]bool{},
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read legacy store: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, &ParseError{Op: "legacy store", Err: err}
	}
	if doc.Values == nil {
		doc.Values = map[string]json.RawMessage{}
	}
	if doc.Migrated == nil {
		doc.Migrated = map[string]bool{}
	}
	return doc, nil
}

func (l *Legacy) save(doc legacyDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal legacy store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create legacy store dir: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write legacy store: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace legacy store: %w", err)
	}
	return nil
}

// Value returns the raw stored value for key, if present.
func (l *Legacy) Value(key string) (json.RawMessage, bool, error) {
	doc, err := l.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// SetValue stores a raw value for key. Used as the degraded write
// path when the primary backend is unavailable.
func (l *Legacy) SetValue(key string, value json.RawMessage) error {
	doc, err := l.load()
	if err != nil {
		return err
	}
	doc.Values[key] = value
	return l.save(doc)
}

// Migrated reports whether key has already been migrated to the
// primary store.
func (l *Legacy) Migrated(key string) (bool, error) {
	doc, err := l.load()
	if err != nil {
		return false, err
	}
	return doc.Migrated[key], nil
}

// SetMigrated flags key as migrated so later reads skip the legacy
// value entirely.
func (l *Legacy) SetMigrated(key string) error {
	doc, err := l.load()
	if err != nil {
		return err
	}
	doc.Migrated[key] = true
	return l.save(doc)
}

// Remove clears both the value and the migration flag for key.
// Clearing the flag too prevents a deleted key from resurrecting the
// stale legacy value on a later read.
func (l *Legacy) Remove(key string) error {
	doc, err := l.load()
	if err != nil {
		return err
	}
	delete(doc.Values, key)
	delete(doc.Migrated, key)
	return l.save(doc)
}

// Clear wipes the entire legacy file, flags included.
func (l *Legacy) Clear() error {
	return l.save(legacyDoc{
		Values:   map[string]json.RawMessage{},
		Migrated: map[string]bool{},
	})
}

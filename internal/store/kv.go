package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Get returns the stored value for key, or ok=false if absent.
//
// The first access of a key that was never migrated checks the legacy
// store; a value found there is validated, written into the primary
// store, flagged migrated, and returned. The flag guarantees each
// legacy key is migrated exactly once. Two racing Gets on the same
// unmigrated key may both migrate; the second write overwrites with
// the identical source value, so the race is idempotent.
//
// If the primary backend fails, Get falls back to reading the legacy
// store directly, with no migration side effect, and returns
// best-effort data.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	value, found, err := s.primaryGet(ctx, key)
	if err != nil {
		s.log.Warn("primary store read failed, falling back to legacy",
			"key", key, "error", err)
		raw, ok, lerr := s.legacy.Value(key)
		if lerr != nil {
			s.log.Warn("legacy fallback read failed", "key", key, "error", lerr)
			return nil, false
		}
		return raw, ok
	}
	if found {
		return value, true
	}

	migrated, err := s.legacy.Migrated(key)
	if err != nil || migrated {
		return nil, false
	}

	raw, ok, err := s.legacy.Value(key)
	if err != nil || !ok {
		return nil, false
	}
	if !json.Valid(raw) {
		s.log.Warn("legacy value is not valid JSON, skipping migration", "key", key)
		return nil, false
	}

	if err := s.primarySet(ctx, key, raw); err != nil {
		// Migration failed; leave the flag unset so a later Get
		// retries. The legacy value is still good data.
		s.log.Warn("legacy migration write failed", "key", key, "error", err)
		return raw, true
	}
	if err := s.legacy.SetMigrated(key); err != nil {
		s.log.Warn("failed to flag key as migrated", "key", key, "error", err)
	}
	return raw, true
}

// Set writes value to the primary store and flags the key migrated so
// future Gets skip the legacy check even if the key never existed
// there.
//
// On primary failure the serialized value is spilled to the legacy
// store and Set returns false. The failure is reported, never thrown;
// callers that need durability must check the result.
func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) bool {
	if err := s.primarySet(ctx, key, value); err != nil {
		s.log.Warn("primary store write failed, spilling to legacy",
			"key", key, "error", err)
		if lerr := s.legacy.SetValue(key, value); lerr != nil {
			s.log.Warn("legacy spill write failed", "key", key, "error", lerr)
		}
		return false
	}
	if err := s.legacy.SetMigrated(key); err != nil {
		s.log.Warn("failed to flag key as migrated", "key", key, "error", err)
	}
	return true
}

// Delete removes key from the primary store and clears both the value
// and the migration flag from the legacy store, so a later Get cannot
// resurrect stale legacy data.
func (s *Store) Delete(ctx context.Context, key string) bool {
	ok := true
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.log.Warn("primary store delete failed", "key", key, "error", err)
		ok = false
	}
	if err := s.legacy.Remove(key); err != nil {
		s.log.Warn("legacy delete failed", "key", key, "error", err)
		ok = false
	}
	return ok
}

// ClearAll enumerates every primary-store key, deletes each, then
// wipes the entire legacy file including migration flags and any
// unrelated keys. This is a deliberate full reset.
func (s *Store) ClearAll(ctx context.Context) bool {
	ok := true

	keys, err := s.keys(ctx)
	if err != nil {
		s.log.Warn("failed to enumerate keys for reset", "error", err)
		ok = false
	}
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			s.log.Warn("reset delete failed", "key", key, "error", err)
			ok = false
		}
	}

	if err := s.legacy.Clear(); err != nil {
		s.log.Warn("legacy wipe failed", "error", err)
		ok = false
	}
	return ok
}

func (s *Store) primaryGet(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("primary get: %w", err)
	}
	return json.RawMessage(value), true, nil
}

func (s *Store) primarySet(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("primary set: %w", err)
	}
	return nil
}

func (s *Store) keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

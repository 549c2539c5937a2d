package store

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/cardwise/internal/config"
)

// StorageStatus describes durability and quota usage of the store.
type StorageStatus struct {
	// Persisted reports whether the primary backend runs with full
	// synchronous durability (granted by RequestPersistence).
	Persisted bool `json:"persisted"`

	// Quota is the configured storage budget in bytes.
	Quota int64 `json:"quota"`

	// Usage is the combined on-disk size of the primary database
	// (including WAL) and the legacy file, in bytes.
	Usage int64 `json:"usage"`

	// Percentage is Usage relative to Quota.
	Percentage float64 `json:"percentage"`
}

// RequestPersistence asks the primary backend for full durability by
// promoting synchronous mode to FULL. Returns whether the request was
// granted (the pragma stuck).
func (s *Store) RequestPersistence(ctx context.Context) bool {
	if _, err := s.db.ExecContext(ctx, "PRAGMA synchronous = FULL"); err != nil {
		s.log.Warn("persistence request failed", "error", err)
		return false
	}
	return s.persisted(ctx)
}

// Status reports persistence mode, quota, and on-disk usage.
func (s *Store) Status(ctx context.Context) (StorageStatus, error) {
	var path string
	var usage int64

	if err := s.db.QueryRowContext(ctx, "PRAGMA database_list").
		Scan(new(int), new(string), &path); err != nil {
		return StorageStatus{}, fmt.Errorf("storage status: %w", err)
	}

	for _, p := range []string{path, path + "-wal", path + "-shm", s.legacy.Path()} {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		usage += info.Size()
	}

	quota := s.quota
	if quota <= 0 {
		quota = config.DefaultQuotaBytes
	}

	return StorageStatus{
		Persisted:  s.persisted(ctx),
		Quota:      quota,
		Usage:      usage,
		Percentage: float64(usage) / float64(quota) * 100,
	}, nil
}

// persisted reports whether synchronous mode is FULL (value 2).
func (s *Store) persisted(ctx context.Context) bool {
	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&mode); err != nil {
		return false
	}
	return mode == "2" || mode == "FULL"
}

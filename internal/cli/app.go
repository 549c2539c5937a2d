package cli

import (
	"os"
	"path/filepath"

	"github.com/roach88/cardwise/internal/config"
	"github.com/roach88/cardwise/internal/store"
	"github.com/roach88/cardwise/internal/syncfile"
)

// openStore loads configuration and opens the persistent store.
// Callers own closing the returned store.
func openStore(opts *RootOptions) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
	}

	st, err := store.Open(cfg.DatabasePath, cfg.LegacyPath, store.WithQuota(cfg.QuotaBytes))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	return st, cfg, nil
}

// openManager opens the store plus a sync manager over it.
func openManager(opts *RootOptions) (*syncfile.Manager, *store.Store, error) {
	st, cfg, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	return syncfile.New(st, cfg.DownloadsDir), st, nil
}

package syncfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/cardwise/internal/store"
)

// LinkKind discriminates the two linked-file capability tiers.
type LinkKind string

const (
	// KindNative is a direct read/write path link.
	KindNative LinkKind = "native"

	// KindFallback is a filename-only link with no underlying
	// handle; purely informational.
	KindFallback LinkKind = "fallback"
)

// Link identifies the currently linked backup file. At most one link
// is active at a time; it is persisted in the store so it survives
// restarts.
type Link struct {
	ID   string   `json:"id"`
	Kind LinkKind `json:"kind"`

	// Path is set for native links only.
	Path string `json:"path,omitempty"`

	// Name is the file's display name, and for fallback links the
	// suggested filename for manual exports.
	Name string `json:"name"`
}

// IsNative reports whether the link has a real read/write handle.
func (l Link) IsNative() bool { return l.Kind == KindNative }

// Manager owns the linked-file lifecycle and the backup bookkeeping.
type Manager struct {
	st        *store.Store
	downloads string
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock for deterministic bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// New creates a Manager over the store. Fallback syncs and manual
// exports land in downloadsDir.
func New(st *store.Store, downloadsDir string, opts ...Option) *Manager {
	m := &Manager{
		st:        st,
		downloads: downloadsDir,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Link returns the active link, if any.
func (m *Manager) Link(ctx context.Context) (Link, bool) {
	raw, ok := m.st.Get(ctx, store.KeyLinkedFile)
	if !ok {
		return Link{}, false
	}
	var l Link
	if err := json.Unmarshal(raw, &l); err != nil {
		m.log.Warn("stored link record is corrupt", "error", err)
		return Link{}, false
	}
	return l, true
}

// LinkNativeFile links path with direct read/write access, creating
// the file if it does not exist. The write probe runs up front so a
// permission problem surfaces at link time, not on the first sync.
func (m *Manager) LinkNativeFile(ctx context.Context, path string) (Link, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Link{}, fmt.Errorf("link backup file: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return Link{}, fmt.Errorf("link backup file: %w", ErrPermissionDenied)
		}
		return Link{}, fmt.Errorf("link backup file: %w", err)
	}
	f.Close()

	l := Link{
		ID:   uuid.NewString(),
		Kind: KindNative,
		Path: abs,
		Name: filepath.Base(abs),
	}
	if err := m.saveLink(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// LinkFallbackFile records a filename-only link for platforms without
// handle access and performs the one immediate import of the picked
// file's contents that linking implies. contents may be nil to link
// without importing.
func (m *Manager) LinkFallbackFile(ctx context.Context, name string, contents []byte) (Link, error) {
	if contents != nil {
		if err := m.st.Import(ctx, contents); err != nil {
			return Link{}, fmt.Errorf("link backup file: %w", err)
		}
	}

	l := Link{
		ID:   uuid.NewString(),
		Kind: KindFallback,
		Name: name,
	}
	if err := m.saveLink(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// Unlink clears the link and all backup bookkeeping, returning the
// manager to the unlinked state.
func (m *Manager) Unlink(ctx context.Context) bool {
	ok := true
	for _, key := range []string{
		store.KeyLinkedFile,
		store.KeyBackupInfo,
		store.KeyLastWalletSyncTime,
		store.KeyLastPullTime,
	} {
		if !m.st.Delete(ctx, key) {
			ok = false
		}
	}
	return ok
}

func (m *Manager) saveLink(ctx context.Context, l Link) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	if !m.st.Set(ctx, store.KeyLinkedFile, raw) {
		return fmt.Errorf("save link: %w", store.ErrDegradedWrite)
	}
	return nil
}

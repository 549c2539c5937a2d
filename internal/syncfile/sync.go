package syncfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/roach88/cardwise/internal/model"
	"github.com/roach88/cardwise/internal/store"
)

// externalChangeToleranceMS absorbs write latency between our own
// sync finishing and the filesystem recording its timestamp, so a
// just-synced file is not reported as externally modified.
const externalChangeToleranceMS = 1000

// SyncResult reports the outcome of a sync attempt. Failures are
// results, never panics: a denied permission leaves the link intact
// for retry.
type SyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Manual is set when the sync degraded to a downloads-dir drop
	// that the user must move over the real file by hand.
	Manual bool `json:"isManual,omitempty"`
}

// PullResult reports the outcome of a pull attempt.
type PullResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Sync writes the current export document to the linked file.
//
// Native links get a silent write after a permission probe; a denial
// returns a PermissionDenied result without any state change.
// Fallback links degrade to writing the document into the downloads
// directory under the original filename for manual overwrite.
func (m *Manager) Sync(ctx context.Context) SyncResult {
	link, ok := m.Link(ctx)
	if !ok {
		return SyncResult{Error: ErrNoLinkedFile.Error()}
	}

	data, err := m.st.Export(ctx)
	if err != nil {
		return SyncResult{Error: err.Error()}
	}

	if !link.IsNative() {
		if err := os.MkdirAll(m.downloads, 0o755); err != nil {
			return SyncResult{Error: err.Error()}
		}
		path := filepath.Join(m.downloads, link.Name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return SyncResult{Error: err.Error()}
		}
		m.recordBackup(ctx, path)
		return SyncResult{Success: true, Manual: true}
	}

	if err := probeWrite(link.Path); err != nil {
		m.log.Warn("sync permission denied, link left intact", "path", link.Path)
		return SyncResult{Error: ErrPermissionDenied.Error()}
	}
	if err := os.WriteFile(link.Path, data, 0o644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return SyncResult{Error: ErrPermissionDenied.Error()}
		}
		return SyncResult{Error: err.Error()}
	}

	m.recordBackup(ctx, link.Path)
	m.setTimestamp(ctx, store.KeyLastWalletSyncTime)
	return SyncResult{Success: true}
}

// Pull reads the linked file and overwrites the matching store keys
// with its contents. Native links only; a fallback link has no handle
// to re-read. A missing or unreadable file is a reported failure with
// the link left in place - stale-handle cleanup is the caller's call.
func (m *Manager) Pull(ctx context.Context) PullResult {
	link, ok := m.Link(ctx)
	if !ok {
		return PullResult{Error: ErrNoLinkedFile.Error()}
	}
	if !link.IsNative() {
		return PullResult{Error: ErrPullUnsupported.Error()}
	}

	data, err := os.ReadFile(link.Path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PullResult{Error: ErrPermissionDenied.Error()}
		}
		return PullResult{Error: err.Error()}
	}

	if err := m.st.Import(ctx, data); err != nil {
		return PullResult{Error: err.Error()}
	}

	m.recordBackupKeepTime(ctx, link.Path)
	return PullResult{Success: true, Data: json.RawMessage(data)}
}

// CheckExternalChanges reports whether the linked file was modified
// outside this process since the last recorded sync. Only native
// links can be checked; anything else reports false.
//
// The comparison carries a one-second tolerance so our own write
// latency never reads as an external edit.
func (m *Manager) CheckExternalChanges(ctx context.Context) bool {
	link, ok := m.Link(ctx)
	if !ok || !link.IsNative() {
		return false
	}

	info, ok := m.backupInfo(ctx)
	if !ok {
		return false
	}

	stat, err := os.Stat(link.Path)
	if err != nil {
		return false
	}
	return stat.ModTime().UnixMilli() > info.FileLastModified+externalChangeToleranceMS
}

// probeWrite checks writability without touching file contents.
func probeWrite(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

// recordBackup overwrites the backup bookkeeping record after a sync.
func (m *Manager) recordBackup(ctx context.Context, path string) {
	count := m.paymentCount(ctx)
	info := model.BackupInfo{
		LastBackupTime:           m.now().UnixMilli(),
		TransactionCountAtBackup: count,
		FileLastModified:         fileModMillis(path),
	}
	m.saveBackupInfo(ctx, info)
}

// recordBackupKeepTime refreshes the file timestamp and transaction
// count after a pull without claiming a new backup happened.
func (m *Manager) recordBackupKeepTime(ctx context.Context, path string) {
	info, _ := m.backupInfo(ctx)
	info.TransactionCountAtBackup = m.paymentCount(ctx)
	info.FileLastModified = fileModMillis(path)
	m.saveBackupInfo(ctx, info)
}

func (m *Manager) saveBackupInfo(ctx context.Context, info model.BackupInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		m.log.Warn("failed to marshal backup info", "error", err)
		return
	}
	if !m.st.Set(ctx, store.KeyBackupInfo, raw) {
		m.log.Warn("backup info write degraded")
	}
}

func (m *Manager) backupInfo(ctx context.Context) (model.BackupInfo, bool) {
	raw, ok := m.st.Get(ctx, store.KeyBackupInfo)
	if !ok {
		return model.BackupInfo{}, false
	}
	var info model.BackupInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return model.BackupInfo{}, false
	}
	return info, true
}

func (m *Manager) paymentCount(ctx context.Context) int {
	payments, err := m.st.Payments(ctx)
	if err != nil {
		return 0
	}
	return len(payments)
}

func (m *Manager) setTimestamp(ctx context.Context, key string) {
	raw, _ := json.Marshal(m.now().UnixMilli())
	if !m.st.Set(ctx, key, raw) {
		m.log.Warn("timestamp write degraded", "key", key)
	}
}

func fileModMillis(path string) int64 {
	stat, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return stat.ModTime().UnixMilli()
}

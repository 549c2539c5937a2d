package syncfile

import (
	"context"
	"encoding/json"

	"github.com/roach88/cardwise/internal/store"
)

// BackupStatus summarizes link state and sync recency for display.
// Timestamps are epoch milliseconds, zero when never recorded.
type BackupStatus struct {
	LastBackupTime     int64 `json:"lastBackupTime"`
	LastWalletSyncTime int64 `json:"lastWalletSyncTime"`
	LastPullTime       int64 `json:"lastPullTime"`

	// PendingTransactions counts payments recorded since the last
	// backup. With no backup ever taken, every payment is pending.
	PendingTransactions int `json:"pendingTransactions"`

	IsLinked bool   `json:"isLinked"`
	IsNative bool   `json:"isNative"`
	FileName string `json:"fileName,omitempty"`
}

// Status reports the current backup bookkeeping.
func (m *Manager) Status(ctx context.Context) BackupStatus {
	var s BackupStatus

	if link, ok := m.Link(ctx); ok {
		s.IsLinked = true
		s.IsNative = link.IsNative()
		s.FileName = link.Name
	}

	count := m.paymentCount(ctx)
	if info, ok := m.backupInfo(ctx); ok {
		s.LastBackupTime = info.LastBackupTime
		s.PendingTransactions = count - info.TransactionCountAtBackup
		if s.PendingTransactions < 0 {
			s.PendingTransactions = 0
		}
	} else {
		s.PendingTransactions = count
	}

	s.LastWalletSyncTime = m.timestamp(ctx, store.KeyLastWalletSyncTime)
	s.LastPullTime = m.timestamp(ctx, store.KeyLastPullTime)
	return s
}

func (m *Manager) timestamp(ctx context.Context, key string) int64 {
	raw, ok := m.st.Get(ctx, key)
	if !ok {
		return 0
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return 0
	}
	return ms
}

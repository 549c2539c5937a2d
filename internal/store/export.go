package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/cardwise/internal/model"
)

// ExportVersion is the backup document format version.
const ExportVersion = "2.0.0"

// ExportDocument is the versioned backup format shared by manual
// export/import and linked-file sync. Field order is part of the
// format: exported documents are byte-stable for a given store state
// and export time.
type ExportDocument struct {
	Version             string          `json:"version"`
	ExportDate          string          `json:"exportDate"`
	Cards               []model.Card    `json:"cards"`
	Payments            []model.Payment `json:"payments"`
	UserPresets         []model.Card    `json:"userPresets"`
	OnboardingCompleted *bool           `json:"onboardingCompleted,omitempty"`
	BiometricEnabled    *bool           `json:"biometricEnabled,omitempty"`
}

// importKeys are the top-level document keys Import recognizes.
// Anything else in an imported document is ignored.
var importKeys = []string{
	KeyCards,
	KeyPayments,
	KeyUserPresets,
	KeyOnboardingCompleted,
	KeyBiometricEnabled,
}

// Export serializes the fixed set of named entities plus the format
// version and an export timestamp into a single JSON document.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	presets, err := s.Presets(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	doc := ExportDocument{
		Version:     ExportVersion,
		ExportDate:  s.now().UTC().Format(time.RFC3339),
		Cards:       cards,
		Payments:    payments,
		UserPresets: presets,
	}
	if v, ok := s.Flag(ctx, KeyOnboardingCompleted); ok {
		doc.OnboardingCompleted = &v
	}
	if v, ok := s.Flag(ctx, KeyBiometricEnabled); ok {
		doc.BiometricEnabled = &v
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToFile writes the export document into dir under a
// date-stamped filename and returns the written path.
func (s *Store) ExportToFile(ctx context.Context, dir string) (string, error) {
	data, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("cardwise-backup-%s.json", s.now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// Import parses a backup document and writes each recognized
// top-level key that is present into the primary store verbatim.
// Absent keys leave existing state untouched.
//
// A parse failure aborts before any writes. Key-by-key writes are not
// transactional beyond that: a crash mid-import can leave a subset of
// keys updated.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ParseError{Op: "import", Err: err}
	}

	for _, key := range importKeys {
		raw, present := doc[key]
		if !present {
			continue
		}
		if !s.Set(ctx, key, raw) {
			return fmt.Errorf("import %s: %w", key, ErrDegradedWrite)
		}
	}

	// Sync bookkeeping: an import is the manual-exchange pull path.
	if err := s.setJSON(ctx, KeyLastPullTime, s.now().UnixMilli()); err != nil {
		s.log.Warn("failed to record import time", "error", err)
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/cardwise/internal/model"
)

// Store keys for named entities. The names are part of the backup
// document format and must not change.
const (
	KeyCards               = "cards"
	KeyPayments            = "payments"
	KeyUserPresets         = "userPresets"
	KeyOnboardingCompleted = "onboardingCompleted"
	KeyBiometricEnabled    = "biometricEnabled"
	KeyBackupInfo          = "backupInfo"
	KeyLinkedFile          = "linkedFile"
	KeyLastWalletSyncTime  = "lastWalletSyncTime"
	KeyLastPullTime        = "lastPullTime"
)

// Cards returns the stored card list. An absent key is an empty list.
func (s *Store) Cards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := s.getJSON(ctx, KeyCards, &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []model.Card{}
	}
	return cards, nil
}

// SetCards replaces the whole card list. Cards are mutated only by
// whole-list replacement.
func (s *Store) SetCards(ctx context.Context, cards []model.Card) error {
	return s.setJSON(ctx, KeyCards, cards)
}

// AddCard assigns the card an ID if it has none and appends it to the
// stored list.
func (s *Store) AddCard(ctx context.Context, c model.Card) (model.Card, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return model.Card{}, err
	}
	if c.ID == 0 {
		c.ID = s.now().UnixMilli()
		for cardIDTaken(cards, c.ID) {
			c.ID++
		}
	}
	cards = append(cards, c)
	if err := s.SetCards(ctx, cards); err != nil {
		return model.Card{}, err
	}
	return c, nil
}

// RemoveCard deletes the card with the given ID by filtering. Payments
// referencing it are left alone; their denormalized card name keeps
// the history readable.
func (s *Store) RemoveCard(ctx context.Context, id int64) (bool, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return false, err
	}
	kept := cards[:0]
	removed := false
	for _, c := range cards {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return false, nil
	}
	return true, s.SetCards(ctx, kept)
}

func cardIDTaken(cards []model.Card, id int64) bool {
	for _, c := range cards {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Payments returns the stored payment history, newest first.
func (s *Store) Payments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := s.getJSON(ctx, KeyPayments, &payments); err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}

// SetPayments replaces the whole payment history.
func (s *Store) SetPayments(ctx context.Context, payments []model.Payment) error {
	return s.setJSON(ctx, KeyPayments, payments)
}

// AddPayment assigns the payment an ID if it has none, prepends it so
// default ordering stays newest-first, and persists the list.
func (s *Store) AddPayment(ctx context.Context, p model.Payment) (model.Payment, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return model.Payment{}, err
	}
	if p.ID == 0 {
		p.ID = model.NextPaymentID(payments, s.now())
	}
	if p.Date.IsZero() {
		p.Date = s.now()
	}
	payments = append([]model.Payment{p}, payments...)
	if err := s.SetPayments(ctx, payments); err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// RemovePayment deletes the payment with the given ID by filtering.
// Returns false if no payment matched.
func (s *Store) RemovePayment(ctx context.Context, id int64) (bool, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return false, err
	}
	kept := payments[:0]
	removed := false
	for _, p := range payments {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}
	return true, s.SetPayments(ctx, kept)
}

// Presets returns the stored preset catalog (card-like templates).
func (s *Store) Presets(ctx context.Context) ([]model.Card, error) {
	var presets []model.Card
	if err := s.getJSON(ctx, KeyUserPresets, &presets); err != nil {
		return nil, err
	}
	if presets == nil {
		presets = []model.Card{}
	}
	return presets, nil
}

// SetPresets replaces the stored preset catalog.
func (s *Store) SetPresets(ctx context.Context, presets []model.Card) error {
	return s.setJSON(ctx, KeyUserPresets, presets)
}

// Flag returns a stored boolean flag (onboardingCompleted,
// biometricEnabled). ok=false means the flag was never set.
func (s *Store) Flag(ctx context.Context, key string) (value, ok bool) {
	raw, found := s.Get(ctx, key)
	if !found {
		return false, false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}
	return v, true
}

// SetFlag stores a boolean flag.
func (s *Store) SetFlag(ctx context.Context, key string, value bool) error {
	return s.setJSON(ctx, key, value)
}

// getJSON reads and unmarshals a key. Absent keys leave out untouched.
func (s *Store) getJSON(ctx context.Context, key string, out any) error {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// setJSON marshals and stores a value, surfacing a degraded write as
// ErrDegradedWrite.
func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if !s.Set(ctx, key, raw) {
		return fmt.Errorf("set %s: %w", key, ErrDegradedWrite)
	}
	return nil
}

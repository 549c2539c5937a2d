package model

import "time"

// Payment is one recorded transaction. Payments reference their card
// by ID but also carry a denormalized card name, so history survives
// card deletion.
type Payment struct {
	ID       int64         `json:"id"`
	Amount   float64       `json:"amount"`
	Category string        `json:"category"`
	CardID   int64         `json:"cardId"`
	CardName string        `json:"cardName"`
	Method   PaymentMethod `json:"method"`
	Merchant string        `json:"merchant,omitempty"`
	Date     time.Time     `json:"date"`
}

// NextPaymentID returns an ID for a new payment: the current time in
// epoch milliseconds, bumped past any colliding existing ID so IDs
// stay unique even when payments are created within the same
// millisecond.
func NextPaymentID(existing []Payment, now time.Time) int64 {
	id := now.UnixMilli()
	for taken(existing, id) {
		id++
	}
	return id
}

func taken(payments []Payment, id int64) bool {
	for _, p := range payments {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Purchase is a candidate transaction the recommendation engine
// evaluates against every card's reward tiers.
type Purchase struct {
	Category string        `json:"category"`
	Amount   float64       `json:"amount"`
	Method   PaymentMethod `json:"paymentMethod"`
	Merchant string        `json:"merchant,omitempty"`
	Portal   string        `json:"portal,omitempty"`
}

// BackupInfo is the single bookkeeping record overwritten on each
// sync with a linked backup file. Timestamps are epoch milliseconds.
type BackupInfo struct {
	LastBackupTime           int64 `json:"lastBackupTime"`
	TransactionCountAtBackup int   `json:"transactionCountAtBackup"`
	FileLastModified         int64 `json:"fileLastModified"`
}

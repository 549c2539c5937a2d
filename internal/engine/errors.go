package engine

import (
	"errors"
	"fmt"
)

// RecommendError represents a precondition failure of the
// recommendation engine. A purchase that simply matches no tier is
// not an error; the engine returns an empty result for that, so
// callers can distinguish "no cards at all" from "no eligible match".
type RecommendError struct {
	// Code identifies the error category.
	Code RecommendErrorCode

	// Message is a human-readable description.
	Message string
}

// RecommendErrorCode categorizes recommendation errors.
type RecommendErrorCode string

const (
	// ErrCodeNoCards indicates the user has no cards to evaluate.
	ErrCodeNoCards RecommendErrorCode = "NO_CARDS"

	// ErrCodeInvalidPurchase indicates the candidate purchase is
	// malformed (non-positive amount).
	ErrCodeInvalidPurchase RecommendErrorCode = "INVALID_PURCHASE"
)

// Error implements the error interface.
func (e *RecommendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoCardsError returns true if the error reports an empty card list.
// Uses errors.As to handle wrapped errors.
func IsNoCardsError(err error) bool {
	var re *RecommendError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoCards
	}
	return false
}

// NewNoCardsError creates a RecommendError for an empty card list.
func NewNoCardsError() *RecommendError {
	return &RecommendError{
		Code:    ErrCodeNoCards,
		Message: "no cards to evaluate; add a card first",
	}
}

// NewInvalidPurchaseError creates a RecommendError for a bad purchase.
func NewInvalidPurchaseError(msg string) *RecommendError {
	return &RecommendError{
		Code:    ErrCodeInvalidPurchase,
		Message: msg,
	}
}

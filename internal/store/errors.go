package store

import (
	"errors"
	"fmt"
)

// ErrDegradedWrite reports that a write could not reach the primary
// backend and was spilled to the legacy store instead. The data is
// saved best-effort; callers that care about durability must check.
var ErrDegradedWrite = errors.New("write degraded to legacy store")

// ParseError reports malformed JSON encountered during import or
// legacy migration. Import aborts before any writes on a ParseError;
// a migration ParseError skips that key and leaves the legacy value
// in place.
type ParseError struct {
	Op  string // what was being parsed ("import", "legacy store", ...)
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid JSON: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if the error is a ParseError.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

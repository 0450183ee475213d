/*
errors.go - Centralized error types for the engine

PURPOSE:
  All recoverable conditions the engine reports to callers, in one place.
  Every error here is a local client-level condition; none should crash
  the process. The single fatal class is a snapshot write failure, which
  is surfaced wrapped in ErrStateNotCommitted after the in-memory state
  has been rolled back.

USAGE:
  if errors.Is(err, engine.ErrInsufficientBalance) { ... }

  var ib *engine.InsufficientBalanceError
  if errors.As(err, &ib) { ... ib.Cost, ib.Available ... }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned for unknown task, goal, shop item, or gift ids.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when completing a goal a second time.
	ErrAlreadyCompleted = errors.New("already completed")

	// ErrAlreadySpun is returned when the roulette was already spun today.
	ErrAlreadySpun = errors.New("roulette already spun today")

	// ErrInsufficientBalance is returned when a purchase exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidInput is returned for non-positive minute deltas, malformed
	// dates, and out-of-range months.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStateNotCommitted wraps a snapshot write failure. The in-memory
	// state has been restored; the operation did not happen.
	ErrStateNotCommitted = errors.New("state not committed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports a purchase shortfall.
type InsufficientBalanceError struct {
	ItemID    string
	Cost      int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: cost %d, available %d",
		e.ItemID, e.Cost, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InvalidInputError reports what was malformed.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is a recoverable caller mistake
// rather than an engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadySpun) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

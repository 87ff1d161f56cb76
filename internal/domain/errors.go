package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

// Event / participant errors
var (
	// ErrEventNotFound is returned when no event matches the given criteria.
	ErrEventNotFound = errors.New("event not found")

	// ErrParticipantNotFound is returned when no participant matches the given
	// criteria.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrCockNotFound is returned when no cock profile matches the given criteria.
	ErrCockNotFound = errors.New("cock profile not found")

	// ErrCockUnavailable is returned when scheduling is attempted with a cock
	// that is already committed to another fight or has already fought.
	ErrCockUnavailable = errors.New("cock is not available for scheduling")
)

// Fight errors
var (
	// ErrFightNotFound is returned when no fight schedule matches the given
	// criteria.
	ErrFightNotFound = errors.New("fight not found")

	// ErrFightNotSettleable is returned when a settlement is proposed for a
	// fight that is already completed or cancelled.
	ErrFightNotSettleable = errors.New("fight is not open for settlement")
)

// Settlement errors
var (
	// ErrSettlementNotFound is returned when no settlement matches the given
	// criteria.
	ErrSettlementNotFound = errors.New("settlement not found")

	// ErrSettlementExists is returned when a second settlement is proposed for
	// a fight that already has one.  Settle never silently overwrites.
	ErrSettlementExists = errors.New("fight already has a settlement")

	// ErrSettlementVerified is returned when a revert or mutation is attempted
	// on a verified settlement.  Verification is a one-way lock.
	ErrSettlementVerified = errors.New("settlement is verified and immutable")

	// ErrSettlementNotRevertible is returned when a revert is attempted on a
	// cancelled-outcome settlement.  Cancellation already released the cocks,
	// which may since have been booked into other fights; there is no prior
	// state to restore.
	ErrSettlementNotRevertible = errors.New("cancelled settlement cannot be reverted")
)

// ──────────────────────────────────────────────────────────────────────────────
// ValidationErrors — collect-all structural validation
// ──────────────────────────────────────────────────────────────────────────────

// FieldError is a single structural validation failure on a proposed
// settlement.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of structural failures for one proposal.
// Validation is collect-all, not fail-fast, so callers can show every problem
// at once.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a failure.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// HasErrors returns true when at least one failure was collected.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// AsValidation unwraps err into ValidationErrors if it is one.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// notFoundErrors collects all "entity not found" sentinel errors so that
// IsNotFound can stay in sync automatically.
var notFoundErrors = []error{
	ErrEventNotFound,
	ErrParticipantNotFound,
	ErrCockNotFound,
	ErrFightNotFound,
	ErrSettlementNotFound,
}

// IsNotFound returns true when err (or any error in its chain) is one of the
// domain "not found" errors.  Use this instead of comparing error values
// directly when translating domain errors to HTTP 404 responses.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// conflictErrors collects the state-conflict sentinel errors so that
// IsConflict can stay in sync automatically.
var conflictErrors = []error{
	ErrSettlementExists,
	ErrSettlementVerified,
	ErrSettlementNotRevertible,
	ErrFightNotSettleable,
	ErrCockUnavailable,
}

// IsConflict returns true for errors that represent a state conflict (double
// settlement, settling a closed fight, mutating a verified record).
func IsConflict(err error) bool {
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package domain

import (
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		ErrEventNotFound, ErrParticipantNotFound, ErrCockNotFound,
		ErrFightNotFound, ErrSettlementNotFound,
	} {
		if !IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false, want true", err)
		}
		// Wrapped errors must still match.
		if !IsNotFound(fmt.Errorf("settlement_repo.GetByID: %w", err)) {
			t.Errorf("IsNotFound should see through wrapping of %v", err)
		}
	}
	if IsNotFound(ErrSettlementExists) {
		t.Error("a conflict error is not a not-found error")
	}
}

func TestIsConflict(t *testing.T) {
	for _, err := range []error{
		ErrSettlementExists, ErrSettlementVerified, ErrSettlementNotRevertible,
		ErrFightNotSettleable, ErrCockUnavailable,
	} {
		if !IsConflict(err) {
			t.Errorf("IsConflict(%v) = false, want true", err)
		}
	}
	if IsConflict(ErrFightNotFound) {
		t.Error("a not-found error is not a conflict")
	}
}

func TestValidationErrors_JoinsAllFailures(t *testing.T) {
	var errs ValidationErrors
	errs.Add("outcome", "must be one of win, draw, cancelled")
	errs.Add("wagers", "exactly two participant wagers are required")

	msg := errs.Error()
	for _, want := range []string{"outcome", "wagers"} {
		if !containsField(errs, want) {
			t.Errorf("errors missing field %q", want)
		}
	}
	if len(msg) == 0 || msg == "validation failed" {
		t.Errorf("Error() should list every failure, got %q", msg)
	}

	wrapped := fmt.Errorf("settle: %w", error(errs))
	if got, ok := AsValidation(wrapped); !ok || len(got) != 2 {
		t.Errorf("AsValidation through wrapping = (%v, %v), want the 2 failures", got, ok)
	}
}

func containsField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

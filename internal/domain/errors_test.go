package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPersistenceError(t *testing.T) {
	t.Parallel()

	cause := errors.New("lock timeout")
	err := fmt.Errorf("transfer: %w", &PersistenceError{Op: "lock sender", Cause: cause})

	if !errors.Is(err, ErrPersistence) {
		t.Error("expected errors.Is to match ErrPersistence")
	}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}

	if IsValidationError(err) {
		t.Error("persistence errors are not validation errors")
	}
}

func TestRejectionReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&AccountNotFoundError{Role: RoleSender, AccountID: "X"}, "sender_not_found"},
		{&AccountNotFoundError{Role: RoleReceiver, AccountID: "Y"}, "receiver_not_found"},
		{&InsufficientBalanceError{Available: decimal.Zero, Requested: decimal.NewFromInt(1)}, "insufficient_balance"},
		{&DailyLimitExceededError{Remaining: decimal.Zero}, "daily_limit_exceeded"},
		{ErrInvalidAmount, "invalid_amount"},
		{&PersistenceError{Cause: errors.New("boom")}, "persistence"},
		{errors.New("something else"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := RejectionReason(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAccountNotFoundError(t *testing.T) {
	t.Parallel()

	err := &AccountNotFoundError{Role: RoleReceiver, AccountID: "ACC9999"}
	if err.Error() != "receiver account ACC9999 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if !IsValidationError(err) {
		t.Fatal("expected not-found to be a validation error")
	}
}

func TestParseAccountRole(t *testing.T) {
	t.Parallel()

	if role, err := ParseAccountRole("sender"); err != nil || role != RoleSender {
		t.Fatalf("expected sender, got %q (%v)", role, err)
	}

	if _, err := ParseAccountRole("admin"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

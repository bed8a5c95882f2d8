package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Transfer errors
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDailyLimitExceeded  = errors.New("receiver daily limit exceeded")
	ErrCurrencyMismatch    = errors.New("cannot transfer between different currencies")

	// Transaction log errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidStatus       = errors.New("status must be SUCCESS or FAILED")

	// Infrastructure errors
	ErrPersistence = errors.New("persistence error")
)

// AccountRole tells which side of a transfer an account plays.
type AccountRole string

const (
	RoleSender   AccountRole = "sender"
	RoleReceiver AccountRole = "receiver"
)

// ParseAccountRole parses "sender" or "receiver".
func ParseAccountRole(s string) (AccountRole, error) {
	switch AccountRole(s) {
	case RoleSender, RoleReceiver:
		return AccountRole(s), nil
	default:
		return "", fmt.Errorf("unknown account role %q", s)
	}
}

// AccountNotFoundError reports which account of a transfer is missing.
type AccountNotFoundError struct {
	Role      AccountRole
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("%s account %s not found", e.Role, e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// InsufficientBalanceError is returned when the sender cannot cover the amount.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, required %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// DailyLimitExceededError is returned when the receiver's rolling cap would be crossed.
type DailyLimitExceededError struct {
	Remaining decimal.Decimal
}

func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf("receiver daily limit exceeded: remaining limit %s", e.Remaining.StringFixed(2))
}

func (e *DailyLimitExceededError) Unwrap() error { return ErrDailyLimitExceeded }

// PersistenceError wraps an infrastructure failure (lock timeout, storage
// unavailable, constraint violation). No partial writes are visible when it
// is returned from a transfer.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("persistence error: %v", e.Cause)
	}

	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Cause)
}

// Is lets errors.Is match both ErrPersistence and the underlying cause.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// IsValidationError reports whether err is an expected transfer rejection
// rather than a system fault.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrDailyLimitExceeded)
}

// RejectionReason returns a short machine-friendly label for a rejection,
// used for metrics labels and log fields.
func RejectionReason(err error) string {
	var notFound *AccountNotFoundError

	switch {
	case errors.As(err, &notFound):
		return string(notFound.Role) + "_not_found"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrDailyLimitExceeded):
		return "daily_limit_exceeded"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}

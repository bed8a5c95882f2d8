package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiverAccount is a transfer destination with a rolling daily inbound cap.
//
// DailyReceived counts what arrived on LastResetDate. It is zeroed lazily the
// first time the account is read on a later calendar day.
type ReceiverAccount struct {
	ID            string
	DisplayName   string
	ContactInfo   string
	Currency      string
	DailyLimit    decimal.Decimal
	DailyReceived decimal.Decimal
	LastResetDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NeedsReset reports whether the counter belongs to a day strictly before today.
func (r *ReceiverAccount) NeedsReset(today time.Time) bool {
	return DateOf(r.LastResetDate).Before(DateOf(today))
}

// ResetDaily zeroes the counter and advances LastResetDate to today if the
// stored date is stale. It returns true when the account changed.
func (r *ReceiverAccount) ResetDaily(today time.Time) bool {
	if !r.NeedsReset(today) {
		return false
	}

	r.DailyReceived = decimal.Zero
	r.LastResetDate = DateOf(today)

	return true
}

// RemainingLimit returns how much more can be received today.
func (r *ReceiverAccount) RemainingLimit() decimal.Decimal {
	remaining := r.DailyLimit.Sub(r.DailyReceived)
	if remaining.IsNegative() {
		return decimal.Zero
	}

	return remaining
}

// CanReceive reports whether amount fits under the daily cap.
func (r *ReceiverAccount) CanReceive(amount decimal.Decimal) bool {
	return r.DailyReceived.Add(amount).LessThanOrEqual(r.DailyLimit)
}

// ValidateCredit checks that amount fits under the daily cap.
func (r *ReceiverAccount) ValidateCredit(amount decimal.Decimal) error {
	if !r.CanReceive(amount) {
		return &DailyLimitExceededError{Remaining: r.RemainingLimit()}
	}

	return nil
}

// ApplyCredit returns the daily counter after receiving amount.
func (r *ReceiverAccount) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return r.DailyReceived.Add(amount)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SenderAccount is an authenticated account that funds transfers.
type SenderAccount struct {
	ID               string
	CredentialSecret string
	Balance          decimal.Decimal
	ContactInfo      string
	Currency         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSufficientBalance reports whether the balance covers amount.
func (s *SenderAccount) HasSufficientBalance(amount decimal.Decimal) bool {
	return s.Balance.GreaterThanOrEqual(amount)
}

// ValidateDebit checks that the account can be debited by amount.
func (s *SenderAccount) ValidateDebit(amount decimal.Decimal) error {
	if !s.HasSufficientBalance(amount) {
		return &InsufficientBalanceError{Available: s.Balance, Requested: amount}
	}

	return nil
}

// ApplyDebit returns the balance after debiting amount.
func (s *SenderAccount) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return s.Balance.Sub(amount)
}

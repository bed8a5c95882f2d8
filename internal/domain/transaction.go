package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the terminal state of a transfer attempt.
type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// ParseTransactionStatus parses a status, case-insensitively.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", ErrInvalidStatus
	}
}

// FailureReasonPrefix marks the reason column of FAILED records, which carries
// the rejection description instead of the caller's reason.
const FailureReasonPrefix = "FAILED: "

// TransactionRecord is an immutable entry of the transaction log.
type TransactionRecord struct {
	ID                  int64
	SenderID            string
	ReceiverID          string
	Amount              decimal.Decimal
	Currency            string
	Reason              string
	Status              TransactionStatus
	SenderBalanceBefore decimal.Decimal
	SenderBalanceAfter  decimal.Decimal
	ReceiverDailyBefore decimal.Decimal
	ReceiverDailyAfter  decimal.Decimal
	CreatedAt           time.Time
}

// IsFailureReason reports whether a stored reason carries a rejection description.
func IsFailureReason(reason string) bool {
	return strings.HasPrefix(reason, FailureReasonPrefix)
}

// NewFailedRecord builds the FAILED log entry for a rejected attempt. All
// before/after figures are zero since no money moved.
func NewFailedRecord(senderID, receiverID string, amount decimal.Decimal, currency, errorDescription string, at time.Time) *TransactionRecord {
	return &TransactionRecord{
		SenderID:            senderID,
		ReceiverID:          receiverID,
		Amount:              amount,
		Currency:            currency,
		Reason:              FailureReasonPrefix + errorDescription,
		Status:              StatusFailed,
		SenderBalanceBefore: decimal.Zero,
		SenderBalanceAfter:  decimal.Zero,
		ReceiverDailyBefore: decimal.Zero,
		ReceiverDailyAfter:  decimal.Zero,
		CreatedAt:           at,
	}
}

// TransferResult is what a committed transfer reports back to the caller.
type TransferResult struct {
	TransactionID       int64
	SenderBalanceBefore decimal.Decimal
	SenderBalanceAfter  decimal.Decimal
	ReceiverDailyBefore decimal.Decimal
	ReceiverDailyAfter  decimal.Decimal
	Status              TransactionStatus
	CreatedAt           time.Time
}

// TransactionFilter selects log entries. Zero values mean "any".
// Since is inclusive and Until is exclusive.
type TransactionFilter struct {
	SenderID   string
	ReceiverID string
	Status     TransactionStatus
	Since      *time.Time
	Until      *time.Time
	Limit      int
}

// DailySummary aggregates SUCCESS records of one calendar date.
type DailySummary struct {
	Date              time.Time       `json:"date"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

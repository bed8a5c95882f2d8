package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// AuditWriteTimeout bounds the separate transaction that stores a FAILED record.
	AuditWriteTimeout = 5 * time.Second

	// DefaultSummaryCacheTTL is how long a closed day's summary stays cached.
	DefaultSummaryCacheTTL = 24 * time.Hour

	// DefaultHistoryLimit applies when a query passes no limit.
	DefaultHistoryLimit = 10
)

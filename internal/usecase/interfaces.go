package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
)

// SenderRepository defines data access for sender accounts.
type SenderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SenderAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.SenderAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Upsert(ctx context.Context, tx Transaction, account *domain.SenderAccount) error
	List(ctx context.Context, limit, offset int) ([]*domain.SenderAccount, error)
}

// ReceiverRepository defines data access for receiver accounts.
type ReceiverRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ReceiverAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ReceiverAccount, error)
	UpdateDaily(ctx context.Context, tx Transaction, id string, dailyReceived decimal.Decimal, lastResetDate, updatedAt time.Time) error
	Upsert(ctx context.Context, tx Transaction, account *domain.ReceiverAccount) error
	List(ctx context.Context, limit, offset int) ([]*domain.ReceiverAccount, error)
}

// TransactionRepository defines data access for the append-only transaction log.
type TransactionRepository interface {
	// Append stores rec and returns its newly allocated id.
	Append(ctx context.Context, tx Transaction, rec *domain.TransactionRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.TransactionRecord, error)
	// Search returns matching records, most recent first.
	Search(ctx context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error)
	// Summarize counts and sums SUCCESS records created in [from, to).
	Summarize(ctx context.Context, from, to time.Time) (count int64, total decimal.Decimal, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Clock returns the current time in the business time zone.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

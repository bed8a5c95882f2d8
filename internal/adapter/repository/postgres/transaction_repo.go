package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/moneytransfer/internal/usecase"
)

// transactionLogLockKey is the advisory lock serializing inserts into the log.
// Holding it until commit makes id order match commit order.
const transactionLogLockKey int64 = 0x6d74786c6f67

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Append inserts rec inside tx and returns the id assigned by the sequence.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, rec *domain.TransactionRecord) (int64, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	if err := queries.LockTransactionLog(ctx, transactionLogLockKey); err != nil {
		return 0, err
	}

	return queries.InsertTransaction(ctx, generated.InsertTransactionParams{
		SenderID:            rec.SenderID,
		ReceiverID:          rec.ReceiverID,
		Amount:              decimalToNumeric(rec.Amount),
		Currency:            rec.Currency,
		Reason:              rec.Reason,
		Status:              string(rec.Status),
		SenderBalanceBefore: decimalToNumeric(rec.SenderBalanceBefore),
		SenderBalanceAfter:  decimalToNumeric(rec.SenderBalanceAfter),
		ReceiverDailyBefore: decimalToNumeric(rec.ReceiverDailyBefore),
		ReceiverDailyAfter:  decimalToNumeric(rec.ReceiverDailyAfter),
		CreatedAt:           timeToPgTimestamptz(rec.CreatedAt),
	})
}

// GetByID retrieves a single record.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.TransactionRecord, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// Search returns matching records, most recent first.
func (r *TransactionRepository) Search(ctx context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error) {
	rows, err := r.queries.SearchTransactions(ctx, generated.SearchTransactionsParams{
		SenderID:   optionalText(filter.SenderID),
		ReceiverID: optionalText(filter.ReceiverID),
		Status:     optionalText(string(filter.Status)),
		Since:      optionalTimestamptz(filter.Since),
		Until:      optionalTimestamptz(filter.Until),
		Limit:      int32(filter.Limit),
	})
	if err != nil {
		return nil, err
	}

	records := make([]*domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToTransaction(row))
	}

	return records, nil
}

// Summarize counts and sums SUCCESS records created in [from, to).
func (r *TransactionRepository) Summarize(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	row, err := r.queries.SummarizeTransactions(ctx, generated.SummarizeTransactionsParams{
		Since: timeToPgTimestamptz(from),
		Until: timeToPgTimestamptz(to),
	})
	if err != nil {
		return 0, decimal.Zero, err
	}

	return row.Count, numericToDecimal(row.Total), nil
}

func rowToTransaction(row generated.Transaction) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:                  row.ID,
		SenderID:            row.SenderID,
		ReceiverID:          row.ReceiverID,
		Amount:              numericToDecimal(row.Amount),
		Currency:            row.Currency,
		Reason:              row.Reason,
		Status:              domain.TransactionStatus(row.Status),
		SenderBalanceBefore: numericToDecimal(row.SenderBalanceBefore),
		SenderBalanceAfter:  numericToDecimal(row.SenderBalanceAfter),
		ReceiverDailyBefore: numericToDecimal(row.ReceiverDailyBefore),
		ReceiverDailyAfter:  numericToDecimal(row.ReceiverDailyAfter),
		CreatedAt:           row.CreatedAt.Time,
	}
}

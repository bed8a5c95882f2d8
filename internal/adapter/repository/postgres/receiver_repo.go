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

// ReceiverRepository implements usecase.ReceiverRepository.
type ReceiverRepository struct {
	queries *generated.Queries
}

// NewReceiverRepository creates a new ReceiverRepository.
func NewReceiverRepository(pool *pgxpool.Pool) *ReceiverRepository {
	return newReceiverRepository(pool)
}

func newReceiverRepository(db generated.DBTX) *ReceiverRepository {
	return &ReceiverRepository{queries: generated.New(db)}
}

// GetByID retrieves a receiver account as stored. The daily counter is not
// rolled over here.
func (r *ReceiverRepository) GetByID(ctx context.Context, id string) (*domain.ReceiverAccount, error) {
	row, err := r.queries.GetReceiverByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToReceiver(row), nil
}

// GetByIDForUpdate retrieves a receiver account with a FOR UPDATE lock.
func (r *ReceiverRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ReceiverAccount, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetReceiverByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToReceiver(row), nil
}

// UpdateDaily overwrites the daily counter and the date it belongs to.
func (r *ReceiverRepository) UpdateDaily(ctx context.Context, tx usecase.Transaction, id string, dailyReceived decimal.Decimal, lastResetDate, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpdateReceiverDaily(ctx, generated.UpdateReceiverDailyParams{
		AccountID:     id,
		DailyReceived: decimalToNumeric(dailyReceived),
		LastResetDate: dateToPgDate(lastResetDate),
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
}

// Upsert inserts a receiver account or replaces all of its mutable fields.
func (r *ReceiverRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.ReceiverAccount) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpsertReceiver(ctx, generated.UpsertReceiverParams{
		AccountID:     account.ID,
		DisplayName:   account.DisplayName,
		ContactInfo:   account.ContactInfo,
		Currency:      account.Currency,
		DailyLimit:    decimalToNumeric(account.DailyLimit),
		DailyReceived: decimalToNumeric(account.DailyReceived),
		LastResetDate: dateToPgDate(account.LastResetDate),
		CreatedAt:     timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
	})
}

// List lists receiver accounts ordered by id.
func (r *ReceiverRepository) List(ctx context.Context, limit, offset int) ([]*domain.ReceiverAccount, error) {
	rows, err := r.queries.ListReceivers(ctx, generated.ListReceiversParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.ReceiverAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToReceiver(row))
	}

	return accounts, nil
}

func rowToReceiver(row generated.ReceiverAccount) *domain.ReceiverAccount {
	return &domain.ReceiverAccount{
		ID:            row.AccountID,
		DisplayName:   row.DisplayName,
		ContactInfo:   row.ContactInfo,
		Currency:      row.Currency,
		DailyLimit:    numericToDecimal(row.DailyLimit),
		DailyReceived: numericToDecimal(row.DailyReceived),
		LastResetDate: pgDateToTime(row.LastResetDate),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

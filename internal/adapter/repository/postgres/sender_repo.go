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

// SenderRepository implements usecase.SenderRepository.
type SenderRepository struct {
	queries *generated.Queries
}

// NewSenderRepository creates a new SenderRepository.
func NewSenderRepository(pool *pgxpool.Pool) *SenderRepository {
	return newSenderRepository(pool)
}

func newSenderRepository(db generated.DBTX) *SenderRepository {
	return &SenderRepository{queries: generated.New(db)}
}

// GetByID retrieves a sender account without locking it.
func (r *SenderRepository) GetByID(ctx context.Context, id string) (*domain.SenderAccount, error) {
	row, err := r.queries.GetSenderByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToSender(row), nil
}

// GetByIDForUpdate retrieves a sender account with a FOR UPDATE lock.
func (r *SenderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.SenderAccount, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetSenderByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToSender(row), nil
}

// UpdateBalance overwrites the balance of a sender account.
func (r *SenderRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpdateSenderBalance(ctx, generated.UpdateSenderBalanceParams{
		AccountID: id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// Upsert inserts a sender account or replaces all of its mutable fields.
func (r *SenderRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.SenderAccount) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpsertSender(ctx, generated.UpsertSenderParams{
		AccountID:        account.ID,
		CredentialSecret: account.CredentialSecret,
		Balance:          decimalToNumeric(account.Balance),
		ContactInfo:      account.ContactInfo,
		Currency:         account.Currency,
		CreatedAt:        timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(account.UpdatedAt),
	})
}

// List lists sender accounts ordered by id.
func (r *SenderRepository) List(ctx context.Context, limit, offset int) ([]*domain.SenderAccount, error) {
	rows, err := r.queries.ListSenders(ctx, generated.ListSendersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.SenderAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToSender(row))
	}

	return accounts, nil
}

func rowToSender(row generated.SenderAccount) *domain.SenderAccount {
	return &domain.SenderAccount{
		ID:               row.AccountID,
		CredentialSecret: row.CredentialSecret,
		Balance:          numericToDecimal(row.Balance),
		ContactInfo:      row.ContactInfo,
		Currency:         row.Currency,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}

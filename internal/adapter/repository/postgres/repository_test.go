package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneytransfer/internal/domain"
)

var (
	senderColumns      = []string{"account_id", "credential_secret", "balance", "contact_info", "currency", "created_at", "updated_at"}
	receiverColumns    = []string{"account_id", "display_name", "contact_info", "currency", "daily_limit", "daily_received", "last_reset_date", "created_at", "updated_at"}
	transactionColumns = []string{"id", "sender_id", "receiver_id", "amount", "currency", "reason", "status", "sender_balance_before", "sender_balance_after", "receiver_daily_before", "receiver_daily_after", "created_at"}

	fixedTime = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
)

func TestSenderRepositoryGetByIDForUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectQuery(`FROM sender_accounts WHERE account_id = \$1 FOR UPDATE`).
		WithArgs("ACC1001").
		WillReturnRows(pgxmock.NewRows(senderColumns).
			AddRow("ACC1001", "hash", "5000.00", "alice@example.com", "INR", fixedTime, fixedTime))

	repo := newSenderRepository(mockPool)
	sender, err := repo.GetByIDForUpdate(context.Background(), tx, "ACC1001")
	require.NoError(t, err)

	assert.Equal(t, "ACC1001", sender.ID)
	assert.True(t, decimal.RequireFromString("5000").Equal(sender.Balance))
	assert.Equal(t, "INR", sender.Currency)
	assertExpectations(t, mockPool)
}

func TestSenderRepositoryNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(`FROM sender_accounts WHERE account_id = \$1`).
		WithArgs("MISSING").
		WillReturnError(pgx.ErrNoRows)

	_, err := newSenderRepository(mockPool).GetByID(context.Background(), "MISSING")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSenderRepositoryUpdateBalance(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec(`UPDATE sender_accounts SET balance`).
		WithArgs("ACC1001", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := newSenderRepository(mockPool).UpdateBalance(context.Background(), tx, "ACC1001", decimal.RequireFromString("4900.00"), fixedTime)
	require.NoError(t, err)
	assertExpectations(t, mockPool)
}

func TestRepositoriesRejectForeignTransaction(t *testing.T) {
	mockPool := newMockPool(t)

	_, err := newSenderRepository(mockPool).GetByIDForUpdate(context.Background(), foreignTx{}, "ACC1001")
	assert.ErrorIs(t, err, errForeignTx)

	_, err = newTransactionRepository(mockPool).Append(context.Background(), foreignTx{}, &domain.TransactionRecord{})
	assert.ErrorIs(t, err, errForeignTx)
}

func TestReceiverRepositoryGetByIDForUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	resetDate := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`FROM receiver_accounts WHERE account_id = \$1 FOR UPDATE`).
		WithArgs("ACC2001").
		WillReturnRows(pgxmock.NewRows(receiverColumns).
			AddRow("ACC2001", "Bob", "bob@example.com", "INR", "10000.00", "2500.00", resetDate, fixedTime, fixedTime))

	receiver, err := newReceiverRepository(mockPool).GetByIDForUpdate(context.Background(), tx, "ACC2001")
	require.NoError(t, err)

	assert.Equal(t, "Bob", receiver.DisplayName)
	assert.True(t, decimal.RequireFromString("10000").Equal(receiver.DailyLimit))
	assert.True(t, decimal.RequireFromString("2500").Equal(receiver.DailyReceived))
	assert.Equal(t, resetDate, receiver.LastResetDate)
	assertExpectations(t, mockPool)
}

func TestReceiverRepositoryUpdateDaily(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec(`UPDATE receiver_accounts SET daily_received`).
		WithArgs("ACC2001", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := newReceiverRepository(mockPool).UpdateDaily(context.Background(), tx, "ACC2001", decimal.RequireFromString("100"), fixedTime, fixedTime)
	require.NoError(t, err)
	assertExpectations(t, mockPool)
}

func TestReceiverRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	resetDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`FROM receiver_accounts ORDER BY account_id`).
		WithArgs(int32(2), int32(0)).
		WillReturnRows(pgxmock.NewRows(receiverColumns).
			AddRow("ACC2001", "Bob", "", "INR", "10000.00", "0.00", resetDate, fixedTime, fixedTime).
			AddRow("ACC2002", "Carol", "", "INR", "20000.00", "0.00", resetDate, fixedTime, fixedTime))

	receivers, err := newReceiverRepository(mockPool).List(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, receivers, 2)
	assert.Equal(t, "ACC2002", receivers[1].ID)
}

func TestTransactionRepositoryAppendTakesLogLock(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(transactionLogLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectQuery(`INSERT INTO transactions`).
		WithArgs("ACC1001", "ACC2001", pgxmock.AnyArg(), "INR", "rent", "SUCCESS",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := newTransactionRepository(mockPool).Append(context.Background(), tx, &domain.TransactionRecord{
		SenderID:   "ACC1001",
		ReceiverID: "ACC2001",
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "INR",
		Reason:     "rent",
		Status:     domain.StatusSuccess,
		CreatedAt:  fixedTime,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryAppendLockFailure(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	lockErr := errors.New("canceling statement due to lock timeout")

	mockPool.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(transactionLogLockKey).
		WillReturnError(lockErr)

	_, err := newTransactionRepository(mockPool).Append(context.Background(), tx, &domain.TransactionRecord{})
	assert.ErrorIs(t, err, lockErr)
	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(`FROM transactions WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(int64(7), "ACC1001", "ACC2001", "100.00", "INR", "FAILED: insufficient balance", "FAILED",
				"0.00", "0.00", "0.00", "0.00", fixedTime))

	rec, err := newTransactionRepository(mockPool).GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.True(t, domain.IsFailureReason(rec.Reason))
	assert.True(t, rec.SenderBalanceAfter.IsZero())
}

func TestTransactionRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(`FROM transactions WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := newTransactionRepository(mockPool).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepositorySearch(t *testing.T) {
	mockPool := newMockPool(t)
	since := fixedTime.Add(-time.Hour)

	mockPool.ExpectQuery(`FROM transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int32(10)).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(int64(2), "ACC1001", "ACC2001", "50.00", "INR", "", "SUCCESS", "950.00", "900.00", "50.00", "100.00", fixedTime).
			AddRow(int64(1), "ACC1001", "ACC2001", "50.00", "INR", "", "SUCCESS", "1000.00", "950.00", "0.00", "50.00", since))

	records, err := newTransactionRepository(mockPool).Search(context.Background(), domain.TransactionFilter{
		SenderID: "ACC1001",
		Since:    &since,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.True(t, decimal.RequireFromString("900").Equal(records[0].SenderBalanceAfter))
}

func TestTransactionRepositorySummarize(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count", "total"}).AddRow(int64(3), "250.75"))

	count, total, err := newTransactionRepository(mockPool).Summarize(context.Background(), fixedTime, fixedTime.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.True(t, decimal.RequireFromString("250.75").Equal(total))
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/usecase"
	"github.com/iho/moneytransfer/internal/usecase/mocks"
)

func TestAccountUseCase_GetReceiver_LazyReset(t *testing.T) {
	f := newFixture(t)
	f.putReceiver("R1", "100000", "9000", testNow.AddDate(0, 0, -2))
	ctx := context.Background()

	first, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)
	assert.True(t, first.DailyReceived.IsZero())
	assert.True(t, first.LastResetDate.Equal(domain.DateOf(testNow)))

	stored, _ := f.store.Receiver("R1")
	assert.True(t, stored.DailyReceived.IsZero(), "reset must be durable")
	assert.True(t, stored.LastResetDate.Equal(domain.DateOf(testNow)))

	second, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)
	assert.True(t, second.DailyReceived.Equal(first.DailyReceived))

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DailyResets), "second read must not reset again")
}

func TestAccountUseCase_GetReceiver_IdempotentSameDay(t *testing.T) {
	f := newFixture(t)
	f.putReceiver("R1", "100000", "9000", testNow)
	ctx := context.Background()

	first, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)

	second, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)

	assert.True(t, first.DailyReceived.Equal(dec("9000")))
	assert.True(t, second.DailyReceived.Equal(first.DailyReceived))
	assert.Zero(t, testutil.ToFloat64(f.metrics.DailyResets))
}

func TestAccountUseCase_GetReceiver_ResetsAfterMidnight(t *testing.T) {
	f := newFixture(t)
	f.putReceiver("R1", "100000", "9000", testNow)
	ctx := context.Background()

	_, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)

	f.clock.Advance(12 * time.Hour)

	next, err := f.accounts.GetReceiver(ctx, "R1")
	require.NoError(t, err)
	assert.True(t, next.DailyReceived.IsZero())
	assert.True(t, next.LastResetDate.Equal(domain.DateOf(testNow.AddDate(0, 0, 1))))
}

func TestAccountUseCase_GetReceiver_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.GetReceiver(context.Background(), "missing")

	var notFound *domain.AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.RoleReceiver, notFound.Role)
}

func TestAccountUseCase_GetSender(t *testing.T) {
	f := newFixture(t)
	f.putSender("S1", "10.50")

	sender, err := f.accounts.GetSender(context.Background(), "S1")
	require.NoError(t, err)
	assert.True(t, sender.Balance.Equal(dec("10.50")))

	balance, err := f.accounts.GetSenderBalance(context.Background(), "S1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10.50")))

	_, err = f.accounts.GetSender(context.Background(), "S2")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_VerifyCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.accounts.SeedAccounts(ctx, usecase.SampleAccounts()))

	tests := []struct {
		name   string
		id     string
		secret string
		want   bool
	}{
		{"correct credential", "ACC1001", "pass123", true},
		{"second sender", "ACC1002", "secure456", true},
		{"wrong credential", "ACC1001", "pass124", false},
		{"unknown id is false, not an error", "ACC9999", "pass123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.accounts.VerifyCredential(ctx, tt.id, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	stored, _ := f.store.Sender("ACC1001")
	assert.NotEqual(t, "pass123", stored.CredentialSecret, "credentials must be stored hashed")
}

func TestAccountUseCase_VerifyCredential_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	senders := mocks.NewMockSenderRepository(ctrl)
	senders.EXPECT().GetByID(gomock.Any(), "S1").Return(nil, errors.New("connection refused"))

	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(ctrl), senders, mocks.NewMockReceiverRepository(ctrl),
		mocks.NewFixedClock(testNow), zerolog.Nop(), nil,
	)

	ok, err := uc.VerifyCredential(context.Background(), "S1", "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestAccountUseCase_CheckSufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.putSender("S1", "100")

	ok, err := f.accounts.CheckSufficientBalance(context.Background(), "S1", dec("100"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.accounts.CheckSufficientBalance(context.Background(), "S1", dec("100.01"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountUseCase_CheckDailyLimit(t *testing.T) {
	f := newFixture(t)
	f.putReceiver("R1", "50000", "10000", testNow)
	f.putReceiver("R2", "9000", "9000", testNow.AddDate(0, 0, -1))

	ok, remaining, err := f.accounts.CheckDailyLimit(context.Background(), "R1", dec("40000"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, remaining.Equal(dec("40000")))

	ok, _, err = f.accounts.CheckDailyLimit(context.Background(), "R1", dec("40000.01"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, remaining, err = f.accounts.CheckDailyLimit(context.Background(), "R2", dec("9000"))
	require.NoError(t, err)
	assert.True(t, ok, "stale counter must be reset before the check")
	assert.True(t, remaining.Equal(dec("9000")))
}

func TestAccountUseCase_SetSenderBalance(t *testing.T) {
	f := newFixture(t)
	f.putSender("S1", "100")

	require.NoError(t, f.accounts.SetSenderBalance(context.Background(), "S1", dec("250.75")))

	stored, _ := f.store.Sender("S1")
	assert.True(t, stored.Balance.Equal(dec("250.75")))
	assert.Empty(t, f.store.Records(), "admin overrides are not transfers")

	err := f.accounts.SetSenderBalance(context.Background(), "S1", dec("-1"))
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)

	err = f.accounts.SetSenderBalance(context.Background(), "S9", dec("1"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_ResetReceiverDaily(t *testing.T) {
	f := newFixture(t)
	f.putReceiver("R1", "100", "100", testNow)

	require.NoError(t, f.accounts.ResetReceiverDaily(context.Background(), "R1"))

	stored, _ := f.store.Receiver("R1")
	assert.True(t, stored.DailyReceived.IsZero())
	assert.True(t, stored.LastResetDate.Equal(domain.DateOf(testNow)))

	err := f.accounts.ResetReceiverDaily(context.Background(), "R9")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	f := newFixture(t)
	f.seedSample()

	senders, err := f.accounts.ListSenders(context.Background(), usecase.ListAccountsInput{})
	require.NoError(t, err)
	require.Len(t, senders, 2)
	assert.Equal(t, "ACC1001", senders[0].ID)
	assert.Equal(t, "ACC1002", senders[1].ID)

	receivers, err := f.accounts.ListReceivers(context.Background(), usecase.ListAccountsInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, receivers, 1)
	assert.Equal(t, "ACC2002", receivers[0].ID)
}

func TestAccountUseCase_SeedAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.accounts.SeedAccounts(ctx, usecase.SampleAccounts()))
	require.NoError(t, f.accounts.SeedAccounts(ctx, usecase.SampleAccounts()), "seeding twice must upsert")

	sender, ok := f.store.Sender("ACC1002")
	require.True(t, ok)
	assert.True(t, sender.Balance.Equal(dec("50000.50")))
	assert.Equal(t, "INR", sender.Currency)

	receiver, ok := f.store.Receiver("ACC2001")
	require.True(t, ok)
	assert.Equal(t, "Amit Sharma", receiver.DisplayName)
	assert.True(t, receiver.DailyLimit.Equal(dec("100000")))
	assert.True(t, receiver.DailyReceived.Equal(dec("9000")))

	bad := usecase.SeedAccountsInput{
		Receivers: []usecase.NewReceiver{{ID: "R1", Currency: "INR", DailyLimit: dec("0")}},
	}
	assert.ErrorIs(t, f.accounts.SeedAccounts(ctx, bad), domain.ErrInvalidDailyLimit)
}

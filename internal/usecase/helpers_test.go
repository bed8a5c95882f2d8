package usecase_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
	"github.com/iho/moneytransfer/internal/usecase"
	"github.com/iho/moneytransfer/internal/usecase/mocks"
)

var testNow = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

type fixture struct {
	store    *mocks.FakeStore
	clock    *mocks.FixedClock
	metrics  *metrics.Metrics
	audit    *usecase.AuditLogger
	transfer *usecase.TransferUseCase
	accounts *usecase.AccountUseCase
	queries  *usecase.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewFakeStore()
	clock := mocks.NewFixedClock(testNow)
	m := metrics.New(prometheus.NewRegistry())
	logger := zerolog.Nop()

	audit := usecase.NewAuditLogger(store, store.Transactions(), clock, logger, m)

	return &fixture{
		store:   store,
		clock:   clock,
		metrics: m,
		audit:   audit,
		transfer: usecase.NewTransferUseCase(
			store, store.Senders(), store.Receivers(), audit, nil, clock, &mocks.SequenceIDGenerator{}, logger, m,
		),
		accounts: usecase.NewAccountUseCase(store, store.Senders(), store.Receivers(), clock, logger, m),
		queries:  usecase.NewQueryUseCase(store.Transactions(), nil, clock, time.UTC, 0, logger, m),
	}
}

func (f *fixture) putSender(id, balance string) {
	f.store.PutSender(domain.SenderAccount{
		ID:       id,
		Balance:  decimal.RequireFromString(balance),
		Currency: "INR",
	})
}

func (f *fixture) putReceiver(id, limit, received string, lastReset time.Time) {
	f.store.PutReceiver(domain.ReceiverAccount{
		ID:            id,
		Currency:      "INR",
		DailyLimit:    decimal.RequireFromString(limit),
		DailyReceived: decimal.RequireFromString(received),
		LastResetDate: domain.DateOf(lastReset),
	})
}

func (f *fixture) seedSample() {
	f.putSender("ACC1001", "90000.00")
	f.putSender("ACC1002", "50000.50")
	f.putReceiver("ACC2001", "100000.00", "9000.00", testNow)
	f.putReceiver("ACC2002", "50000.00", "10000.00", testNow)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func transferInput(sender, receiver, amount string) usecase.ExecuteTransferInput {
	return usecase.ExecuteTransferInput{
		SenderID:   sender,
		ReceiverID: receiver,
		Amount:     dec(amount),
		Currency:   "INR",
		Reason:     "test",
	}
}

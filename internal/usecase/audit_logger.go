package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
)

// AuditLogger appends terminal records of transfer attempts to the transaction log.
type AuditLogger struct {
	txManager TransactionManager
	txRepo    TransactionRepository
	clock     Clock
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewAuditLogger creates a new AuditLogger.
func NewAuditLogger(
	txManager TransactionManager,
	txRepo TransactionRepository,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *AuditLogger {
	return &AuditLogger{
		txManager: txManager,
		txRepo:    txRepo,
		clock:     clock,
		logger:    logger.With().Str("component", "audit").Logger(),
		metrics:   metrics,
	}
}

// RecordSuccess appends a SUCCESS record inside the caller's transaction, so it
// commits or rolls back together with the balance and counter updates.
func (a *AuditLogger) RecordSuccess(ctx context.Context, tx Transaction, rec *domain.TransactionRecord) (int64, error) {
	if rec.Status != domain.StatusSuccess {
		return 0, fmt.Errorf("record success: %w", domain.ErrInvalidStatus)
	}

	id, err := a.txRepo.Append(ctx, tx, rec)
	if err != nil {
		return 0, err
	}

	rec.ID = id

	return id, nil
}

// FailureInput describes a rejected transfer attempt.
type FailureInput struct {
	SenderID         string
	ReceiverID       string
	Amount           decimal.Decimal
	Currency         string
	Reason           string
	ErrorDescription string
}

// RecordFailure appends a FAILED record in its own transaction. It never
// returns an error: a write failure is reported through the logger and
// metrics, and 0 is returned in place of the id.
//
// The write is detached from ctx cancellation so that a rejection observed just
// before the caller gave up is still recorded.
func (a *AuditLogger) RecordFailure(ctx context.Context, input FailureInput) int64 {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), AuditWriteTimeout)
	defer cancel()

	rec := domain.NewFailedRecord(
		input.SenderID,
		input.ReceiverID,
		input.Amount,
		input.Currency,
		input.ErrorDescription,
		a.clock.Now(),
	)

	id, err := a.appendInOwnTx(writeCtx, rec)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("sender_id", input.SenderID).
			Str("receiver_id", input.ReceiverID).
			Str("amount", input.Amount.String()).
			Str("currency", input.Currency).
			Str("reason", input.Reason).
			Str("rejection", input.ErrorDescription).
			Msg("failed to record rejected transfer")

		if a.metrics != nil {
			a.metrics.AuditWriteFailures.Inc()
		}

		return 0
	}

	if a.metrics != nil {
		a.metrics.AuditRecords.WithLabelValues(string(domain.StatusFailed)).Inc()
	}

	return id
}

func (a *AuditLogger) appendInOwnTx(ctx context.Context, rec *domain.TransactionRecord) (int64, error) {
	tx, err := a.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := a.txRepo.Append(ctx, tx, rec)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	rec.ID = id

	return id, nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
)

// TransferUseCase executes transfers as a single atomic unit.
type TransferUseCase struct {
	txManager    TransactionManager
	senderRepo   SenderRepository
	receiverRepo ReceiverRepository
	audit        *AuditLogger
	retrier      Retrier
	clock        Clock
	idGen        IDGenerator
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	txTimeout    time.Duration
}

// NewTransferUseCase creates a new TransferUseCase. retrier and metrics may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	senderRepo SenderRepository,
	receiverRepo ReceiverRepository,
	audit *AuditLogger,
	retrier Retrier,
	clock Clock,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		senderRepo:   senderRepo,
		receiverRepo: receiverRepo,
		audit:        audit,
		retrier:      retrier,
		clock:        clock,
		idGen:        idGen,
		logger:       logger.With().Str("component", "transfer").Logger(),
		metrics:      metrics,
		txTimeout:    DefaultTransactionTimeout,
	}
}

// WithTransactionTimeout overrides the bound on one transfer transaction.
func (uc *TransferUseCase) WithTransactionTimeout(d time.Duration) *TransferUseCase {
	if d > 0 {
		uc.txTimeout = d
	}

	return uc
}

// ExecuteTransferInput represents input for a transfer.
type ExecuteTransferInput struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	// Currency is recorded verbatim. Callers confirm both accounts share it.
	Currency string
	Reason   string
}

// ExecuteTransfer moves Amount from the sender to the receiver.
//
// Validation happens in a fixed order: sender exists, sender balance covers
// the amount, receiver exists, receiver daily limit allows the amount. A
// rejection leaves both accounts untouched, is stored as a FAILED record in a
// separate transaction, and is returned as a typed error. Any other failure
// is returned as *domain.PersistenceError with nothing written.
func (uc *TransferUseCase) ExecuteTransfer(ctx context.Context, input ExecuteTransferInput) (*domain.TransferResult, error) {
	start := time.Now()
	log := uc.logger.With().
		Str("attempt_id", uc.idGen.Generate()).
		Str("sender_id", input.SenderID).
		Str("receiver_id", input.ReceiverID).
		Str("amount", input.Amount.String()).
		Str("currency", input.Currency).
		Logger()

	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.observeRejection(err)
		log.Info().Err(err).Msg("transfer input rejected")

		return nil, err
	}

	var result *domain.TransferResult

	operation := func() error {
		var err error
		result, err = uc.execute(ctx, input)

		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		if domain.IsValidationError(err) {
			failedID := uc.audit.RecordFailure(ctx, FailureInput{
				SenderID:         input.SenderID,
				ReceiverID:       input.ReceiverID,
				Amount:           input.Amount,
				Currency:         input.Currency,
				Reason:           input.Reason,
				ErrorDescription: err.Error(),
			})

			uc.observeRejection(err)
			log.Info().Err(err).Int64("failed_record_id", failedID).Msg("transfer rejected")

			return nil, err
		}

		if !errors.Is(err, domain.ErrPersistence) {
			err = &domain.PersistenceError{Op: "transfer", Cause: err}
		}

		uc.observeRejection(err)
		log.Error().Err(err).Msg("transfer aborted")

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersTotal.WithLabelValues(string(domain.StatusSuccess)).Inc()
		uc.metrics.AuditRecords.WithLabelValues(string(domain.StatusSuccess)).Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		uc.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	log.Info().
		Int64("transaction_id", result.TransactionID).
		Str("sender_balance_after", result.SenderBalanceAfter.StringFixed(domain.MoneyScale)).
		Str("receiver_daily_after", result.ReceiverDailyAfter.StringFixed(domain.MoneyScale)).
		Msg("transfer committed")

	return result, nil
}

// execute runs one attempt of the transfer in a single transaction.
func (uc *TransferUseCase) execute(ctx context.Context, input ExecuteTransferInput) (*domain.TransferResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, persistenceError("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 1. Lock sender. Sender is always locked before receiver.
	sender, err := uc.senderRepo.GetByIDForUpdate(txCtx, tx, input.SenderID)
	if err != nil {
		return nil, accountError(domain.RoleSender, input.SenderID, "lock sender", err)
	}

	// 2. Balance check
	if err := sender.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	// 3. Lock receiver and roll its counter over to today
	receiver, err := uc.receiverRepo.GetByIDForUpdate(txCtx, tx, input.ReceiverID)
	if err != nil {
		return nil, accountError(domain.RoleReceiver, input.ReceiverID, "lock receiver", err)
	}

	now := uc.clock.Now()
	wasReset := receiver.ResetDaily(now)

	// 4. Daily limit check
	if err := receiver.ValidateCredit(input.Amount); err != nil {
		return nil, err
	}

	// 5. Compute
	balanceAfter := sender.ApplyDebit(input.Amount)
	dailyAfter := receiver.ApplyCredit(input.Amount)

	// 6. Persist
	if err := uc.senderRepo.UpdateBalance(txCtx, tx, sender.ID, balanceAfter, now); err != nil {
		return nil, persistenceError("update sender balance", err)
	}

	if err := uc.receiverRepo.UpdateDaily(txCtx, tx, receiver.ID, dailyAfter, receiver.LastResetDate, now); err != nil {
		return nil, persistenceError("update receiver counter", err)
	}

	rec := &domain.TransactionRecord{
		SenderID:            sender.ID,
		ReceiverID:          receiver.ID,
		Amount:              input.Amount,
		Currency:            input.Currency,
		Reason:              input.Reason,
		Status:              domain.StatusSuccess,
		SenderBalanceBefore: sender.Balance,
		SenderBalanceAfter:  balanceAfter,
		ReceiverDailyBefore: receiver.DailyReceived,
		ReceiverDailyAfter:  dailyAfter,
		CreatedAt:           now,
	}

	if _, err := uc.audit.RecordSuccess(txCtx, tx, rec); err != nil {
		return nil, persistenceError("append transaction", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, persistenceError("commit", err)
	}

	if wasReset && uc.metrics != nil {
		uc.metrics.DailyResets.Inc()
	}

	// 7. Report
	return &domain.TransferResult{
		TransactionID:       rec.ID,
		SenderBalanceBefore: rec.SenderBalanceBefore,
		SenderBalanceAfter:  rec.SenderBalanceAfter,
		ReceiverDailyBefore: rec.ReceiverDailyBefore,
		ReceiverDailyAfter:  rec.ReceiverDailyAfter,
		Status:              rec.Status,
		CreatedAt:           rec.CreatedAt,
	}, nil
}

func (uc *TransferUseCase) observeRejection(err error) {
	if uc.metrics == nil {
		return
	}

	reason := domain.RejectionReason(err)
	uc.metrics.TransferRejections.WithLabelValues(reason).Inc()

	if reason != "persistence" && reason != "invalid_amount" {
		uc.metrics.TransfersTotal.WithLabelValues(string(domain.StatusFailed)).Inc()
	}
}

// accountError turns a repository error into AccountNotFoundError or PersistenceError.
func accountError(role domain.AccountRole, id, op string, err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &domain.AccountNotFoundError{Role: role, AccountID: id}
	}

	return persistenceError(op, err)
}

func persistenceError(op string, err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}

	return &domain.PersistenceError{Op: op, Cause: err}
}

package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
)

// AccountUseCase handles sender and receiver account access.
type AccountUseCase struct {
	txManager    TransactionManager
	senderRepo   SenderRepository
	receiverRepo ReceiverRepository
	clock        Clock
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	senderRepo SenderRepository,
	receiverRepo ReceiverRepository,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:    txManager,
		senderRepo:   senderRepo,
		receiverRepo: receiverRepo,
		clock:        clock,
		logger:       logger.With().Str("component", "accounts").Logger(),
		metrics:      metrics,
	}
}

// GetSender retrieves a sender account by ID.
func (uc *AccountUseCase) GetSender(ctx context.Context, id string) (*domain.SenderAccount, error) {
	sender, err := uc.senderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, accountError(domain.RoleSender, id, "get sender", err)
	}

	return sender, nil
}

// GetSenderBalance returns the current balance of a sender.
func (uc *AccountUseCase) GetSenderBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	sender, err := uc.GetSender(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return sender.Balance, nil
}

// GetReceiver retrieves a receiver account by ID.
//
// This read may write: when the stored counter belongs to an earlier calendar
// day it is zeroed and LastResetDate is advanced to today, and that change is
// committed before the account is returned.
func (uc *AccountUseCase) GetReceiver(ctx context.Context, id string) (*domain.ReceiverAccount, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, persistenceError("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	receiver, err := uc.receiverRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, accountError(domain.RoleReceiver, id, "lock receiver", err)
	}

	now := uc.clock.Now()
	if !receiver.ResetDaily(now) {
		return receiver, nil
	}

	if err := uc.receiverRepo.UpdateDaily(txCtx, tx, receiver.ID, receiver.DailyReceived, receiver.LastResetDate, now); err != nil {
		return nil, persistenceError("reset receiver counter", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, persistenceError("commit", err)
	}

	receiver.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.DailyResets.Inc()
	}

	uc.logger.Debug().
		Str("receiver_id", receiver.ID).
		Time("last_reset_date", receiver.LastResetDate).
		Msg("daily counter reset")

	return receiver, nil
}

// VerifyCredential reports whether secret matches the stored credential of
// sender id. An unknown id yields false, not an error.
func (uc *AccountUseCase) VerifyCredential(ctx context.Context, id, secret string) (bool, error) {
	sender, err := uc.senderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.observeAuth(false)
			return false, nil
		}

		return false, persistenceError("get sender", err)
	}

	ok := verifyCredential(sender.CredentialSecret, secret) == nil
	uc.observeAuth(ok)

	return ok, nil
}

// CheckSufficientBalance reports whether sender id can cover amount.
func (uc *AccountUseCase) CheckSufficientBalance(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	sender, err := uc.GetSender(ctx, id)
	if err != nil {
		return false, err
	}

	return sender.HasSufficientBalance(amount), nil
}

// CheckDailyLimit reports whether receiver id can take amount today along
// with the remaining limit. It goes through GetReceiver, so the lazy reset applies.
func (uc *AccountUseCase) CheckDailyLimit(ctx context.Context, receiverID string, amount decimal.Decimal) (bool, decimal.Decimal, error) {
	receiver, err := uc.GetReceiver(ctx, receiverID)
	if err != nil {
		return false, decimal.Zero, err
	}

	return receiver.CanReceive(amount), receiver.RemainingLimit(), nil
}

// SetSenderBalance overwrites a sender's balance, bypassing transfer validation.
func (uc *AccountUseCase) SetSenderBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := domain.ValidateBalance(balance); err != nil {
		return err
	}

	err := uc.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		if _, err := uc.senderRepo.GetByIDForUpdate(txCtx, tx, id); err != nil {
			return accountError(domain.RoleSender, id, "lock sender", err)
		}

		if err := uc.senderRepo.UpdateBalance(txCtx, tx, id, balance, uc.clock.Now()); err != nil {
			return persistenceError("update sender balance", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.observeOverride("set_balance")
	uc.logger.Warn().
		Str("sender_id", id).
		Str("balance", balance.StringFixed(domain.MoneyScale)).
		Msg("sender balance overridden")

	return nil
}

// ResetReceiverDaily zeroes a receiver's daily counter and stamps it with today.
func (uc *AccountUseCase) ResetReceiverDaily(ctx context.Context, id string) error {
	err := uc.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		if _, err := uc.receiverRepo.GetByIDForUpdate(txCtx, tx, id); err != nil {
			return accountError(domain.RoleReceiver, id, "lock receiver", err)
		}

		now := uc.clock.Now()
		if err := uc.receiverRepo.UpdateDaily(txCtx, tx, id, decimal.Zero, domain.DateOf(now), now); err != nil {
			return persistenceError("reset receiver counter", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.observeOverride("reset_daily")
	uc.logger.Warn().Str("receiver_id", id).Msg("receiver daily counter reset by operator")

	return nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListSenders lists sender accounts ordered by id.
func (uc *AccountUseCase) ListSenders(ctx context.Context, input ListAccountsInput) ([]*domain.SenderAccount, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.senderRepo.List(ctx, limit, offset)
}

// ListReceivers lists receiver accounts ordered by id. No reset is applied.
func (uc *AccountUseCase) ListReceivers(ctx context.Context, input ListAccountsInput) ([]*domain.ReceiverAccount, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.receiverRepo.List(ctx, limit, offset)
}

// NewSender describes a sender account to seed. Secret is the plain credential.
type NewSender struct {
	ID          string
	Secret      string
	Balance     decimal.Decimal
	ContactInfo string
	Currency    string
}

// NewReceiver describes a receiver account to seed.
type NewReceiver struct {
	ID            string
	DisplayName   string
	ContactInfo   string
	Currency      string
	DailyLimit    decimal.Decimal
	DailyReceived decimal.Decimal
}

// SeedAccountsInput represents the accounts to create or overwrite.
type SeedAccountsInput struct {
	Senders   []NewSender
	Receivers []NewReceiver
}

// SeedAccounts upserts the given accounts in one transaction. Credentials are
// stored as bcrypt hashes.
func (uc *AccountUseCase) SeedAccounts(ctx context.Context, input SeedAccountsInput) error {
	now := uc.clock.Now()

	senders := make([]*domain.SenderAccount, 0, len(input.Senders))
	for _, s := range input.Senders {
		if err := validateSeedSender(s); err != nil {
			return err
		}

		hash, err := hashCredential(s.Secret)
		if err != nil {
			return err
		}

		senders = append(senders, &domain.SenderAccount{
			ID:               s.ID,
			CredentialSecret: hash,
			Balance:          s.Balance,
			ContactInfo:      s.ContactInfo,
			Currency:         domain.NormalizeCurrency(s.Currency),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	receivers := make([]*domain.ReceiverAccount, 0, len(input.Receivers))
	for _, r := range input.Receivers {
		if err := validateSeedReceiver(r); err != nil {
			return err
		}

		receivers = append(receivers, &domain.ReceiverAccount{
			ID:            r.ID,
			DisplayName:   r.DisplayName,
			ContactInfo:   r.ContactInfo,
			Currency:      domain.NormalizeCurrency(r.Currency),
			DailyLimit:    r.DailyLimit,
			DailyReceived: r.DailyReceived,
			LastResetDate: domain.DateOf(now),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err := uc.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		for _, s := range senders {
			if err := uc.senderRepo.Upsert(txCtx, tx, s); err != nil {
				return persistenceError("upsert sender", err)
			}
		}

		for _, r := range receivers {
			if err := uc.receiverRepo.Upsert(txCtx, tx, r); err != nil {
				return persistenceError("upsert receiver", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info().
		Int("senders", len(senders)).
		Int("receivers", len(receivers)).
		Msg("accounts seeded")

	return nil
}

func (uc *AccountUseCase) inTx(ctx context.Context, fn func(txCtx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return persistenceError("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return persistenceError("commit", err)
	}

	return nil
}

func (uc *AccountUseCase) observeAuth(ok bool) {
	if uc.metrics == nil {
		return
	}

	status := "failure"
	if ok {
		status = "success"
	}

	uc.metrics.AuthAttempts.WithLabelValues(status).Inc()
}

func (uc *AccountUseCase) observeOverride(operation string) {
	if uc.metrics != nil {
		uc.metrics.AdminOverrides.WithLabelValues(operation).Inc()
	}
}

func validateSeedSender(s NewSender) error {
	if err := domain.ValidateAccountID(s.ID); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(s.Currency); err != nil {
		return err
	}

	return domain.ValidateBalance(s.Balance)
}

func validateSeedReceiver(r NewReceiver) error {
	if err := domain.ValidateAccountID(r.ID); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(r.Currency); err != nil {
		return err
	}

	if !r.DailyLimit.IsPositive() {
		return domain.ErrInvalidDailyLimit
	}

	return domain.ValidateBalance(r.DailyReceived)
}

// hashCredential hashes a credential using bcrypt
func hashCredential(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyCredential verifies a credential against a hash
func verifyCredential(hashed, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
}

// SampleAccounts is the demonstration data set loaded by the seed command.
func SampleAccounts() SeedAccountsInput {
	return SeedAccountsInput{
		Senders: []NewSender{
			{ID: "ACC1001", Secret: "pass123", Balance: decimal.RequireFromString("90000.00"), ContactInfo: "vijay@example.com", Currency: "INR"},
			{ID: "ACC1002", Secret: "secure456", Balance: decimal.RequireFromString("50000.50"), ContactInfo: "rahul@example.com", Currency: "INR"},
		},
		Receivers: []NewReceiver{
			{ID: "ACC2001", DisplayName: "Amit Sharma", ContactInfo: "amitsharma@gmail.com", Currency: "INR", DailyLimit: decimal.RequireFromString("100000.00"), DailyReceived: decimal.RequireFromString("9000.00")},
			{ID: "ACC2002", DisplayName: "Priya Singh", ContactInfo: "priya.singh@example.com", Currency: "INR", DailyLimit: decimal.RequireFromString("50000.00"), DailyReceived: decimal.RequireFromString("10000.00")},
		},
	}
}

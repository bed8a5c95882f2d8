package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/usecase"
)

// DefaultMaxAuthAttempts is the number of credential attempts before the session ends.
const DefaultMaxAuthAttempts = 3

var (
	// ErrAborted is returned when the session reaches a dead end and no
	// transfer was attempted.
	ErrAborted = errors.New("session aborted")
	// ErrInputClosed is returned when input ends before the session completes.
	ErrInputClosed = errors.New("input closed")
)

// AccountService is the part of the account use case a session needs.
type AccountService interface {
	GetSender(ctx context.Context, id string) (*domain.SenderAccount, error)
	VerifyCredential(ctx context.Context, id, secret string) (bool, error)
	GetReceiver(ctx context.Context, id string) (*domain.ReceiverAccount, error)
	CheckDailyLimit(ctx context.Context, receiverID string, amount decimal.Decimal) (bool, decimal.Decimal, error)
}

// TransferService executes a validated transfer.
type TransferService interface {
	ExecuteTransfer(ctx context.Context, input usecase.ExecuteTransferInput) (*domain.TransferResult, error)
}

// SessionConfig configures a Session.
type SessionConfig struct {
	MaxAuthAttempts int
	Logger          zerolog.Logger
}

// Session walks one user through an interactive transfer.
type Session struct {
	accounts    AccountService
	transfers   TransferService
	in          *bufio.Scanner
	out         io.Writer
	validate    *validator.Validate
	maxAttempts int
	logger      zerolog.Logger
}

type accountPrompt struct {
	ID string `validate:"required,max=64,printascii"`
}

type currencyPrompt struct {
	Code string `validate:"required,iso4217"`
}

type amountPrompt struct {
	Amount string `validate:"required,numeric"`
}

// NewSession creates a new Session reading answers from in and writing prompts to out.
func NewSession(accounts AccountService, transfers TransferService, in io.Reader, out io.Writer, cfg SessionConfig) *Session {
	maxAttempts := cfg.MaxAuthAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAuthAttempts
	}

	return &Session{
		accounts:    accounts,
		transfers:   transfers,
		in:          bufio.NewScanner(in),
		out:         out,
		validate:    validator.New(),
		maxAttempts: maxAttempts,
		logger:      cfg.Logger.With().Str("component", "session").Logger(),
	}
}

// Run performs the interactive flow. It returns the committed transfer, a
// rejection from the transfer engine, ErrAborted on a dead end, or
// ErrInputClosed when input runs out.
func (s *Session) Run(ctx context.Context) (*domain.TransferResult, error) {
	s.println("=== Money Transfer ===")

	s.step(1, "Account Validation")
	sender, err := s.askSender(ctx)
	if err != nil {
		return nil, err
	}

	s.step(2, "Authentication")
	if err := s.authenticate(ctx, sender.ID); err != nil {
		return nil, err
	}

	s.step(3, "Receiver Account Validation")
	receiver, err := s.askReceiver(ctx)
	if err != nil {
		return nil, err
	}

	s.step(4, "Currency Validation")
	currency, err := s.askCurrency(sender, receiver)
	if err != nil {
		return nil, err
	}

	s.step(5, "Amount Validation")
	amount, err := s.askAmount(ctx, sender.ID, currency)
	if err != nil {
		return nil, err
	}

	s.step(6, "Receiver Daily Limit Check")
	if err := s.checkLimit(ctx, receiver.ID, amount); err != nil {
		return nil, err
	}

	s.step(7, "Contact Verification")
	contact, err := s.askContact(ctx, sender.ID)
	if err != nil {
		return nil, err
	}

	s.step(8, "Transaction Details")
	reason, err := s.readLine("Enter Transaction Reason (optional, press Enter to skip): ")
	if err != nil {
		return nil, err
	}

	if reason != "" {
		s.printf("Reason recorded: %s\n", reason)
	}

	result, err := s.transfers.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     amount,
		Currency:   currency,
		Reason:     reason,
	})
	if err != nil {
		s.printf("\nTransaction failed: %v\n", err)
		return nil, err
	}

	s.println("\nTransaction processed successfully!")
	s.printf("Transaction ID: %d\n", result.TransactionID)
	s.printf("Sender's new balance: %s\n", result.SenderBalanceAfter.StringFixed(domain.MoneyScale))
	s.printf("Receiver's total received today: %s\n", result.ReceiverDailyAfter.StringFixed(domain.MoneyScale))

	s.println("\n" + strings.Repeat("=", 50))
	s.println("TRANSACTION COMPLETED SUCCESSFULLY")
	s.println(strings.Repeat("=", 50))
	s.println("Transaction Summary:")
	s.printf("   From Account: %s\n", sender.ID)
	s.printf("   To Account: %s\n", receiver.ID)
	s.printf("   Amount: %s %s\n", amount.StringFixed(domain.MoneyScale), currency)
	if reason != "" {
		s.printf("   Reason: %s\n", reason)
	}
	s.printf("   Contact: %s\n", contact)

	return result, nil
}

func (s *Session) askSender(ctx context.Context) (*domain.SenderAccount, error) {
	for {
		id, err := s.readLine("Enter Account Number: ")
		if err != nil {
			return nil, err
		}

		if err := s.validate.Struct(accountPrompt{ID: id}); err != nil {
			s.println("Invalid account number. Please try again.")
			continue
		}

		sender, err := s.accounts.GetSender(ctx, id)
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.println("Sender account not found. Please try again.")
			continue
		}

		if err != nil {
			return nil, err
		}

		s.println("Account found.")

		return sender, nil
	}
}

func (s *Session) authenticate(ctx context.Context, senderID string) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		secret, err := s.readLine("Enter Authentication Credential: ")
		if err != nil {
			return err
		}

		ok, err := s.accounts.VerifyCredential(ctx, senderID, secret)
		if err != nil {
			return err
		}

		if ok {
			s.println("Authentication successful.")
			return nil
		}

		if remaining := s.maxAttempts - attempt; remaining > 0 {
			s.printf("Invalid authentication credentials. %d attempt(s) remaining.\n", remaining)
		}
	}

	s.println("Maximum authentication attempts reached. Transaction cancelled.")
	s.logger.Warn().Str("sender_id", senderID).Msg("authentication attempts exhausted")

	return fmt.Errorf("%w: %w", ErrAborted, domain.ErrAuthenticationFailed)
}

func (s *Session) askReceiver(ctx context.Context) (*domain.ReceiverAccount, error) {
	for {
		id, err := s.readLine("Enter Receiver Account Number: ")
		if err != nil {
			return nil, err
		}

		if err := s.validate.Struct(accountPrompt{ID: id}); err != nil {
			s.println("Invalid account number. Please try again.")
			continue
		}

		receiver, err := s.accounts.GetReceiver(ctx, id)
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.println("Receiver account not found. Please try again.")
			continue
		}

		if err != nil {
			return nil, err
		}

		s.println("Receiver account found.")

		return receiver, nil
	}
}

func (s *Session) askCurrency(sender *domain.SenderAccount, receiver *domain.ReceiverAccount) (string, error) {
	s.printf("Your account currency: %s\n", sender.Currency)
	s.printf("Receiver account currency: %s\n", receiver.Currency)

	if sender.Currency != receiver.Currency {
		s.printf("Cross-currency transfers not supported. Both accounts must use %s.\n", sender.Currency)
		return "", fmt.Errorf("%w: %w", ErrAborted, domain.ErrCurrencyMismatch)
	}

	for {
		answer, err := s.readLine(fmt.Sprintf("Enter Currency (ISO 4217 Code, must be %s): ", sender.Currency))
		if err != nil {
			return "", err
		}

		code := domain.NormalizeCurrency(answer)
		if err := s.validate.Struct(currencyPrompt{Code: code}); err != nil {
			s.println("Not an ISO 4217 currency code. Please try again.")
			continue
		}

		if code != sender.Currency {
			s.printf("Currency mismatch. You must enter %s. Please try again.\n", sender.Currency)
			continue
		}

		s.println("Currency validated.")

		return code, nil
	}
}

func (s *Session) askAmount(ctx context.Context, senderID, currency string) (decimal.Decimal, error) {
	sender, err := s.accounts.GetSender(ctx, senderID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := sender.Balance.StringFixed(domain.MoneyScale)
	s.printf("Available balance: %s %s\n", balance, currency)

	for {
		answer, err := s.readLine("Enter Transfer Amount: ")
		if err != nil {
			return decimal.Zero, err
		}

		if err := s.validate.Struct(amountPrompt{Amount: answer}); err != nil {
			s.println("Invalid amount format. Please enter a numeric value.")
			continue
		}

		amount, err := decimal.NewFromString(answer)
		if err != nil {
			s.println("Invalid amount format. Please enter a numeric value.")
			continue
		}

		if err := domain.ValidateAmount(amount); err != nil {
			s.printf("Invalid amount: %v. Please try again.\n", err)
			continue
		}

		if !sender.HasSufficientBalance(amount) {
			s.printf("Insufficient balance. Your balance is %s %s. Please try again.\n", balance, currency)
			continue
		}

		s.printf("Amount validated: %s %s\n", amount.StringFixed(domain.MoneyScale), currency)

		return amount, nil
	}
}

func (s *Session) checkLimit(ctx context.Context, receiverID string, amount decimal.Decimal) error {
	canReceive, remaining, err := s.accounts.CheckDailyLimit(ctx, receiverID, amount)
	if err != nil {
		return err
	}

	receiver, err := s.accounts.GetReceiver(ctx, receiverID)
	if err != nil {
		return err
	}

	s.printf("Receiver's Daily Limit: %s\n", receiver.DailyLimit.StringFixed(domain.MoneyScale))
	s.printf("Receiver's Already Received Today: %s\n", receiver.DailyReceived.StringFixed(domain.MoneyScale))

	if !canReceive {
		s.println("Receiver has reached or will exceed their daily transfer limit.")
		s.printf("Receiver can only receive %s more today.\n", remaining.StringFixed(domain.MoneyScale))
		s.println("Transaction blocked due to receiver's daily limit.")

		return fmt.Errorf("%w: %w", ErrAborted, domain.ErrDailyLimitExceeded)
	}

	s.printf("Receiver can receive this amount. Remaining limit after transfer: %s\n",
		remaining.Sub(amount).StringFixed(domain.MoneyScale))

	return nil
}

func (s *Session) askContact(ctx context.Context, senderID string) (string, error) {
	sender, err := s.accounts.GetSender(ctx, senderID)
	if err != nil {
		return "", err
	}

	for {
		contact, err := s.readLine("Enter Contact Information (Phone or Email): ")
		if err != nil {
			return "", err
		}

		if contact == sender.ContactInfo {
			s.println("Contact information verified.")
			return contact, nil
		}

		s.println("Contact information does not match registered record. Please try again.")
	}
}

func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	if !s.in.Scan() {
		fmt.Fprintln(s.out)

		if err := s.in.Err(); err != nil {
			return "", err
		}

		return "", ErrInputClosed
	}

	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) step(n int, title string) {
	fmt.Fprintf(s.out, "\n--- Step %d: %s ---\n", n, title)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

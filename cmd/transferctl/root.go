package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/moneytransfer/internal/adapter/cli"
	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/config"
	"github.com/iho/moneytransfer/internal/infrastructure/logger"
	"github.com/iho/moneytransfer/internal/infrastructure/postgres"
	"github.com/iho/moneytransfer/internal/usecase"
)

// cliContext carries configuration shared by all subcommands.
type cliContext struct {
	in     io.Reader
	out    io.Writer
	cfg    *config.Config
	logger zerolog.Logger

	newApp appFactory
}

type appFactory func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error)

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	return newRootCmdWithFactory(in, out, newApp)
}

func newRootCmdWithFactory(in io.Reader, out io.Writer, factory appFactory) *cobra.Command {
	c := &cliContext{in: in, out: out, newApp: factory}

	var envFile string

	rootCmd := &cobra.Command{
		Use:           "transferctl",
		Short:         "Money transfer CLI",
		Long:          `Transfers money between sender and receiver accounts and reports on the transaction log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFiles(envFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			c.cfg = cfg
			c.logger = logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: os.Stderr,
			})

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		transferCmd(c),
		migrateCmd(c),
		seedCmd(c),
		historyCmd(c),
		summaryCmd(c),
		showCmd(c),
		searchCmd(c),
		accountsCmd(c),
		adminCmd(c),
	)

	return rootCmd
}

// withApp builds the application for one command and always closes it.
func (c *cliContext) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := c.newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, a.close()) }()

	return fn(ctx, a)
}

func transferCmd(c *cliContext) *cobra.Command {
	var (
		from, to, amount, currency, reason string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer money (interactive unless --from, --to and --amount are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if from == "" && to == "" && amount == "" {
					return runSession(ctx, c, a)
				}

				return runDirectTransfer(ctx, c, a, from, to, amount, currency, reason)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender account id")
	cmd.Flags().StringVar(&to, "to", "", "receiver account id")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, at most two decimal places")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 code; defaults to the sender's currency")
	cmd.Flags().StringVar(&reason, "reason", "", "optional transaction reason")

	return cmd
}

func runSession(ctx context.Context, c *cliContext, a *app) error {
	session := cli.NewSession(a.accounts, a.transfers, c.in, c.out, cli.SessionConfig{
		MaxAuthAttempts: c.cfg.AuthMaxAttempts,
		Logger:          c.logger,
	})

	_, err := session.Run(ctx)

	return sessionExitError(err)
}

// sessionExitError maps dead ends to a silent exit.
func sessionExitError(err error) error {
	if errors.Is(err, cli.ErrAborted) || errors.Is(err, cli.ErrInputClosed) {
		return nil
	}

	return err
}

func runDirectTransfer(ctx context.Context, c *cliContext, a *app, from, to, amountStr, currency, reason string) error {
	if from == "" || to == "" || amountStr == "" {
		return errors.New("--from, --to and --amount are required together")
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, amountStr)
	}

	sender, err := a.accounts.GetSender(ctx, from)
	if err != nil {
		return err
	}

	receiver, err := a.accounts.GetReceiver(ctx, to)
	if err != nil {
		return err
	}

	if currency == "" {
		currency = sender.Currency
	}

	currency = domain.NormalizeCurrency(currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}

	if currency != sender.Currency || currency != receiver.Currency {
		return fmt.Errorf("%w: sender uses %s, receiver uses %s", domain.ErrCurrencyMismatch, sender.Currency, receiver.Currency)
	}

	result, err := a.transfers.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
		SenderID:   from,
		ReceiverID: to,
		Amount:     amount,
		Currency:   currency,
		Reason:     reason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Transaction ID: %d\n", result.TransactionID)
	fmt.Fprintf(c.out, "Sender balance: %s -> %s\n",
		result.SenderBalanceBefore.StringFixed(domain.MoneyScale), result.SenderBalanceAfter.StringFixed(domain.MoneyScale))
	fmt.Fprintf(c.out, "Receiver received today: %s -> %s\n",
		result.ReceiverDailyBefore.StringFixed(domain.MoneyScale), result.ReceiverDailyAfter.StringFixed(domain.MoneyScale))

	return nil
}

func migrateCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.NewMigrator(c.cfg.DatabaseURL, c.logger).Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.NewMigrator(c.cfg.DatabaseURL, c.logger).Down()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := postgres.NewMigrator(c.cfg.DatabaseURL, c.logger).Version()
				if err != nil {
					return err
				}

				fmt.Fprintf(c.out, "version %d (dirty: %t)\n", version, dirty)

				return nil
			},
		},
	)

	return cmd
}

func seedCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample sender and receiver accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				sample := usecase.SampleAccounts()
				if err := a.accounts.SeedAccounts(ctx, sample); err != nil {
					return err
				}

				fmt.Fprintf(c.out, "Seeded %d sender(s) and %d receiver(s).\n", len(sample.Senders), len(sample.Receivers))

				return nil
			})
		},
	}
}

func historyCmd(c *cliContext) *cobra.Command {
	var (
		role  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show the latest transactions of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountRole, err := domain.ParseAccountRole(role)
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				records, err := a.queries.History(ctx, args[0], accountRole, limit)
				if err != nil {
					return err
				}

				cli.RenderTransactions(c.out, records)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", string(domain.RoleSender), "sender or receiver")
	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultHistoryLimit, "maximum number of records")

	return cmd
}

func summaryCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM-DD]",
		Short: "Count and sum successful transfers of one calendar day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				date, err := summaryDate(args, a)
				if err != nil {
					return err
				}

				summary, err := a.queries.DailySummary(ctx, date)
				if err != nil {
					return err
				}

				cli.RenderSummary(c.out, summary)

				return nil
			})
		},
	}
}

func summaryDate(args []string, a *app) (time.Time, error) {
	if len(args) == 0 {
		loc, err := a.cfg.Location()
		if err != nil {
			return time.Time{}, err
		}

		return domain.DateOf(time.Now().In(loc)), nil
	}

	date, err := domain.ParseDate(args[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
	}

	return date, nil
}

func showCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				rec, err := a.queries.FindByID(ctx, id)
				if err != nil {
					return err
				}

				cli.RenderTransaction(c.out, rec)

				return nil
			})
		},
	}
}

func searchCmd(c *cliContext) *cobra.Command {
	var (
		sender, receiver, status, from, to string
		limit                              int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the transaction log",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.SearchInput{
				SenderID:   sender,
				ReceiverID: receiver,
				Status:     status,
				Limit:      limit,
			}

			var err error
			if input.From, err = optionalDate(from); err != nil {
				return err
			}

			if input.To, err = optionalDate(to); err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				records, err := a.queries.Search(ctx, input)
				if err != nil {
					return err
				}

				cli.RenderTransactions(c.out, records)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "sender account id")
	cmd.Flags().StringVar(&receiver, "receiver", "", "receiver account id")
	cmd.Flags().StringVar(&status, "status", "", "SUCCESS or FAILED")
	cmd.Flags().StringVar(&from, "from", "", "first calendar day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last calendar day, YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of records")

	return cmd
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	date, err := domain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}

	return &date, nil
}

func accountsCmd(c *cliContext) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts",
	}

	cmd.PersistentFlags().IntVar(&limit, "limit", 50, "page size")
	cmd.PersistentFlags().IntVar(&offset, "offset", 0, "page offset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "senders",
			Short: "List sender accounts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app) error {
					senders, err := a.accounts.ListSenders(ctx, usecase.ListAccountsInput{Limit: limit, Offset: offset})
					if err != nil {
						return err
					}

					cli.RenderSenders(c.out, senders)

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "receivers",
			Short: "List receiver accounts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app) error {
					receivers, err := a.accounts.ListReceivers(ctx, usecase.ListAccountsInput{Limit: limit, Offset: offset})
					if err != nil {
						return err
					}

					cli.RenderReceivers(c.out, receivers)

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "balance <sender-id>",
			Short: "Print the balance of a sender account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app) error {
					balance, err := a.accounts.GetSenderBalance(ctx, args[0])
					if err != nil {
						return err
					}

					fmt.Fprintln(c.out, balance.StringFixed(domain.MoneyScale))

					return nil
				})
			},
		},
	)

	return cmd
}

func adminCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative overrides that bypass transfer validation",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-balance <sender-id> <balance>",
			Short: "Overwrite a sender's balance",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				balance, err := decimal.NewFromString(args[1])
				if err != nil {
					return fmt.Errorf("invalid balance %q", args[1])
				}

				return c.withApp(cmd, func(ctx context.Context, a *app) error {
					if err := a.accounts.SetSenderBalance(ctx, args[0], balance); err != nil {
						return err
					}

					fmt.Fprintf(c.out, "Balance of %s set to %s.\n", args[0], balance.StringFixed(domain.MoneyScale))

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset-daily <receiver-id>",
			Short: "Zero a receiver's daily counter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app) error {
					if err := a.accounts.ResetReceiverDaily(ctx, args[0]); err != nil {
						return err
					}

					fmt.Fprintf(c.out, "Daily counter of %s reset.\n", args[0])

					return nil
				})
			},
		},
	)

	return cmd
}

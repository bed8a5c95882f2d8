package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/moneytransfer/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/moneytransfer/internal/adapter/repository/redis"
	"github.com/iho/moneytransfer/internal/infrastructure/clock"
	"github.com/iho/moneytransfer/internal/infrastructure/config"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
	"github.com/iho/moneytransfer/internal/infrastructure/postgres"
	"github.com/iho/moneytransfer/internal/infrastructure/redis"
	"github.com/iho/moneytransfer/internal/usecase"
)

// app owns every long-lived handle of one command invocation.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	pool        *pgxpool.Pool
	redisClient *goredis.Client

	accounts  *usecase.AccountUseCase
	transfers *usecase.TransferUseCase
	queries   *usecase.QueryUseCase
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Msg("connected to postgres")

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		pool:     pool,
	}

	var cache usecase.Cache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			// The summary cache is optional; queries fall back to the database.
			logger.Warn().Err(err).Msg("redis unavailable, summary cache disabled")
		} else {
			a.redisClient = client
			cache = redisRepo.NewCache(client)
		}
	}

	sysClock := clock.NewSystem(loc)
	txManager := postgresRepo.NewTxManager(pool, cfg.LockTimeout)
	senderRepo := postgresRepo.NewSenderRepository(pool)
	receiverRepo := postgresRepo.NewReceiverRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	retrier := postgresRepo.NewRetrier(logger, m)
	idGen := postgresRepo.NewULIDGenerator()

	audit := usecase.NewAuditLogger(txManager, txRepo, sysClock, logger, m)

	a.accounts = usecase.NewAccountUseCase(txManager, senderRepo, receiverRepo, sysClock, logger, m)
	a.transfers = usecase.NewTransferUseCase(txManager, senderRepo, receiverRepo, audit, retrier, sysClock, idGen, logger, m).
		WithTransactionTimeout(cfg.TransactionTimeout)
	a.queries = usecase.NewQueryUseCase(txRepo, cache, sysClock, loc, cfg.SummaryCacheTTL, logger, m)

	return a, nil
}

// close pushes metrics when a pushgateway is configured and releases connections.
func (a *app) close() error {
	var errs []error

	if a.cfg.PushgatewayURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := metrics.Push(ctx, a.cfg.PushgatewayURL, a.cfg.MetricsJob, a.registry); err != nil {
			a.logger.Warn().Err(err).Msg("failed to push metrics")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	return errors.Join(errs...)
}

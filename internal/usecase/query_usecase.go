package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/infrastructure/metrics"
)

const (
	defaultSearchLimit = 50
	maxQueryLimit      = 1000
	summaryKeyPrefix   = "summary:"
)

// QueryUseCase serves read-only reports over the transaction log.
// It never touches account state, so no daily reset is triggered here.
type QueryUseCase struct {
	txRepo   TransactionRepository
	cache    Cache
	clock    Clock
	location *time.Location
	cacheTTL time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewQueryUseCase creates a new QueryUseCase. cache and metrics may be nil.
func NewQueryUseCase(
	txRepo TransactionRepository,
	cache Cache,
	clock Clock,
	location *time.Location,
	cacheTTL time.Duration,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *QueryUseCase {
	if location == nil {
		location = time.UTC
	}

	if cacheTTL <= 0 {
		cacheTTL = DefaultSummaryCacheTTL
	}

	return &QueryUseCase{
		txRepo:   txRepo,
		cache:    cache,
		clock:    clock,
		location: location,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "query").Logger(),
		metrics:  metrics,
	}
}

// History lists the most recent records where accountID plays role.
func (uc *QueryUseCase) History(ctx context.Context, accountID string, role domain.AccountRole, limit int) ([]*domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	filter := domain.TransactionFilter{Limit: clampLimit(limit)}

	switch role {
	case domain.RoleSender:
		filter.SenderID = accountID
	case domain.RoleReceiver:
		filter.ReceiverID = accountID
	default:
		return nil, fmt.Errorf("history: unknown account role %q", role)
	}

	return uc.txRepo.Search(ctx, filter)
}

// DailySummary counts and sums the SUCCESS records of one calendar date in
// the business time zone. Summaries of closed days are cached.
func (uc *QueryUseCase) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	day := domain.DateOf(date)
	start, end := domain.DayBounds(day, uc.location)
	cacheable := uc.cache != nil && !end.After(uc.clock.Now())
	key := summaryKeyPrefix + day.Format(domain.DateLayout)

	if cacheable {
		if summary, ok := uc.cachedSummary(ctx, key); ok {
			return summary, nil
		}
	}

	count, total, err := uc.txRepo.Summarize(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &domain.DailySummary{
		Date:              day,
		TotalTransactions: count,
		TotalAmount:       total,
	}

	if cacheable {
		uc.storeSummary(ctx, key, summary)
	}

	return summary, nil
}

// FindByID returns one record or domain.ErrTransactionNotFound.
func (uc *QueryUseCase) FindByID(ctx context.Context, id int64) (*domain.TransactionRecord, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// SearchInput represents search filters. Empty fields match anything.
// From and To are calendar dates, both inclusive.
type SearchInput struct {
	SenderID   string
	ReceiverID string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Search returns matching records, most recent first.
func (uc *QueryUseCase) Search(ctx context.Context, input SearchInput) ([]*domain.TransactionRecord, error) {
	filter := domain.TransactionFilter{
		SenderID:   strings.TrimSpace(input.SenderID),
		ReceiverID: strings.TrimSpace(input.ReceiverID),
		Limit:      defaultSearchLimit,
	}

	if input.Limit > 0 {
		filter.Limit = clampLimit(input.Limit)
	}

	if input.Status != "" {
		status, err := domain.ParseTransactionStatus(input.Status)
		if err != nil {
			return nil, err
		}

		filter.Status = status
	}

	if input.From != nil {
		since, _ := domain.DayBounds(*input.From, uc.location)
		filter.Since = &since
	}

	if input.To != nil {
		_, until := domain.DayBounds(*input.To, uc.location)
		filter.Until = &until
	}

	return uc.txRepo.Search(ctx, filter)
}

func (uc *QueryUseCase) cachedSummary(ctx context.Context, key string) (*domain.DailySummary, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
			uc.observeCache("get", "error")
		} else {
			uc.observeCache("get", "miss")
		}

		return nil, false
	}

	var summary domain.DailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt summary cache entry")
		_ = uc.cache.Delete(ctx, key)
		uc.observeCache("get", "error")

		return nil, false
	}

	uc.observeCache("get", "hit")

	return &summary, true
}

func (uc *QueryUseCase) storeSummary(ctx context.Context, key string, summary *domain.DailySummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
		uc.observeCache("set", "error")

		return
	}

	uc.observeCache("set", "ok")
}

func (uc *QueryUseCase) observeCache(operation, result string) {
	if uc.metrics != nil {
		uc.metrics.CacheOperations.WithLabelValues(operation, result).Inc()
	}
}

func clampLimit(limit int) int {
	if limit > maxQueryLimit {
		return maxQueryLimit
	}

	return limit
}

package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "moneytransfer"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersTotal     *prometheus.CounterVec
	TransferRejections *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram

	// Audit metrics
	AuditRecords       *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter

	// Account metrics
	DailyResets    prometheus.Counter
	AdminOverrides *prometheus.CounterVec
	AuthAttempts   *prometheus.CounterVec

	// Database metrics
	DBRetries prometheus.Counter

	// Redis metrics
	CacheOperations *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfer attempts by terminal status",
			},
			[]string{"status"},
		),
		TransferRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_rejections_total",
				Help:      "Total number of rejected transfers by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Duration of transfer operations",
			Buckets:   prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_amount",
			Help:      "Committed transfer amounts",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		AuditRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_records_total",
				Help:      "Total transaction log records appended by status",
			},
			[]string{"status"},
		),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "FAILED records that could not be persisted",
		}),

		DailyResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receiver_daily_resets_total",
			Help:      "Lazy daily counter resets applied to receivers",
		}),
		AdminOverrides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admin_overrides_total",
				Help:      "Administrative writes by operation",
			},
			[]string{"operation"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Credential verification attempts by outcome",
			},
			[]string{"status"},
		),

		DBRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_retries_total",
			Help:      "Database operations retried after deadlock or serialization failure",
		}),

		CacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Summary cache operations by result",
			},
			[]string{"operation", "result"},
		),
	}
}

// Push sends everything gathered from g to a Prometheus Pushgateway.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	return push.New(url, job).Gatherer(g).PushContext(ctx)
}

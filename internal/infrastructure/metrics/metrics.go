package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionsFailed   *prometheus.CounterVec
	OperationDuration    prometheus.Histogram
	OperationAmount      prometheus.Histogram

	// Wallet metrics
	WalletsCreated       prometheus.Counter
	WalletStatusSwitches prometheus.Counter

	// Subscription metrics
	SubscriptionsRenewed    prometheus.Counter
	SubscriptionsTerminated prometheus.Counter
	SubscriptionsCompleted  prometheus.Counter
	RenewalTickDuration     prometheus.Histogram
	RenewalTicksSkipped     prometheus.Counter

	// Notification metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge

	// Redis metrics
	RedisErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartwallet_transactions_total",
				Help: "Total transaction records written, by type and status",
			},
			[]string{"type", "status"},
		),
		TransactionsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartwallet_transactions_failed_total",
				Help: "Total failed transactions by failure reason",
			},
			[]string{"reason"},
		),
		OperationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartwallet_operation_duration_seconds",
			Help:    "Duration of ledger operations",
			Buckets: prometheus.DefBuckets,
		}),
		OperationAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartwallet_operation_amount",
			Help:    "Amounts moved by ledger operations",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletStatusSwitches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_wallet_status_switches_total",
			Help: "Total number of wallet status switches",
		}),

		// Subscription metrics
		SubscriptionsRenewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_subscriptions_renewed_total",
			Help: "Total number of successful subscription renewals",
		}),
		SubscriptionsTerminated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_subscriptions_terminated_total",
			Help: "Total subscriptions terminated after a failed renewal charge",
		}),
		SubscriptionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_subscriptions_completed_total",
			Help: "Total subscriptions completed with renewal disallowed",
		}),
		RenewalTickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartwallet_renewal_tick_duration_seconds",
			Help:    "Duration of renewal scheduler ticks",
			Buckets: prometheus.DefBuckets,
		}),
		RenewalTicksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_renewal_ticks_skipped_total",
			Help: "Renewal ticks skipped because a previous tick was still running",
		}),

		// Notification metrics
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_notifications_sent_total",
			Help: "Total notifications delivered to the notification service",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartwallet_notifications_failed_total",
			Help: "Total notification deliveries that failed",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartwallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartwallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "smartwallet_db_connections",
			Help: "Current number of database connections",
		}),

		// Redis metrics
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartwallet_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wildtrails"

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		},
	)
)

// Game Metrics
var (
	ChoicesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_resolved_total",
			Help:      "Resolved choices by scene tag and realized branch",
		},
		[]string{"scene", "branch"},
	)

	CollectiblesUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collectibles_unlocked_total",
			Help:      "Collectibles newly added to a player collection, by rarity",
		},
		[]string{"rarity"},
	)

	SessionsReset = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_reset_total",
			Help:      "Session resets by kind (session or erase_all)",
		},
		[]string{"kind"},
	)

	StorageRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_recoveries_total",
			Help:      "Persisted records replaced by defaults because they were unreadable",
		},
		[]string{"record"},
	)
)

// Summarizer Metrics
var (
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Journey summary requests by status",
		},
		[]string{"status"},
	)

	SummaryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Latency of journey summary requests",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 90},
		},
	)
)

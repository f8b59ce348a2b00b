package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytube_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytube_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytube_provider_calls_total",
			Help: "YouTube Data API calls after retries, by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytube_provider_call_duration_seconds",
			Help:    "YouTube Data API call duration including retries.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	SnapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytube_snapshots_total",
			Help: "Snapshot insert attempts, by origin and result (created, existing, error).",
		},
		[]string{"origin", "result"},
	)

	BatchRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytube_batch_runs_total",
			Help: "Batch snapshot runs, by outcome (ok, partial, failed, skipped).",
		},
		[]string{"outcome"},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytube_batch_run_duration_seconds",
			Help:    "Duration of batch snapshot runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800},
		},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytube_cache_lookups_total",
			Help: "Redis cache lookups, by cache and result (hit, miss).",
		},
		[]string{"cache", "result"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. pool may be nil, in
// which case the DB pool gauges are skipped. Safe to call more than once.
func Register(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration,
			RequestsInFlight,
			ProviderCalls,
			ProviderDuration,
			SnapshotsTotal,
			BatchRuns,
			BatchDuration,
			CacheLookups,
		)

		if pool == nil {
			return
		}
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "analytube_db_connection_pool_active",
					Help: "Number of active database connections.",
				},
				func() float64 { return float64(pool.Stat().AcquiredConns()) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "analytube_db_connection_pool_idle",
					Help: "Number of idle database connections.",
				},
				func() float64 { return float64(pool.Stat().IdleConns()) },
			),
		)
	})
}

// ObserveProviderCall matches the youtube client's observer signature.
func ObserveProviderCall(method, outcome string, elapsed time.Duration) {
	ProviderCalls.WithLabelValues(method, outcome).Inc()
	ProviderDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// CacheResult records a cache lookup outcome.
func CacheResult(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

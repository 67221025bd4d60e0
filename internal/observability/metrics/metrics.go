package metrics

import (
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors are created eagerly so that recording works in tests that never
// call Init. Init registers them and exposes them on /metrics.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	tokenClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "token_client_latency_seconds",
			Help:    "Histogram of token client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vault_operation_duration_seconds",
			Help:    "Duration of vault operations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	ledgerReconciliationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_reconciliation_required_total",
			Help: "Number of deposits whose transfer succeeded but whose ledger credit failed",
		},
	)

	invariantViolationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_invariant_violations_total",
			Help: "Number of audits where the ledger total exceeded the vault balance",
		},
	)

	vaultTotalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_total_staked",
			Help: "Sum of every depositor ledger amount",
		},
	)

	vaultBalanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_balance",
			Help: "Token balance held by the vault account",
		},
	)

	vaultDepositorsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_depositors",
			Help: "Number of depositors with a positive balance",
		},
	)

	eventSubscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_feed_subscribers",
			Help: "Number of connected websocket event subscribers",
		},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		clientRequestDurationHistogram,
		tokenClientLatency,
		dbLatency,
		operationDuration,
		pollerDurationHistogram,
		queueSendErrorCounter,
		ledgerReconciliationCounter,
		invariantViolationsCounter,
		vaultTotalStakedGauge,
		vaultBalanceGauge,
		vaultDepositorsGauge,
		eventSubscribersGauge,
	)
}

func RecordTokenClientLatency(d time.Duration, method string, failure bool) {
	tokenClientLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordOperationDuration(d time.Duration, operation string, failure bool) {
	operationDuration.WithLabelValues(operation, outcome(failure).String()).Observe(d.Seconds())
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func IncLedgerReconciliationRequired() {
	ledgerReconciliationCounter.Inc()
}

func IncInvariantViolations() {
	invariantViolationsCounter.Inc()
}

func RecordVaultTotals(totalStaked sdkmath.Uint, vaultBalance, depositors uint64) {
	total, _ := new(big.Float).SetInt(totalStaked.BigInt()).Float64()
	vaultTotalStakedGauge.Set(total)
	vaultBalanceGauge.Set(float64(vaultBalance))
	vaultDepositorsGauge.Set(float64(depositors))
}

func SetEventSubscribers(count int) {
	eventSubscribersGauge.Set(float64(count))
}

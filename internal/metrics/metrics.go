// Package metrics holds the Prometheus collectors for the background jobs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

var (
	jobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genesisio_job_runs_total",
			Help: "Total number of scheduled job runs by result",
		},
		[]string{"job", "result"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genesisio_job_duration_seconds",
			Help:    "Scheduled job duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"job"},
	)

	pricesUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_prices_upserted_total",
		Help: "Total number of live price documents written",
	})

	walletsRevalued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_wallets_revalued_total",
		Help: "Total number of wallets updated by the valuation job",
	})

	walletUpdateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_wallet_update_failures_total",
		Help: "Total number of per-user wallet updates that failed",
	})

	investmentsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_investments_expired_total",
		Help: "Total number of investments moved to expired",
	})

	profitsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_profit_settlements_total",
		Help: "Total number of wallets whose profits were settled into balance",
	})

	tokensPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_refresh_tokens_purged_total",
		Help: "Total number of expired admin refresh tokens deleted",
	})

	tradeCreditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genesisio_trade_credit_failures_total",
		Help: "Total number of closed trades whose profit could not be credited",
	})
)

func RecordJobRun(job, result string, duration time.Duration) {
	jobRuns.WithLabelValues(job, result).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func AddPricesUpserted(n int64)     { pricesUpserted.Add(float64(n)) }
func AddWalletsRevalued(n int64)    { walletsRevalued.Add(float64(n)) }
func AddWalletUpdateFailures(n int) { walletUpdateFailures.Add(float64(n)) }
func AddInvestmentsExpired(n int64) { investmentsExpired.Add(float64(n)) }
func AddProfitsSettled(n int64)     { profitsSettled.Add(float64(n)) }
func AddTokensPurged(n int64)       { tokensPurged.Add(float64(n)) }
func IncTradeCreditFailures()       { tradeCreditFailures.Inc() }

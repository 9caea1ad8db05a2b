// internal/metrics/metrics.go
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commitlens",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of calls to hosting provider APIs.",
		},
		[]string{"platform", "operation", "outcome"},
	)
	providerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commitlens",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to hosting provider APIs, including internal paging.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"platform", "operation", "outcome"},
	)

	commitsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commitlens",
			Subsystem: "sync",
			Name:      "commits_processed_total",
			Help:      "Commits handled by the sync orchestrator grouped by outcome.",
		},
		[]string{"outcome"},
	)
	syncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commitlens",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of sync passes grouped by kind.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"kind"},
	)
)

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			providerRequestsTotal,
			providerRequestDuration,
			commitsProcessedTotal,
			syncDuration,
		)
	})
}

func ObserveProviderCall(platform, operation string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	providerRequestsTotal.WithLabelValues(platform, operation, outcome).Inc()
	providerRequestDuration.WithLabelValues(platform, operation, outcome).Observe(duration.Seconds())
}

// ObserveCommits records n commits with the given outcome: success, failed or skipped.
func ObserveCommits(outcome string, n int) {
	if n <= 0 {
		return
	}
	commitsProcessedTotal.WithLabelValues(outcome).Add(float64(n))
}

func ObserveSync(kind string, duration time.Duration) {
	syncDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

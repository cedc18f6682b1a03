package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	redemptionAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_redemption_attempts_total",
			Help: "Redemption attempts by outcome (accepted, already_redeemed, invalid_code_format, rejected_auth, error).",
		},
		[]string{"outcome"},
	)

	redemptionLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkin_redemption_latency_ms",
			Help:    "Redemption attempt latency distribution in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
	)

	scannerLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_scanner_logins_total",
			Help: "Scanner login attempts by outcome (success, failure).",
		},
		[]string{"outcome"},
	)
)

// MustRegister registers all collectors with Prometheus exactly once.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(redemptionAttempts, redemptionLatencyMs, scannerLogins)
	})
}

func ObserveRedemption(outcome string, latencyMs float64) {
	redemptionAttempts.WithLabelValues(outcome).Inc()
	redemptionLatencyMs.Observe(latencyMs)
}

func ObserveScannerLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	scannerLogins.WithLabelValues(outcome).Inc()
}

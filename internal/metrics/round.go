package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundStartTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "round_start_requests_total",
			Help: "Total round start requests by result and game",
		},
		[]string{"result", "game"},
	)

	roundStartDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "round_start_duration_ms",
			Help:    "Round start duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "game"},
	)

	roundActionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "round_action_requests_total",
			Help: "Total round action requests by result and game",
		},
		[]string{"result", "game"},
	)

	roundCashoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "round_cashout_requests_total",
			Help: "Total round cashout requests by result and game",
		},
		[]string{"result", "game"},
	)
)

// RecordRoundStart records business metrics for a round start call.
// result should be "success" or "fail".
func RecordRoundStart(result, game string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	roundStartTotal.WithLabelValues(res, game).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	roundStartDuration.WithLabelValues(res, game).Observe(durMs)
}

// RecordRoundAction records business metrics for a round action call.
func RecordRoundAction(result, game string) {
	res := result
	if res != "success" {
		res = "fail"
	}
	roundActionTotal.WithLabelValues(res, game).Inc()
}

// RecordRoundCashout records business metrics for a cashout call.
func RecordRoundCashout(result, game string) {
	res := result
	if res != "success" {
		res = "fail"
	}
	roundCashoutTotal.WithLabelValues(res, game).Inc()
}

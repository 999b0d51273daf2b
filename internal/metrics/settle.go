package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "round_settlements_total",
			Help: "Total settlements by game and outcome (win/lose/void)",
		},
		[]string{"game", "outcome"},
	)

	payoutSum = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "round_payout_amount_total",
			Help: "Cumulative payout amount by game",
		},
		[]string{"game"},
	)

	entropyFailTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rng_entropy_failures_total",
			Help: "Total requests refused because the entropy source failed",
		},
	)
)

// RecordSettlement records one settlement with its payout.
func RecordSettlement(game string, payout float64, voided bool) {
	outcome := "lose"
	if voided {
		outcome = "void"
	} else if payout > 0 {
		outcome = "win"
	}
	settleTotal.WithLabelValues(game, outcome).Inc()
	if payout > 0 {
		payoutSum.WithLabelValues(game).Add(payout)
	}
}

// RecordEntropyFailure counts a refused draw. The counter alerting on this
// is the first signal that the host entropy source is broken.
func RecordEntropyFailure() {
	entropyFailTotal.Inc()
}

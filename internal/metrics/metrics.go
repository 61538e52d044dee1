package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LedgerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_requests_total",
			Help: "Number of top-up requests handled by the ledger",
		},
		[]string{"operation", "outcome"},
	)

	LedgerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_request_duration_seconds",
			Help:    "Latency of top-up requests handled by the ledger",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	TopUpsBookedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topups_booked_total",
			Help: "Number of booked top-ups seen by the auditor",
		},
		[]string{"payment_method"},
	)

	TopUpAmounts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topup_amounts",
			Help:    "Distribution of booked top-up amounts",
			Buckets: prometheus.LinearBuckets(0, 10, 16),
		},
		[]string{"currency"},
	)

	TerminalLastBooking = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "topup_terminal_last_booking_timestamp_seconds",
			Help: "Commit time of the last booking seen per terminal",
		},
		[]string{"terminal_id"},
	)
)

// ObserveRequest records one handled ledger request.
func ObserveRequest(operation, outcome string, started time.Time) {
	LedgerRequestsTotal.WithLabelValues(operation, outcome).Inc()
	LedgerRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func RegisterLedgerMetrics() {
	prometheus.MustRegister(
		LedgerRequestsTotal,
		LedgerRequestDuration,
	)
}

func RegisterAuditorMetrics() {
	prometheus.MustRegister(
		TopUpsBookedTotal,
		TopUpAmounts,
		TerminalLastBooking,
	)
}

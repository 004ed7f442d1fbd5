package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		initiateDuration,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment records by final status (pending/success/free/failed).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_minor_total",
			Help: "Total captured revenue in minor units, labeled by currency.",
		},
		[]string{"currency"},
	)

	// Latency of purchase initiation grouped by outcome (ok|free|error).
	initiateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_initiate_duration_seconds",
			Help:    "Duration of purchase initiation in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"outcome"},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(currency string, amountMinor int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountMinor))
}

func ObserveInitiate(outcome string, seconds float64) {
	initiateDuration.WithLabelValues(norm(outcome)).Observe(seconds)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookDeliveries)
}

// result: captured|duplicate|ignored|bad_signature|not_found|error
var webhookDeliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_webhook_deliveries_total",
		Help: "Inbound gateway webhook deliveries by result.",
	},
	[]string{"result"},
)

func IncWebhook(result string) {
	webhookDeliveries.WithLabelValues(norm(result)).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(couponRedemptions)
}

// result: ok|not_found|inactive|exhausted
var couponRedemptions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coupon_redemptions_total",
		Help: "Coupon redemption attempts by result.",
	},
	[]string{"result"},
)

func IncCouponRedemption(result string) {
	couponRedemptions.WithLabelValues(norm(result)).Inc()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "simex"

var (
	setupOnce sync.Once

	orderCounter          *prometheus.CounterVec
	orderRejectionCounter *prometheus.CounterVec
	tradeCounter          *prometheus.CounterVec
	orderGauge            *prometheus.GaugeVec
)

// Setup registers the venue metrics with the default prometheus
// registry. Calling it more than once is harmless; not calling it leaves
// every helper a no-op.
func Setup() {
	setupOnce.Do(func() {
		orderCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "orders_total",
			Help:      "Number of orders accepted per market",
		}, []string{"market"})
		orderRejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "order_rejections_total",
			Help:      "Number of order submissions rejected per market",
		}, []string{"market"})
		tradeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "trades_total",
			Help:      "Number of trades per market",
		}, []string{"market"})
		orderGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "orders_resting",
			Help:      "Number of orders currently resting per market",
		}, []string{"market"})
		prometheus.MustRegister(orderCounter, orderRejectionCounter, tradeCounter, orderGauge)
	})
}

// OrderCounterInc increments the accepted-order counter.
func OrderCounterInc(labelValues ...string) {
	if orderCounter == nil {
		return
	}
	orderCounter.WithLabelValues(labelValues...).Inc()
}

// OrderRejectionInc increments the rejected-order counter.
func OrderRejectionInc(labelValues ...string) {
	if orderRejectionCounter == nil {
		return
	}
	orderRejectionCounter.WithLabelValues(labelValues...).Inc()
}

// TradeCounterAdd adds to the trade counter.
func TradeCounterAdd(n float64, labelValues ...string) {
	if tradeCounter == nil {
		return
	}
	tradeCounter.WithLabelValues(labelValues...).Add(n)
}

// OrderGaugeAdd adds to (or subtracts from) the resting-order gauge.
func OrderGaugeAdd(n int, labelValues ...string) {
	if orderGauge == nil {
		return
	}
	orderGauge.WithLabelValues(labelValues...).Add(float64(n))
}

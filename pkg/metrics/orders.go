package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics tracks order placement outcomes.
type OrderMetrics struct {
	placed    prometheus.Counter
	failed    *prometheus.CounterVec
	value     prometheus.Histogram
	forecasts *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders persisted successfully.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order placements rejected, by error code.",
	}, []string{"code"})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Submitted order totals.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	})
	forecasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_forecasts_total",
		Help: "Demand forecasts served, by history source.",
	}, []string{"source"})
	reg.MustRegister(placed, failed, value, forecasts)
	return &OrderMetrics{
		placed:    placed,
		failed:    failed,
		value:     value,
		forecasts: forecasts,
	}
}

// IncPlaced counts a persisted order and records its total.
func (m *OrderMetrics) IncPlaced(total decimal.Decimal) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.Inc()
	m.value.Observe(total.InexactFloat64())
}

// IncRejected counts a refused placement.
func (m *OrderMetrics) IncRejected(code string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncForecast counts a served forecast; source is "history" or "synthetic".
func (m *OrderMetrics) IncForecast(source string) {
	if m == nil || m.forecasts == nil {
		return
	}
	m.forecasts.WithLabelValues(normalizeLabel(source)).Inc()
}

// Package metrics exposes the order service counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const (
	namespace = "shopkit"
	subsystem = "order"

	outcomePaid = "paid"
)

type Metrics struct {
	registry *prometheus.Registry

	ordersCreated  prometheus.Counter
	ordersRejected *prometheus.CounterVec
	ordersShipped  prometheus.Counter
	revenue        prometheus.Counter
	createDuration *prometheus.HistogramVec
}

// New registers the order collectors plus the Go and process collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "created_total", Help: "Orders committed as PAID.",
		}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "rejected_total", Help: "Order attempts that did not commit, by error kind.",
		}, []string{"kind"}),
		ordersShipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "shipped_total", Help: "Orders moved from PAID to SHIPPED.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "revenue_total", Help: "Sum of total_amount over PAID orders.",
		}),
		createDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "create_duration_seconds", Help: "Latency of order creation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.ordersCreated, m.ordersRejected, m.ordersShipped, m.revenue, m.createDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OrderCreated(total decimal.Decimal, elapsed time.Duration) {
	m.ordersCreated.Inc()
	m.revenue.Add(total.InexactFloat64())
	m.createDuration.WithLabelValues(outcomePaid).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderRejected(kind string, elapsed time.Duration) {
	m.ordersRejected.WithLabelValues(kind).Inc()
	m.createDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderShipped() {
	m.ordersShipped.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

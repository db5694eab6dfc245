// Package metrics exposes inventory measurements in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estoque"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	lowStockGroups  prometheus.Gauge
	expiringRecords prometheus.Gauge
}

// New registers the inventory collectors plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Inventory mutations by operation and result.",
		}, []string{"operation", "result"}),
		refreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_refresh_seconds",
			Help:      "Time spent reloading the inventory snapshot from the store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		lowStockGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_groups",
			Help:      "Products at or below their minimum stock.",
		}),
		expiringRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expiring_records",
			Help:      "Stock records inside the expiry warning window.",
		}),
	}

	m.registry.MustRegister(
		m.operations,
		m.refreshDuration,
		m.lowStockGroups,
		m.expiringRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Operation counts one mutation.
func (m *Metrics) Operation(name string, err error) {
	m.operations.WithLabelValues(name, result(err)).Inc()
}

// Refresh observes one snapshot reload.
func (m *Metrics) Refresh(elapsed time.Duration, err error) {
	m.refreshDuration.WithLabelValues(result(err)).Observe(elapsed.Seconds())
}

// Inventory sets the stock health gauges.
func (m *Metrics) Inventory(lowStockGroups, expiringRecords int) {
	m.lowStockGroups.Set(float64(lowStockGroups))
	m.expiringRecords.Set(float64(expiringRecords))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

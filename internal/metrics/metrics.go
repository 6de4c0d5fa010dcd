// Package metrics exposes table parsing statistics as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements csvtable.Observer on top of Prometheus collectors
// registered with its own registry.
type Collector struct {
	registry *prometheus.Registry

	passDuration  *prometheus.HistogramVec
	bytesTotal    prometheus.Counter
	chunksTotal   prometheus.Counter
	tablesTotal   prometheus.Counter
	rowsTotal     prometheus.Counter
	lastColumns   prometheus.Gauge
	failuresTotal *prometheus.CounterVec
}

// NewCollector creates and registers all parsing metrics.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "csvtable_pass_duration_seconds",
				Help:    "Duration of each parsing pass in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"pass"},
		),

		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csvtable_input_bytes_total",
			Help: "Total number of input bytes parsed into tables",
		}),

		chunksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csvtable_chunks_total",
			Help: "Total number of chunks scanned",
		}),

		tablesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csvtable_tables_total",
			Help: "Total number of tables built",
		}),

		rowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csvtable_rows_total",
			Help: "Total number of rows parsed, header rows included",
		}),

		lastColumns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "csvtable_last_table_columns",
			Help: "Column count of the most recently built table",
		}),

		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvtable_failures_total",
				Help: "Total number of failed builds by reason",
			},
			[]string{"reason"},
		),
	}

	m.registry.MustRegister(
		m.passDuration,
		m.bytesTotal,
		m.chunksTotal,
		m.tablesTotal,
		m.rowsTotal,
		m.lastColumns,
		m.failuresTotal,
	)

	return m
}

// Registry returns the registry holding the collector's metrics.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePass records the duration of one parsing pass.
func (m *Collector) ObservePass(name string, d time.Duration) {
	m.passDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveTable records the size of a successfully built table.
func (m *Collector) ObserveTable(bytes, chunks, rows, columns int) {
	m.tablesTotal.Inc()
	m.bytesTotal.Add(float64(bytes))
	m.chunksTotal.Add(float64(chunks))
	m.rowsTotal.Add(float64(rows))
	m.lastColumns.Set(float64(columns))
}

// ObserveFailure records a failed build.
func (m *Collector) ObserveFailure(reason string) {
	m.failuresTotal.WithLabelValues(reason).Inc()
}

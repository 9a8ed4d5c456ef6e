// Package metrics provides Prometheus instrumentation for soa stores.
//
// # Overview
//
// A Metrics value owns one set of metric vectors registered against a
// prometheus.Registerer. Each store gets a Collector bound to its name:
//
//	m := metrics.New(prometheus.NewRegistry())
//	store, _ := soa.New[any]([]string{"name", "score"},
//	    soa.WithMetrics(m.For("scores")))
//
// # Metric Types
//
//   - soa_operations_total{store,op}: counter of row operations
//   - soa_rows{store}: gauge of the current row count
//   - soa_sort_duration_seconds{store}: histogram of joint sort durations
//   - soa_sort_comparisons_total{store}: comparator invocations
//   - soa_sort_swaps_total{store}: row swaps committed by sorts
//
// Collectors are safe for concurrent use; the stores they observe are not.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as the "op" label.
const (
	OpWrite  = "write"
	OpInsert = "insert"
	OpRemove = "remove"
	OpSwap   = "swap"
	OpSort   = "sort"
	OpClear  = "clear"
)

// Metrics holds the metric vectors shared by every Collector created from it.
type Metrics struct {
	operations  *prometheus.CounterVec
	rows        *prometheus.GaugeVec
	sortLatency *prometheus.HistogramVec
	comparisons *prometheus.CounterVec
	swaps       *prometheus.CounterVec
}

// New registers the soa metric vectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soa_operations_total",
				Help: "Total number of row operations applied to a store",
			},
			[]string{"store", "op"},
		),
		rows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "soa_rows",
				Help: "Current number of rows in a store",
			},
			[]string{"store"},
		),
		sortLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "soa_sort_duration_seconds",
				Help: "Joint sort duration in seconds",
				Buckets: []float64{
					1e-6, // 1µs - a handful of rows
					1e-5,
					1e-4,
					1e-3, // 1ms
					1e-2,
					1e-1,
					1,
					10, // quadratic worst case on large inputs
				},
			},
			[]string{"store"},
		),
		comparisons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soa_sort_comparisons_total",
				Help: "Comparator invocations performed by joint sorts",
			},
			[]string{"store"},
		),
		swaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soa_sort_swaps_total",
				Help: "Row swaps committed by joint sorts",
			},
			[]string{"store"},
		),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns metrics registered with prometheus.DefaultRegisterer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// Collector records metrics for a single named store.
type Collector struct {
	name        string
	m           *Metrics
	rows        prometheus.Gauge
	sortLatency prometheus.Observer
	comparisons prometheus.Counter
	swaps       prometheus.Counter

	mu  sync.Mutex
	ops map[string]prometheus.Counter
}

// For returns a Collector whose metrics carry store=name.
func (m *Metrics) For(name string) *Collector {
	return &Collector{
		name:        name,
		m:           m,
		rows:        m.rows.WithLabelValues(name),
		sortLatency: m.sortLatency.WithLabelValues(name),
		comparisons: m.comparisons.WithLabelValues(name),
		swaps:       m.swaps.WithLabelValues(name),
		ops:         make(map[string]prometheus.Counter),
	}
}

// Name returns the store label of the collector.
func (c *Collector) Name() string {
	return c.name
}

// Op counts one operation and publishes the resulting row count.
func (c *Collector) Op(op string, rows int) {
	c.count(op).Inc()
	c.rows.Set(float64(rows))
}

func (c *Collector) count(op string) prometheus.Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	counter, ok := c.ops[op]
	if !ok {
		counter = c.m.operations.WithLabelValues(c.name, op)
		c.ops[op] = counter
	}
	return counter
}

// ObserveSort records one completed joint sort.
func (c *Collector) ObserveSort(d time.Duration, comparisons, swaps int) {
	c.count(OpSort).Inc()
	c.sortLatency.Observe(d.Seconds())
	c.comparisons.Add(float64(comparisons))
	c.swaps.Add(float64(swaps))
}

// Timer measures an operation's duration.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
//
// Example:
//
//	timer := metrics.NewTimer()
//	err := store.Sort(cmp)
//	logger.Debug("sorted", zap.Duration("duration", timer.Stop()))
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the time elapsed since the timer started. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

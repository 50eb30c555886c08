// Package eventfdprom exports eventfd.Pool statistics as Prometheus metrics.
package eventfdprom

import (
	"github.com/joeycumines/go-eventfd"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	// Collector implements prometheus.Collector, reading eventfd.Pool.Stats
	// on each scrape. Counters other than the occupancy gauges are only
	// populated if the pool was created with eventfd.WithMetrics.
	Collector struct {
		pool        *eventfd.Pool
		capacity    *prometheus.Desc
		inUse       *prometheus.Desc
		operations  *prometheus.Desc
		waits       *prometheus.Desc
		wouldBlock  *prometheus.Desc
		noCapacity  *prometheus.Desc
		waitLatency *prometheus.Desc
	}
)

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector for pool, which must not be nil. The
// namespace may be empty. Constant labels may be nil.
func NewCollector(pool *eventfd.Pool, namespace string, labels prometheus.Labels) *Collector {
	if pool == nil {
		panic(`eventfdprom: nil pool`)
	}
	name := func(s string) string {
		return prometheus.BuildFQName(namespace, `eventfd`, s)
	}
	return &Collector{
		pool: pool,
		capacity: prometheus.NewDesc(
			name(`pool_capacity`),
			`Fixed number of event object slots in the pool.`,
			nil, labels,
		),
		inUse: prometheus.NewDesc(
			name(`pool_in_use`),
			`Number of open event objects.`,
			nil, labels,
		),
		operations: prometheus.NewDesc(
			name(`operations_total`),
			`Completed operations, by type.`,
			[]string{`op`}, labels,
		),
		waits: prometheus.NewDesc(
			name(`waits_total`),
			`Blocking waits entered, by side.`,
			[]string{`side`}, labels,
		),
		wouldBlock: prometheus.NewDesc(
			name(`would_block_total`),
			`Non-blocking operations that failed because they would block.`,
			nil, labels,
		),
		noCapacity: prometheus.NewDesc(
			name(`no_capacity_total`),
			`Allocations that failed because the pool was exhausted.`,
			nil, labels,
		),
		waitLatency: prometheus.NewDesc(
			name(`wait_seconds`),
			`Blocking wait duration quantiles, over recent samples.`,
			[]string{`quantile`}, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.inUse
	ch <- c.operations
	ch <- c.waits
	ch <- c.wouldBlock
	ch <- c.noCapacity
	ch <- c.waitLatency
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()

	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))

	for _, v := range [...]struct {
		op    string
		count uint64
	}{
		{`create`, s.Creates},
		{`close`, s.Closes},
		{`read`, s.Reads},
		{`write`, s.Writes},
	} {
		ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(v.count), v.op)
	}

	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.ReadWaits), `read`)
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.WriteWaits), `write`)
	ch <- prometheus.MustNewConstMetric(c.wouldBlock, prometheus.CounterValue, float64(s.WouldBlock))
	ch <- prometheus.MustNewConstMetric(c.noCapacity, prometheus.CounterValue, float64(s.NoCapacity))

	if s.Wait.Count != 0 {
		ch <- prometheus.MustNewConstMetric(c.waitLatency, prometheus.GaugeValue, s.Wait.P50.Seconds(), `0.5`)
		ch <- prometheus.MustNewConstMetric(c.waitLatency, prometheus.GaugeValue, s.Wait.P90.Seconds(), `0.9`)
		ch <- prometheus.MustNewConstMetric(c.waitLatency, prometheus.GaugeValue, s.Wait.P99.Seconds(), `0.99`)
		ch <- prometheus.MustNewConstMetric(c.waitLatency, prometheus.GaugeValue, s.Wait.Max.Seconds(), `1`)
	}
}

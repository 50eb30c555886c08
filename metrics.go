package eventfd

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks runtime statistics for a Pool. Counters are updated
// atomically, and may be read at any time. See WithMetrics.
type Metrics struct {
	// WaitLatency samples the duration of blocking waits, by readers and
	// writers.
	WaitLatency LatencyMetrics

	Creates    atomic.Uint64
	Closes     atomic.Uint64
	Reads      atomic.Uint64
	Writes     atomic.Uint64
	WouldBlock atomic.Uint64
	ReadWaits  atomic.Uint64
	WriteWaits atomic.Uint64
	NoCapacity atomic.Uint64
}

func (m *Metrics) wouldBlock() {
	if m != nil {
		m.WouldBlock.Add(1)
	}
}

// LatencyMetrics tracks latency distribution with percentiles, over a
// rolling window of samples.
type LatencyMetrics struct {
	samples     [sampleSize]time.Duration
	sum         time.Duration
	sampleIdx   int
	sampleCount int
	mu          sync.Mutex
}

// sampleSize is the maximum number of latency samples to retain.
const sampleSize = 1000

// LatencySnapshot is a point in time summary of LatencyMetrics.
type LatencySnapshot struct {
	Count int
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

// Record records a latency sample.
func (l *LatencyMetrics) Record(duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// If buffer is full, subtract the old sample that we're replacing
	if l.sampleCount >= sampleSize {
		l.sum -= l.samples[l.sampleIdx]
	}

	l.samples[l.sampleIdx] = duration
	l.sum += duration
	l.sampleIdx++
	if l.sampleIdx >= sampleSize {
		l.sampleIdx = 0
	}
	if l.sampleCount < sampleSize {
		l.sampleCount++
	}
}

// Snapshot computes percentiles from the retained samples.
func (l *LatencyMetrics) Snapshot() (s LatencySnapshot) {
	l.mu.Lock()
	count := l.sampleCount
	sorted := slices.Clone(l.samples[:count])
	sum := l.sum
	l.mu.Unlock()

	s.Count = count
	if count == 0 {
		return s
	}

	slices.Sort(sorted)

	s.P50 = sorted[percentileIndex(count, 50)]
	s.P90 = sorted[percentileIndex(count, 90)]
	s.P99 = sorted[percentileIndex(count, 99)]
	s.Max = sorted[count-1]
	s.Mean = sum / time.Duration(count)
	return s
}

// percentileIndex computes the index for a given percentile (0-100).
func percentileIndex(n, p int) int {
	index := (p * n) / 100
	if index >= n {
		return n - 1
	}
	return index
}

// Stats is a point in time snapshot of a Pool. The counters are zero unless
// metrics are enabled.
type Stats struct {
	Wait       LatencySnapshot
	Capacity   int
	InUse      int
	Creates    uint64
	Closes     uint64
	Reads      uint64
	Writes     uint64
	WouldBlock uint64
	ReadWaits  uint64
	WriteWaits uint64
	NoCapacity uint64
}

// Stats returns a snapshot of the pool's occupancy and metrics.
func (p *Pool) Stats() Stats {
	s := Stats{
		Capacity: p.Capacity(),
		InUse:    p.InUse(),
	}
	if m := p.metrics; m != nil {
		s.Wait = m.WaitLatency.Snapshot()
		s.Creates = m.Creates.Load()
		s.Closes = m.Closes.Load()
		s.Reads = m.Reads.Load()
		s.Writes = m.Writes.Load()
		s.WouldBlock = m.WouldBlock.Load()
		s.ReadWaits = m.ReadWaits.Load()
		s.WriteWaits = m.WriteWaits.Load()
		s.NoCapacity = m.NoCapacity.Load()
	}
	return s
}

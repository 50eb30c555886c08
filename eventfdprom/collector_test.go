package eventfdprom

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/joeycumines/go-eventfd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_nilPool(t *testing.T) {
	assert.Panics(t, func() { NewCollector(nil, ``, nil) })
}

func TestCollector(t *testing.T) {
	pool, err := eventfd.NewPool(eventfd.WithCapacity(4), eventfd.WithMetrics(true))
	require.NoError(t, err)

	e, err := pool.Create(0, eventfd.FlagNonBlock)
	require.NoError(t, err)
	require.NoError(t, e.WriteValue(context.Background(), 3))
	_, err = e.ReadValue(context.Background())
	require.NoError(t, err)
	_, err = e.ReadValue(context.Background())
	require.ErrorIs(t, err, eventfd.ErrWouldBlock)

	c := NewCollector(pool, `test`, prometheus.Labels{`pool`: `a`})

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(c))

	// no wait samples, so no quantiles
	assert.Equal(t, 10, testutil.CollectAndCount(c))

	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP test_eventfd_pool_capacity Fixed number of event object slots in the pool.
# TYPE test_eventfd_pool_capacity gauge
test_eventfd_pool_capacity{pool="a"} 4
# HELP test_eventfd_pool_in_use Number of open event objects.
# TYPE test_eventfd_pool_in_use gauge
test_eventfd_pool_in_use{pool="a"} 1
# HELP test_eventfd_operations_total Completed operations, by type.
# TYPE test_eventfd_operations_total counter
test_eventfd_operations_total{op="close",pool="a"} 0
test_eventfd_operations_total{op="create",pool="a"} 1
test_eventfd_operations_total{op="read",pool="a"} 1
test_eventfd_operations_total{op="write",pool="a"} 1
# HELP test_eventfd_would_block_total Non-blocking operations that failed because they would block.
# TYPE test_eventfd_would_block_total counter
test_eventfd_would_block_total{pool="a"} 1
`),
		`test_eventfd_pool_capacity`,
		`test_eventfd_pool_in_use`,
		`test_eventfd_operations_total`,
		`test_eventfd_would_block_total`,
	))
}

func TestCollector_waitLatency(t *testing.T) {
	pool, err := eventfd.NewPool(eventfd.WithMetrics(true))
	require.NoError(t, err)
	e, err := pool.Create(0, 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := e.ReadValue(context.Background())
		done <- err
	}()
	for pool.Stats().ReadWaits == 0 {
		runtime.Gosched()
	}
	require.NoError(t, e.WriteValue(context.Background(), 1))
	require.NoError(t, <-done)

	c := NewCollector(pool, ``, nil)
	assert.Equal(t, 14, testutil.CollectAndCount(c))
	assert.Equal(t, 4, testutil.CollectAndCount(c, `eventfd_wait_seconds`))
}

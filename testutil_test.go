package eventfd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestPool creates a pool, with metrics enabled, failing the test on
// error.
func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := NewPool(append([]Option{WithMetrics(true)}, opts...)...)
	require.NoError(t, err)
	return p
}

func newTestEventFD(t *testing.T, initval uint64, flags Flags) *EventFD {
	t.Helper()
	e, err := newTestPool(t).Create(initval, flags)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// async runs fn in a goroutine, returning a channel that receives its
// result.
func async[T any](fn func() T) <-chan T {
	ch := make(chan T, 1)
	go func() { ch <- fn() }()
	return ch
}

// requireBlocked asserts that nothing is received from ch for a short
// period.
func requireBlocked[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("expected to be blocked, got %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

// requireReceive waits for a value from ch, failing the test after 5s.
func requireReceive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		panic("unreachable")
	}
}

type readResult struct {
	err   error
	value uint64
}

func asyncRead(e *EventFD) <-chan readResult {
	return async(func() readResult {
		v, err := e.ReadValue(context.Background())
		return readResult{value: v, err: err}
	})
}

func asyncWrite(e *EventFD, v uint64) <-chan error {
	return async(func() error {
		return e.WriteValue(context.Background(), v)
	})
}

// counter peeks at the counter, for assertions only.
func (e *EventFD) counter() uint64 {
	e.obj.guard.Lock()
	defer e.obj.guard.Unlock()
	return e.obj.counter
}

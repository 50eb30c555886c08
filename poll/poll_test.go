package poll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockObject is readable while its channel is closed.
type mockObject struct {
	ready      chan struct{}
	prepareErr error
	updateErr  error
	once       sync.Once
}

func newMockObject() *mockObject {
	return &mockObject{ready: make(chan struct{})}
}

func (m *mockObject) signal() { m.once.Do(func() { close(m.ready) }) }

func (m *mockObject) Read([]byte) (int, error)  { return 0, fdtable.ErrNotSupported }
func (m *mockObject) Write([]byte) (int, error) { return 0, fdtable.ErrNotSupported }

func (m *mockObject) Ioctl(req fdtable.Request) (int, error) {
	switch req := req.(type) {
	case *PrepareRequest:
		if m.prepareErr != nil {
			return -1, m.prepareErr
		}
		if req.FD.Events&In != 0 {
			if err := req.Slots.Bind(m.ready); err != nil {
				return -1, err
			}
		}
		return 0, nil
	case *UpdateRequest:
		if m.updateErr != nil {
			return -1, m.updateErr
		}
		if req.FD.Events&Out != 0 {
			req.FD.REvents |= Out
		}
		if req.FD.Events&In != 0 {
			if slot, ok := req.Slots.Next(); ok && slot.State() == Ready {
				req.FD.REvents |= In
			}
		}
		return 0, nil
	default:
		return -1, fdtable.ErrNotSupported
	}
}

func newTestTable(t *testing.T, objects ...fdtable.Object) *fdtable.Table {
	t.Helper()
	table, err := fdtable.New(8)
	require.NoError(t, err)
	for _, obj := range objects {
		fd, err := table.Reserve()
		require.NoError(t, err)
		require.NoError(t, table.Finalize(fd, obj))
	}
	return table
}

func TestNewPoller(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewPoller(nil) })

	table := newTestTable(t)
	p, err := NewPoller(table, nil, WithLogger(nil), WithMaxSlots(4))
	require.NoError(t, err)
	assert.Equal(t, 4, p.maxSlots)

	p, err = NewPoller(table, WithMaxSlots(0))
	assert.Nil(t, p)
	assert.ErrorIs(t, err, fdtable.ErrInvalidArgument)
}

func TestPoll_noWait(t *testing.T) {
	a, b := newMockObject(), newMockObject()
	table := newTestTable(t, a, b)

	fds := []FD{
		{FD: 0, Events: In},
		{FD: 1, Events: In},
		{FD: -1, Events: In},
		{FD: 5, Events: In},
	}
	n, err := Poll(context.Background(), table, fds, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Events{0, 0, 0, Nval}, revents(fds))

	b.signal()
	n, err = Poll(context.Background(), table, fds, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []Events{0, In, 0, Nval}, revents(fds))
}

func revents(fds []FD) (out []Events) {
	for _, fd := range fds {
		out = append(out, fd.REvents)
	}
	return out
}

// Each object consumes the slots it bound, regardless of how many were bound
// by those before it.
func TestPoll_slotAttribution(t *testing.T) {
	a, b, c := newMockObject(), newMockObject(), newMockObject()
	c.signal()
	table := newTestTable(t, a, b, c)

	fds := []FD{
		{FD: 0, Events: In | Out},
		{FD: 1, Events: Out},
		{FD: 2, Events: In},
		{FD: 0, Events: In},
	}
	n, err := Poll(context.Background(), table, fds, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []Events{Out, Out, In, 0}, revents(fds))
}

func TestPoll_waits(t *testing.T) {
	a := newMockObject()
	table := newTestTable(t, a)

	go func() {
		time.Sleep(20 * time.Millisecond)
		a.signal()
	}()

	fds := []FD{{FD: 0, Events: In}}
	n, err := Poll(context.Background(), table, fds, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, In, fds[0].REvents)
}

func TestPoll_timeout(t *testing.T) {
	table := newTestTable(t, newMockObject())
	fds := []FD{{FD: 0, Events: In}}
	start := time.Now()
	n, err := Poll(context.Background(), table, fds, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPoll_canceled(t *testing.T) {
	table := newTestTable(t, newMockObject())
	fds := []FD{{FD: 0, Events: In}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := Poll(ctx, table, fds, -1)
	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n, err = Poll(ctx, table, fds, -1)
	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoll_slotsExhausted(t *testing.T) {
	table := newTestTable(t, newMockObject(), newMockObject())
	p, err := NewPoller(table, WithMaxSlots(1))
	require.NoError(t, err)

	fds := []FD{{FD: 0, Events: In}, {FD: 1, Events: In}}
	n, err := p.Poll(context.Background(), fds, 0)
	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, fdtable.ErrNoCapacity)
}

func TestPoll_prepareErrors(t *testing.T) {
	closed := newMockObject()
	closed.prepareErr = fdtable.ErrClosed
	unsupported := newMockObject()
	unsupported.prepareErr = fdtable.ErrNotSupported
	table := newTestTable(t, closed, unsupported)

	fds := []FD{{FD: 0, Events: In}}
	n, err := Poll(context.Background(), table, fds, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, Nval, fds[0].REvents)

	fds = []FD{{FD: 1, Events: In}}
	_, err = Poll(context.Background(), table, fds, 0)
	assert.ErrorIs(t, err, fdtable.ErrNotSupported)
}

func TestPoll_closedDuringUpdate(t *testing.T) {
	obj := newMockObject()
	obj.updateErr = fdtable.ErrClosed
	table := newTestTable(t, obj)

	fds := []FD{{FD: 0, Events: Out}}
	n, err := Poll(context.Background(), table, fds, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, Nval, fds[0].REvents)
}

func TestRequest_names(t *testing.T) {
	assert.Equal(t, `poll_prepare`, (&PrepareRequest{}).RequestName())
	assert.Equal(t, `poll_update`, (&UpdateRequest{}).RequestName())
}

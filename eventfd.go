package eventfd

import (
	"sync"

	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/go-eventfd/poll"
)

type (
	// object is a single pool slot. All fields other than the signals are
	// protected by guard, which is only ever held for O(1) critical sections.
	object struct {
		// done is closed when the current incarnation is closed
		done        chan struct{}
		readSignal  signal
		writeSignal signal
		counter     uint64
		// gen identifies the incarnation, incremented on close
		gen   uint64
		id    int
		flags Flags
		guard sync.Mutex
	}

	// EventFD is a handle to an event object, allocated from a Pool. Methods
	// are safe for concurrent use. Once closed, all methods fail with
	// ErrClosed, even if the underlying pool slot has since been reused.
	EventFD struct {
		pool *Pool
		obj  *object
		done <-chan struct{}
		gen  uint64
	}
)

var (
	_ fdtable.Object        = (*EventFD)(nil)
	_ fdtable.ContextReader = (*EventFD)(nil)
	_ fdtable.ContextWriter = (*EventFD)(nil)
)

// ID returns the index of the pool slot backing the object.
func (e *EventFD) ID() int {
	return e.obj.id
}

// Flags returns the recognized mode flags (see FlagsSet).
func (e *EventFD) Flags() (Flags, error) {
	o := e.obj
	o.guard.Lock()
	defer o.guard.Unlock()
	if o.gen != e.gen {
		return 0, ErrClosed
	}
	return o.flags & FlagsSet, nil
}

// SetFlags replaces the mode flags, failing with ErrInvalidArgument if flags
// contains any bit outside FlagsSet. The change applies to subsequent
// protocol steps, including those of goroutines that are already blocked.
func (e *EventFD) SetFlags(flags Flags) error {
	if err := validateFlags(flags); err != nil {
		return err
	}
	o := e.obj
	o.guard.Lock()
	defer o.guard.Unlock()
	if o.gen != e.gen {
		return ErrClosed
	}
	o.flags = flagInUse | flags
	return nil
}

// Close releases the object back to its pool, waking any blocked readers and
// writers, which fail with ErrClosed. Closing an already closed object
// returns ErrClosed.
func (e *EventFD) Close() error {
	return e.pool.release(e)
}

// Ioctl implements fdtable.Object, dispatching control requests.
//
// Supported requests are fdtable.GetFlagsRequest (returns the flags),
// fdtable.SetFlagsRequest, fdtable.CloseRequest, *poll.PrepareRequest and
// *poll.UpdateRequest. Any other request fails with ErrNotSupported.
func (e *EventFD) Ioctl(req fdtable.Request) (int, error) {
	switch req := req.(type) {
	case fdtable.GetFlagsRequest:
		flags, err := e.Flags()
		if err != nil {
			return -1, err
		}
		return int(flags), nil

	case fdtable.SetFlagsRequest:
		if req.Flags < 0 || uint64(req.Flags) > uint64(^Flags(0)) {
			return -1, ErrInvalidArgument
		}
		if err := e.SetFlags(Flags(req.Flags)); err != nil {
			return -1, err
		}
		return 0, nil

	case fdtable.CloseRequest:
		if err := e.Close(); err != nil {
			return -1, err
		}
		return 0, nil

	case *poll.PrepareRequest:
		if err := e.PollPrepare(req.FD.Events, req.Slots); err != nil {
			return -1, err
		}
		return 0, nil

	case *poll.UpdateRequest:
		if e.closed() {
			return -1, ErrClosed
		}
		req.FD.REvents |= e.PollUpdate(req.FD.Events, req.Slots)
		return 0, nil

	default:
		return -1, ErrNotSupported
	}
}

func (e *EventFD) closed() bool {
	return isClosed(e.done)
}

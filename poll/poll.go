package poll

import (
	"context"
	"errors"
	"time"

	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/logiface"
)

type (
	// PrepareRequest is dispatched to each polled object before waiting.
	// Objects bind zero or more entries of Slots, for the interest in
	// FD.Events. Objects that cannot be polled should return
	// fdtable.ErrNotSupported.
	PrepareRequest struct {
		FD    *FD
		Slots *Slots
	}

	// UpdateRequest is dispatched to each polled object after the wait
	// resolves. The Slots cursor is positioned at the first entry the object
	// bound during the prepare phase. Objects OR their readiness into
	// FD.REvents.
	UpdateRequest struct {
		FD    *FD
		Slots *Slots
	}

	// Poller multiplexes readiness over the objects of a table. A Poller is
	// safe for concurrent use, each call to Poll uses its own wait slots.
	Poller struct {
		table    *fdtable.Table
		logger   *logiface.Logger[logiface.Event]
		maxSlots int
	}
)

var (
	_ fdtable.Request = (*PrepareRequest)(nil)
	_ fdtable.Request = (*UpdateRequest)(nil)
)

func (*PrepareRequest) RequestName() string { return `poll_prepare` }

func (*UpdateRequest) RequestName() string { return `poll_update` }

// NewPoller creates a Poller for the given table. Panics if table is nil.
// Invalid options are reported as errors.
func NewPoller(table *fdtable.Table, opts ...Option) (*Poller, error) {
	if table == nil {
		panic(`poll: nil table`)
	}
	cfg, err := resolvePollerOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Poller{
		table:    table,
		logger:   cfg.logger,
		maxSlots: cfg.maxSlots,
	}, nil
}

// Poll is a convenience wrapper, using a Poller with default options.
func Poll(ctx context.Context, table *fdtable.Table, fds []FD, timeout time.Duration) (int, error) {
	p, err := NewPoller(table)
	if err != nil {
		return -1, err
	}
	return p.Poll(ctx, fds, timeout)
}

// Poll waits until at least one of fds reports readiness, the timeout
// elapses, or ctx is canceled. A negative timeout waits indefinitely, and a
// zero timeout does not wait. Entries with a negative descriptor are ignored.
// Descriptors not bound to an object report Nval.
//
// The number of entries with a non-zero REvents is returned. Errors from
// the prepare phase (e.g. fdtable.ErrNoCapacity, if the wait slots were
// exhausted) abort the call.
func (p *Poller) Poll(ctx context.Context, fds []FD, timeout time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	slots := NewSlots(p.maxSlots)
	starts := make([]int, len(fds))
	final := timeout == 0

	for {
		slots.Reset()
		for i := range fds {
			fds[i].REvents = 0
			starts[i] = slots.Len()
			if fds[i].FD < 0 {
				continue
			}
			_, err := p.table.Ioctl(fds[i].FD, &PrepareRequest{FD: &fds[i], Slots: slots})
			switch {
			case err == nil:
			case errors.Is(err, fdtable.ErrBadDescriptor), errors.Is(err, fdtable.ErrClosed):
				fds[i].REvents = Nval
			default:
				p.logger.Warning().
					Int(`fd`, fds[i].FD).
					Int(`slots`, slots.Cap()).
					Err(err).
					Log(`poll: prepare failed`)
				return -1, err
			}
		}

		slots.resolve()

		n := p.update(fds, slots, starts)
		if n != 0 || final {
			return n, nil
		}

		p.logger.Trace().
			Int(`fds`, len(fds)).
			Int(`slots`, slots.Len()).
			Log(`poll: waiting`)

		timedOut, err := slots.wait(ctx, expired)
		if err != nil {
			return -1, err
		}
		// one more pass after expiry, to pick up anything that raced it
		final = timedOut
	}
}

func (p *Poller) update(fds []FD, slots *Slots, starts []int) (n int) {
	for i := range fds {
		if fds[i].FD < 0 {
			continue
		}
		if fds[i].REvents&Nval == 0 {
			slots.Seek(starts[i])
			_, err := p.table.Ioctl(fds[i].FD, &UpdateRequest{FD: &fds[i], Slots: slots})
			if err != nil {
				// closed since the prepare phase
				fds[i].REvents = Nval
			}
		}
		if fds[i].REvents != 0 {
			n++
		}
	}
	return n
}

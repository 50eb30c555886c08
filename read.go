package eventfd

import (
	"context"
	"encoding/binary"
	"time"
)

// Read implements io.Reader, see ReadValue. The value is written to the
// first 8 bytes of p, in host byte order. Fails with ErrInvalidArgument if
// len(p) < 8.
func (e *EventFD) Read(p []byte) (int, error) {
	return e.ReadContext(context.Background(), p)
}

// ReadContext is Read, with a context that bounds any blocking wait.
func (e *EventFD) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) < 8 {
		return 0, wrapError(`read buffer too small`, ErrInvalidArgument)
	}
	v, err := e.ReadValue(ctx)
	if err != nil {
		return 0, err
	}
	binary.NativeEndian.PutUint64(p, v)
	return 8, nil
}

// ReadValue consumes from the counter, returning the amount consumed. In
// semaphore mode it consumes exactly 1, otherwise it drains the counter.
//
// While the counter is zero, ReadValue blocks until a write, ctx is
// canceled, or the object is closed. In non-blocking mode it fails with
// ErrWouldBlock instead.
func (e *EventFD) ReadValue(ctx context.Context) (uint64, error) {
	var (
		o       = e.obj
		metrics = e.pool.metrics
	)
	for {
		// never trust a wake from a previous iteration or call, the counter
		// is re-checked under the guard regardless
		o.readSignal.tryTake(e.done)

		o.guard.Lock()
		if o.gen != e.gen {
			o.guard.Unlock()
			return 0, ErrClosed
		}

		if o.counter == 0 {
			nonBlock := o.flags&FlagNonBlock != 0
			o.guard.Unlock()

			if nonBlock {
				metrics.wouldBlock()
				return 0, ErrWouldBlock
			}

			e.pool.logger.Trace().
				Int(`id`, o.id).
				Log(`eventfd: read waiting`)

			var start time.Time
			if metrics != nil {
				metrics.ReadWaits.Add(1)
				start = time.Now()
			}
			err := o.readSignal.take(ctx, e.done)
			if metrics != nil {
				metrics.WaitLatency.Record(time.Since(start))
			}
			if err != nil {
				return 0, err
			}
			continue
		}

		count := o.counter
		if o.flags&FlagSemaphore != 0 {
			count = 1
		}
		o.counter -= count
		if o.counter != 0 {
			// let other blocked readers re-check
			o.readSignal.give(e.done)
		}
		o.guard.Unlock()

		// outside the guard, so a woken writer doesn't immediately block on it
		o.writeSignal.give(e.done)

		if metrics != nil {
			metrics.Reads.Add(1)
		}
		return count, nil
	}
}

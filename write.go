package eventfd

import (
	"context"
	"encoding/binary"
	"math"
	"time"
)

// Write implements io.Writer, see WriteValue. The value is read from the
// first 8 bytes of p, in host byte order. Fails with ErrInvalidArgument if
// len(p) < 8.
func (e *EventFD) Write(p []byte) (int, error) {
	return e.WriteContext(context.Background(), p)
}

// WriteContext is Write, with a context that bounds any blocking wait.
func (e *EventFD) WriteContext(ctx context.Context, p []byte) (int, error) {
	if len(p) < 8 {
		return 0, wrapError(`write buffer too small`, ErrInvalidArgument)
	}
	if err := e.WriteValue(ctx, binary.NativeEndian.Uint64(p)); err != nil {
		return 0, err
	}
	return 8, nil
}

// WriteValue adds v to the counter, waking blocked readers. Writing
// math.MaxUint64 fails with ErrInvalidArgument, and writing 0 is a no-op.
//
// If the addition would make the counter reach or exceed math.MaxUint64,
// WriteValue blocks until a read makes room, ctx is canceled, or the object
// is closed. In non-blocking mode it fails with ErrWouldBlock instead.
func (e *EventFD) WriteValue(ctx context.Context, v uint64) error {
	if e.closed() {
		return ErrClosed
	}
	if v == math.MaxUint64 {
		return wrapError(`write of reserved value`, ErrInvalidArgument)
	}
	if v == 0 {
		return nil
	}

	var (
		o       = e.obj
		metrics = e.pool.metrics
	)
	for {
		o.guard.Lock()
		if o.gen != e.gen {
			o.guard.Unlock()
			return ErrClosed
		}

		if math.MaxUint64-v <= o.counter {
			nonBlock := o.flags&FlagNonBlock != 0
			o.guard.Unlock()

			if nonBlock {
				metrics.wouldBlock()
				return ErrWouldBlock
			}

			e.pool.logger.Trace().
				Int(`id`, o.id).
				Uint64(`value`, v).
				Log(`eventfd: write waiting for room`)

			var start time.Time
			if metrics != nil {
				metrics.WriteWaits.Add(1)
				start = time.Now()
			}
			err := o.writeSignal.take(ctx, e.done)
			if metrics != nil {
				metrics.WaitLatency.Record(time.Since(start))
			}
			if err != nil {
				return err
			}
			continue
		}

		o.counter += v
		if o.counter < math.MaxUint64-1 {
			// let other blocked writers re-check
			o.writeSignal.give(e.done)
		}
		o.guard.Unlock()

		o.readSignal.give(e.done)

		if metrics != nil {
			metrics.Writes.Add(1)
		}
		return nil
	}
}

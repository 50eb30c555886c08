package eventfd

import (
	"github.com/joeycumines/go-eventfd/poll"
)

// PollPrepare implements the prepare phase of the poll protocol. For read
// interest (poll.In), it binds one entry of slots to the read wake signal,
// observing it without consuming it, failing with ErrNoCapacity if slots is
// full. Write interest (poll.Out) needs no entry, as the object always
// accepts a write attempt.
//
// The counter is neither read nor modified.
func (e *EventFD) PollPrepare(events poll.Events, slots *poll.Slots) error {
	if events&poll.In == 0 {
		if e.closed() {
			return ErrClosed
		}
		return nil
	}
	ready, ok := e.obj.readSignal.ready(e.done)
	if !ok {
		return ErrClosed
	}
	if err := slots.Bind(ready); err != nil {
		e.pool.logger.Warning().
			Int(`id`, e.obj.id).
			Int(`slots`, slots.Cap()).
			Log(`eventfd: poll wait slots exhausted`)
		return err
	}
	return nil
}

// PollUpdate implements the update phase of the poll protocol, returning the
// events to report. Write interest is always reported. Read interest consumes
// the entry at the cursor of slots, reporting poll.In if it resolved ready.
//
// Write readiness does not guarantee that a write will not block, only that
// an attempt may be made.
func (e *EventFD) PollUpdate(events poll.Events, slots *poll.Slots) (revents poll.Events) {
	if events&poll.Out != 0 {
		revents |= poll.Out
	}
	if events&poll.In != 0 {
		if slot, ok := slots.Next(); ok && slot.State() == poll.Ready {
			revents |= poll.In
		}
	}
	return revents
}

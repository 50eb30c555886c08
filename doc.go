// Package eventfd provides a counter-based event notification object,
// compatible with the Linux eventfd model, implemented entirely in Go.
//
// # Overview
//
// An [EventFD] holds an unsigned 64-bit counter. Writers add to the counter,
// waking blocked readers. Readers drain the counter (or, in semaphore mode,
// decrement it by one), blocking while it is zero. Adding a value that would
// make the counter reach [math.MaxUint64] blocks (or fails with
// [ErrWouldBlock], in non-blocking mode) until a reader makes room.
//
// Objects are allocated from a fixed capacity [Pool], and may be bound to a
// descriptor of an [fdtable.Table] (see [Pool.Eventfd]), where they can be
// multiplexed alongside other objects, using package poll.
//
// # Wake Signals
//
// Each object carries two binary wake signals, one for readers and one for
// writers. The signals are only hints: the counter, which is protected by a
// mutex, is the single source of truth, and every woken goroutine re-checks it
// before acting. The signals are never held across a blocking wait, and
// waiters tolerate being woken for a condition another goroutine already
// consumed. No ordering is guaranteed among multiple blocked readers, or among
// multiple blocked writers.
//
// # Closing
//
// Closing an object wakes every goroutine blocked on it, which then fail with
// [ErrClosed]. The slot is returned to the pool immediately, and may be
// reused. Handles ([EventFD] values) from before the close remain closed.
//
// # Byte Order
//
// The io.Reader and io.Writer implementations move exactly 8 bytes per call,
// in host byte order, like the kernel implementation.
package eventfd

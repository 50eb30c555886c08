package eventfd

import (
	"fmt"
	"syscall"

	"github.com/joeycumines/go-eventfd/fdtable"
)

// Standard errors, aliased from package fdtable, so they may be matched with
// errors.Is regardless of the layer that returned them.
var (
	ErrInvalidArgument = fdtable.ErrInvalidArgument
	ErrWouldBlock      = fdtable.ErrWouldBlock
	ErrNoCapacity      = fdtable.ErrNoCapacity
	ErrNotSupported    = fdtable.ErrNotSupported
	ErrBadDescriptor   = fdtable.ErrBadDescriptor
	ErrClosed          = fdtable.ErrClosed
)

// Errno maps err to the equivalent error number, see [fdtable.Errno].
func Errno(err error) syscall.Errno {
	return fdtable.Errno(err)
}

// wrapError wraps cause with a message, in a way that satisfies errors.Is.
func wrapError(message string, cause error) error {
	return fmt.Errorf("eventfd: %s: %w", message, cause)
}

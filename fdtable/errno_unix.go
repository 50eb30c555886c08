//go:build unix

package fdtable

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// Errno maps err to the equivalent error number, returning 0 for a nil error.
// Errors that wrap a [syscall.Errno] resolve to that value. Unrecognized
// errors map to EIO.
func Errno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return unix.EINVAL
	case errors.Is(err, ErrWouldBlock):
		return unix.EAGAIN
	case errors.Is(err, ErrNoCapacity):
		return unix.ENOMEM
	case errors.Is(err, ErrNotSupported):
		return unix.EOPNOTSUPP
	case errors.Is(err, ErrBadDescriptor), errors.Is(err, ErrClosed):
		return unix.EBADF
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return unix.EIO
}

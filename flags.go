package eventfd

import (
	"strconv"
	"strings"
)

// Flags models the mode flags of an EventFD.
type Flags uint32

const (
	// FlagSemaphore causes each read to consume exactly 1 from the counter,
	// instead of draining it. The value matches the Linux EFD_SEMAPHORE.
	FlagSemaphore Flags = 0x1

	// FlagNonBlock causes reads and writes to fail with ErrWouldBlock rather
	// than suspending the caller. The value matches the Linux EFD_NONBLOCK.
	FlagNonBlock Flags = 0x800

	// FlagsSet is the set of recognized (settable) flags.
	FlagsSet = FlagSemaphore | FlagNonBlock

	// flagInUse marks an allocated pool slot, it is never visible to callers.
	flagInUse Flags = 1 << 31
)

// String returns the set flags joined by '|', e.g. "Semaphore|NonBlock", or
// "0".
func (f Flags) String() string {
	if f == 0 {
		return `0`
	}
	var parts []string
	if f&FlagSemaphore != 0 {
		parts = append(parts, `Semaphore`)
	}
	if f&FlagNonBlock != 0 {
		parts = append(parts, `NonBlock`)
	}
	if f&flagInUse != 0 {
		parts = append(parts, `InUse`)
	}
	if rest := f &^ (FlagsSet | flagInUse); rest != 0 {
		parts = append(parts, `0x`+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, `|`)
}

func validateFlags(f Flags) error {
	if f&^FlagsSet != 0 {
		return wrapError(`unrecognized flags 0x`+strconv.FormatUint(uint64(f&^FlagsSet), 16), ErrInvalidArgument)
	}
	return nil
}

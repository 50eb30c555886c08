// Package poll implements a readiness multiplexer over objects bound to a
// [fdtable.Table], using a two phase protocol. Before waiting, each object
// receives a [PrepareRequest], and may bind entries of a bounded [Slots] array
// to channels that become ready when the object might be. After the wait
// resolves, each object receives an [UpdateRequest], and reports its readiness
// in [FD.REvents].
//
// Objects are never locked across the wait, and the bound channels are only
// hints: objects are expected to re-validate their state, e.g. when reading.
package poll

import (
	"strconv"
	"strings"
)

// Events is a readiness bit mask, using the POSIX poll values.
type Events uint16

const (
	// In indicates data may be read without blocking.
	In Events = 0x1
	// Pri indicates priority data may be read.
	Pri Events = 0x2
	// Out indicates data may be written without blocking.
	Out Events = 0x4
	// Err indicates an error condition (output only).
	Err Events = 0x8
	// Hup indicates a hangup (output only).
	Hup Events = 0x10
	// Nval indicates an invalid descriptor (output only).
	Nval Events = 0x20
)

var eventNames = [...]struct {
	name string
	bit  Events
}{
	{`In`, In},
	{`Pri`, Pri},
	{`Out`, Out},
	{`Err`, Err},
	{`Hup`, Hup},
	{`Nval`, Nval},
}

// String returns the set bits joined by '|', e.g. "In|Out", or "0".
func (e Events) String() string {
	if e == 0 {
		return `0`
	}
	var b strings.Builder
	for _, v := range eventNames {
		if e&v.bit != 0 {
			if b.Len() != 0 {
				b.WriteByte('|')
			}
			b.WriteString(v.name)
			e &^= v.bit
		}
	}
	if e != 0 {
		if b.Len() != 0 {
			b.WriteByte('|')
		}
		b.WriteString(`0x`)
		b.WriteString(strconv.FormatUint(uint64(e), 16))
	}
	return b.String()
}

// FD models a single descriptor to poll. Events is the interest mask, and
// REvents is populated by Poll.
type FD struct {
	FD      int
	Events  Events
	REvents Events
}

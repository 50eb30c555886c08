// Package fdtable implements a small, fixed capacity descriptor table, which
// maps integer handles to objects implementing a common capability interface
// ([Object]). Control operations are dispatched as typed [Request] values,
// rather than untyped variadic arguments.
//
// The package also defines the error taxonomy shared by the objects bound to
// a table, see [ErrInvalidArgument] and friends, and [Errno], which maps those
// errors to the equivalent numeric error code.
package fdtable

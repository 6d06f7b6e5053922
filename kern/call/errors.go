package call

import "errors"

var (
	// ErrBadClass indicates a raw function path with an undeclared class.
	ErrBadClass = errors.New("call: unknown kernel call class")

	// ErrBadFnID indicates a raw function path whose id is outside the
	// class's declared function table.
	ErrBadFnID = errors.New("call: unknown function id for class")

	// ErrTooManyArgs indicates a kernel call with more arguments than the
	// trap frame can carry.
	ErrTooManyArgs = errors.New("call: kernel call takes at most 6 arguments")
)

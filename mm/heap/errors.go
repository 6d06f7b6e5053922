package heap

import "errors"

var (
	// ErrNoMemory indicates that no slab could satisfy the request and the
	// memory supplier is exhausted.
	ErrNoMemory = errors.New("heap: out of memory")

	// ErrNilSupplier indicates that a Heap was constructed without a memory
	// supplier callback.
	ErrNilSupplier = errors.New("heap: nil memory supplier")

	// ErrBadSize indicates a zero-byte or otherwise unservable request size.
	ErrBadSize = errors.New("heap: bad allocation size")
)

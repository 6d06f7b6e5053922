// Package heap implements the kernel and userspace memory allocator.
//
// # Overview
//
// The allocator is built from three layers:
//
//   - Slab: a fixed-block-size sub-allocator serving one size class in O(1).
//     Free blocks form an intrusive singly linked list threaded through the
//     blocks themselves, so the slab has zero per-block bookkeeping overhead.
//   - Heap: a multiplexer that picks the right Slab for a request by size
//     class, grows slabs from a MemorySupplier callback on miss, and serves
//     oversized requests straight from the supplier.
//   - LockedLazyHeap: a mutex-guarded, lazily initialized Heap usable as the
//     process-wide allocator before any other subsystem is up. Both the lock
//     primitive and the Heap are constructed on first touch, exactly once,
//     no matter how many threads race the first access.
//
// # Size Classes
//
// The Heap maintains one Slab per block size:
//
//	16, 32, 64, 128, 256, 512, 1024, 2048, 4096 bytes
//
// Requests above the largest class take the large-block path: the supplier
// hands out a page-rounded region, and freed large blocks are cached on an
// exact-fit free list for reuse.
//
// # Ownership
//
// A block is at any moment exactly one of: owned by an allocation, or linked
// into exactly one free list. Deallocate makes no attempt to validate that a
// pointer was produced by Allocate; handing it anything else is undefined
// behavior, as is deallocating the same block twice.
//
// # Failure Semantics
//
// Allocation failure is an ordinary error return (ErrNoMemory), never a
// panic: the caller decides whether to retry, escalate, or fail the request.
// Deallocating a nil pointer is a usage bug and panics.
//
// # Thread Safety
//
// Slab and Heap are not thread-safe; LockedLazyHeap serializes every
// operation through its lock and is safe for concurrent use.
package heap

package heap

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// LockFactory produces the mutual-exclusion primitive guarding the lazy
// heap. It runs exactly once, on first touch. The factory may fail when the
// primitive needs a kernel object that is not available yet; that failure is
// fatal, since an unlocked allocator cannot be used concurrently.
type LockFactory func() (sync.Locker, error)

// Lazy heap lifecycle states.
const (
	stateUninitialized uint32 = iota
	stateInitializing
	stateReady
)

// LockedLazyHeap is a Heap behind a lazily constructed lock, usable as the
// process-wide allocator from the very first allocation.
//
// Construction does no work at all: the lock factory and the Heap
// constructor run on first touch, exactly once, no matter how many threads
// race that first access. There is no way back to the uninitialized state;
// the instance lives for the process lifetime.
type LockedLazyHeap struct {
	state atomic.Uint32

	factory  LockFactory
	supplier MemorySupplier

	mu   sync.Locker
	heap *Heap
}

// HostLockFactory is the LockFactory for hosted builds, where a plain
// in-process mutex needs no kernel object and cannot fail.
func HostLockFactory() (sync.Locker, error) {
	return &sync.Mutex{}, nil
}

// NewLockedLazy binds a LockedLazyHeap to its lock factory and memory
// supplier without initializing anything.
func NewLockedLazy(factory LockFactory, supplier MemorySupplier) *LockedLazyHeap {
	return &LockedLazyHeap{factory: factory, supplier: supplier}
}

// init performs the one-shot construction. The winner of the CAS builds lock
// and heap; everyone else spins until the ready state is visible.
func (l *LockedLazyHeap) init() {
	for {
		switch l.state.Load() {
		case stateReady:
			return
		case stateUninitialized:
			if !l.state.CompareAndSwap(stateUninitialized, stateInitializing) {
				continue
			}
			mu, err := l.factory()
			if err != nil {
				panic(fmt.Sprintf("heap: lock factory failed: %v", err))
			}
			h, err := New(l.supplier)
			if err != nil {
				panic(fmt.Sprintf("heap: lazy heap construction failed: %v", err))
			}
			l.mu = mu
			l.heap = h
			l.state.Store(stateReady)
			return
		default:
			runtime.Gosched()
		}
	}
}

// ForceInit forces the one-time initialization without allocating.
func (l *LockedLazyHeap) ForceInit() {
	l.init()
}

// Allocate returns a block of at least size bytes aligned to align, or nil
// with ErrNoMemory on exhaustion.
func (l *LockedLazyHeap) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Allocate(size, align)
}

// Deallocate returns a block to the heap. Deallocating nil panics.
func (l *LockedLazyHeap) Deallocate(ptr unsafe.Pointer, size, align uintptr) {
	if ptr == nil {
		panic("heap: deallocate of nil pointer")
	}
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heap.Deallocate(ptr, size, align)
}

// MemoryFromSupplier returns the total bytes obtained from the supplier.
// Stats are diagnostic: a concurrent mutator can make them stale by the time
// the caller looks at them.
func (l *LockedLazyHeap) MemoryFromSupplier() uintptr {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.MemoryFromSupplier()
}

// MemoryInUse returns the bytes currently allocated.
func (l *LockedLazyHeap) MemoryInUse() uintptr {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.MemoryInUse()
}

// MemoryAvailable returns the bytes available without a new supplier call.
func (l *LockedLazyHeap) MemoryAvailable() uintptr {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.MemoryAvailable()
}

package heap

import (
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/MeetiX-OS/meetixos/mm/addr"
)

// testRegion carves a page-aligned region of the given size out of a plain
// byte slice and pins the slice for the duration of the test. The slab code
// only ever treats the region as raw bytes, so a Go-managed buffer works as
// backing store in tests.
func testRegion(t *testing.T, size uintptr) uintptr {
	t.Helper()
	buf := make([]byte, size+addr.PageSize)
	t.Cleanup(func() { runtime.KeepAlive(buf) })
	base := uintptr(unsafe.Pointer(&buf[0]))
	return (base + addr.PageSize - 1) &^ uintptr(addr.PageSize-1)
}

// stubSupplier is a counting MemorySupplier serving page-aligned regions
// from test-owned buffers until its budget runs out.
type stubSupplier struct {
	t *testing.T

	mu     sync.Mutex
	calls  int
	budget int // number of grants before exhaustion; <0 means unlimited
}

func newStubSupplier(t *testing.T, budget int) *stubSupplier {
	return &stubSupplier{t: t, budget: budget}
}

func (s *stubSupplier) supply(requested uintptr) (uintptr, uintptr, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budget == 0 {
		return 0, 0, false
	}
	if s.budget > 0 {
		s.budget--
	}
	s.calls++
	size := roundToPage(requested)
	return testRegion(s.t, size), size, true
}

func (s *stubSupplier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

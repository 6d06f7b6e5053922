//go:build !unix

// Package sysmem supplies page-aligned backing memory for the heap.
package sysmem

import (
	"sync"
	"unsafe"

	"github.com/MeetiX-OS/meetixos/mm/addr"
	"github.com/MeetiX-OS/meetixos/mm/heap"
)

var (
	mu     sync.Mutex
	arenas [][]byte
)

// Supplier returns a heap.MemorySupplier carving page-aligned regions out
// of ordinary heap buffers when mmap is not available. The buffers are
// pinned in a registry for the process lifetime, matching the leak-for-life
// contract of the mmap path.
func Supplier() heap.MemorySupplier {
	return func(requested uintptr) (uintptr, uintptr, bool) {
		size := roundToPage(requested)
		buf := make([]byte, size+addr.PageSize)
		mu.Lock()
		arenas = append(arenas, buf)
		mu.Unlock()
		base := uintptr(unsafe.Pointer(&buf[0]))
		aligned := (base + addr.PageSize - 1) &^ uintptr(addr.PageSize-1)
		return aligned, size, true
	}
}

func roundToPage(size uintptr) uintptr {
	if size == 0 {
		size = 1
	}
	return (size + addr.PageSize - 1) &^ uintptr(addr.PageSize-1)
}

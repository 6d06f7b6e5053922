//go:build unix

// Package sysmem supplies page-aligned backing memory for the heap.
package sysmem

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/MeetiX-OS/meetixos/mm/addr"
	"github.com/MeetiX-OS/meetixos/mm/heap"
)

var (
	mu       sync.Mutex
	mappings [][]byte
)

// Supplier returns a heap.MemorySupplier serving anonymous mmap regions.
//
// Granted regions are deliberately leaked for the process lifetime: the
// heap pools freed memory instead of returning it to the system, so the
// mapping must stay alive as long as the process does.
func Supplier() heap.MemorySupplier {
	return func(requested uintptr) (uintptr, uintptr, bool) {
		size := roundToPage(requested)
		data, err := unix.Mmap(-1, 0, int(size),
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return 0, 0, false
		}
		mu.Lock()
		mappings = append(mappings, data)
		mu.Unlock()
		return uintptr(unsafe.Pointer(&data[0])), size, true
	}
}

func roundToPage(size uintptr) uintptr {
	if size == 0 {
		size = 1
	}
	return (size + addr.PageSize - 1) &^ uintptr(addr.PageSize-1)
}

package heap

import (
	"unsafe"

	"github.com/MeetiX-OS/meetixos/mm/addr"
)

// MemorySupplier hands backing memory to the Heap.
//
// It is called with the minimum number of bytes needed and must return a
// page-aligned region of at least that size, or ok=false on exhaustion.
type MemorySupplier func(requestedSize uintptr) (base uintptr, size uintptr, ok bool)

// blockSizes is the slab ladder, one slab per size class.
var blockSizes = [...]uintptr{16, 32, 64, 128, 256, 512, 1024, 2048, 4096}

// maxSlabSize is the largest request served by a slab; anything bigger takes
// the large-block path.
const maxSlabSize = 4096

// largeBlock is a freed large allocation cached for reuse, reinterpreted as
// an exact-fit free-list node.
type largeBlock struct {
	next *largeBlock
	size uintptr
}

// Heap multiplexes allocation requests across the slab ladder and a
// large-block path, growing from the MemorySupplier on miss.
//
// Heap is not thread-safe; see LockedLazyHeap.
type Heap struct {
	slabs    [len(blockSizes)]*Slab
	large    *largeBlock
	supplier MemorySupplier

	fromSupplier uintptr
	inUse        uintptr
}

// New constructs a Heap over the given supplier and primes it with one
// bootstrap region.
func New(supplier MemorySupplier) (*Heap, error) {
	if supplier == nil {
		return nil, ErrNilSupplier
	}
	h := &Heap{supplier: supplier}
	for i, size := range blockSizes {
		h.slabs[i] = NewSlab(size)
	}
	// First chunk primes the middle of the ladder; the other classes grow on
	// demand.
	if !h.extendSlab(h.slabIndex(64), addr.PageSize) {
		return nil, ErrNoMemory
	}
	return h, nil
}

// slabIndex returns the index of the smallest class whose blocks fit size.
// size must be <= maxSlabSize.
func (h *Heap) slabIndex(size uintptr) int {
	for i, blockSize := range blockSizes {
		if size <= blockSize {
			return i
		}
	}
	panic("heap: no slab class for size")
}

// extendSlab grows the slab at index idx by at least want bytes from the
// supplier, routing any region remainder down the ladder.
func (h *Heap) extendSlab(idx int, want uintptr) bool {
	if min := h.slabs[idx].PreferredExtendSize(); want < min {
		want = min
	}
	base, size, ok := h.supplier(want)
	if !ok {
		return false
	}
	h.fromSupplier += size
	rem, remSize := h.slabs[idx].AddRegion(base, size)
	h.routeRemainder(idx, rem, remSize)
	return true
}

// routeRemainder threads a region tail too small for class idx into the
// next class down that can still carve blocks from it.
func (h *Heap) routeRemainder(idx int, rem, remSize uintptr) {
	for i := idx - 1; i >= 0 && remSize >= blockSizes[0]; i-- {
		if remSize < blockSizes[i] {
			continue
		}
		rem, remSize = h.slabs[i].AddRegion(rem, remSize)
	}
}

// Allocate returns a block of at least size bytes aligned to align.
//
// align must be a power of two no larger than the page size. Exhaustion is
// reported as ErrNoMemory, never a panic.
func (h *Heap) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, ErrBadSize
	}
	if align > size {
		size = align
	}
	if size > maxSlabSize {
		return h.allocateLarge(size)
	}

	idx := h.slabIndex(size)
	if ptr := h.slabs[idx].Allocate(); ptr != nil {
		h.inUse += blockSizes[idx]
		return ptr, nil
	}
	if !h.extendSlab(idx, size) {
		return nil, ErrNoMemory
	}
	ptr := h.slabs[idx].Allocate()
	if ptr == nil {
		return nil, ErrNoMemory
	}
	h.inUse += blockSizes[idx]
	return ptr, nil
}

// Deallocate returns a block obtained from Allocate with the same size and
// alignment. Deallocating nil is a usage bug and panics.
func (h *Heap) Deallocate(ptr unsafe.Pointer, size, align uintptr) {
	if ptr == nil {
		panic("heap: deallocate of nil pointer")
	}
	if align > size {
		size = align
	}
	if size > maxSlabSize {
		h.deallocateLarge(ptr, size)
		return
	}
	idx := h.slabIndex(size)
	h.slabs[idx].Deallocate(ptr)
	h.inUse -= blockSizes[idx]
}

// allocateLarge serves a request above the slab ladder: first from the
// exact-fit large free list, then straight from the supplier.
func (h *Heap) allocateLarge(size uintptr) (unsafe.Pointer, error) {
	rounded := roundToPage(size)

	prev := (*largeBlock)(nil)
	for blk := h.large; blk != nil; prev, blk = blk, blk.next {
		if blk.size != rounded {
			continue
		}
		if prev == nil {
			h.large = blk.next
		} else {
			prev.next = blk.next
		}
		blk.next = nil
		h.inUse += rounded
		return unsafe.Pointer(blk), nil
	}

	base, got, ok := h.supplier(rounded)
	if !ok {
		return nil, ErrNoMemory
	}
	h.fromSupplier += got
	// The supplier may over-deliver; the excess tail joins the slab ladder.
	if got > rounded {
		h.routeRemainder(len(blockSizes), base+rounded, got-rounded)
	}
	h.inUse += rounded
	return unsafe.Pointer(base), nil
}

// deallocateLarge caches a large block on the exact-fit free list.
func (h *Heap) deallocateLarge(ptr unsafe.Pointer, size uintptr) {
	rounded := roundToPage(size)
	blk := (*largeBlock)(ptr)
	blk.size = rounded
	blk.next = h.large
	h.large = blk
	h.inUse -= rounded
}

// MemoryFromSupplier returns the total bytes obtained from the supplier.
func (h *Heap) MemoryFromSupplier() uintptr { return h.fromSupplier }

// MemoryInUse returns the bytes currently allocated.
func (h *Heap) MemoryInUse() uintptr { return h.inUse }

// MemoryAvailable returns the bytes obtained from the supplier and not
// currently allocated.
func (h *Heap) MemoryAvailable() uintptr { return h.fromSupplier - h.inUse }

func roundToPage(size uintptr) uintptr {
	return (size + addr.PageSize - 1) &^ uintptr(addr.PageSize-1)
}

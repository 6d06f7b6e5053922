package heap

import "unsafe"

// slabBlock is a free block reinterpreted as a list node. The node lives
// inside the block itself, so the block size can never be smaller than one
// pointer.
type slabBlock struct {
	next *slabBlock
}

// Slab is a single-block-size allocator serving requests in O(1).
//
// It never obtains memory on its own: regions are handed to it via AddRegion
// and it simply runs dry when they are exhausted. The zero block count state
// is normal, not an error.
type Slab struct {
	first     *slabBlock
	count     int
	blockSize uintptr
}

// minBlockSize is the space needed to thread the free-list link through an
// unused block.
const minBlockSize = unsafe.Sizeof(uintptr(0))

// NewSlab constructs an empty Slab for the given block size.
// The block size must hold at least one pointer.
func NewSlab(blockSize uintptr) *Slab {
	if blockSize < minBlockSize {
		panic("heap: slab block size smaller than a free-list link")
	}
	return &Slab{blockSize: blockSize}
}

// BlockSize returns the fixed allocation unit of this slab.
func (s *Slab) BlockSize() uintptr { return s.blockSize }

// PreferredExtendSize is the region size requested from the memory supplier
// when the slab runs dry and no explicit size is given. Four blocks per
// extension amortizes the supplier round-trip.
func (s *Slab) PreferredExtendSize() uintptr { return s.blockSize * 4 }

// FreeCount returns the number of blocks currently on the free list.
func (s *Slab) FreeCount() int { return s.count }

// IsEmpty reports whether the free list is empty.
func (s *Slab) IsEmpty() bool { return s.count == 0 }

// Allocate pops the head of the free list.
//
// Returns nil when the slab is dry; the caller falls back elsewhere (the Heap
// grows the slab or fails the request). The layout decision was already made
// by the caller: a slab hands out whole blocks, nothing else.
func (s *Slab) Allocate() unsafe.Pointer {
	if s.first == nil {
		return nil
	}
	block := s.first
	s.first = block.next
	block.next = nil
	s.count--
	return unsafe.Pointer(block)
}

// Deallocate pushes ptr back onto the free list.
//
// ptr must be a block previously returned by Allocate on this slab and not
// already freed; the slab cannot detect a violation.
func (s *Slab) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		panic("heap: slab deallocate of nil pointer")
	}
	block := (*slabBlock)(ptr)
	block.next = s.first
	s.first = block
	s.count++
}

// AddRegion threads the blocks of the byte region [base, base+size) onto the
// free list and returns the tail that did not fit a whole block.
//
// Blocks are threaded in reverse address order so the lowest address is
// popped first after an extension. The returned remainder (remSize may be
// zero) stays owned by the caller, which routes it to a smaller size class.
func (s *Slab) AddRegion(base, size uintptr) (rem uintptr, remSize uintptr) {
	if base == 0 {
		panic("heap: slab region at address zero")
	}
	remSize = size % s.blockSize
	usable := size - remSize
	for i := usable / s.blockSize; i > 0; i-- {
		s.Deallocate(unsafe.Pointer(base + (i-1)*s.blockSize))
	}
	if remSize == 0 {
		return 0, 0
	}
	return base + usable, remSize
}

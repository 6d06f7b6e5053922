// Package frame implements the physical page-frame allocator.
//
// Frames are named by their PhysAddr, not dereferenced: in a hosted build
// physical memory is not mapped, so the free list is kept as an index rather
// than threaded through the frames themselves.
package frame

import (
	"fmt"

	"github.com/MeetiX-OS/meetixos/mm/addr"
)

// Allocator hands out fixed-size physical frames in O(1), LIFO.
//
// Allocator is not thread-safe; the frame allocator is owned by the physical
// memory manager, which serializes access.
type Allocator struct {
	frameSize uintptr
	free      []addr.PhysAddr
}

// NewAllocator constructs an empty frame allocator.
// frameSize must be a non-zero multiple of the page size.
func NewAllocator(frameSize uintptr) *Allocator {
	if frameSize == 0 || frameSize%addr.PageSize != 0 {
		panic(fmt.Sprintf("frame: frame size %d not a page multiple", frameSize))
	}
	return &Allocator{frameSize: frameSize}
}

// FrameSize returns the allocation unit.
func (a *Allocator) FrameSize() uintptr { return a.frameSize }

// FreeFrames returns the number of frames currently free.
func (a *Allocator) FreeFrames() int { return len(a.free) }

// FreeRange seeds the allocator with every whole frame in [start, end).
// start is rounded up and end down to the frame boundary.
func (a *Allocator) FreeRange(start, end addr.PhysAddr) {
	first := (start.Raw() + a.frameSize - 1) &^ (a.frameSize - 1)
	last := end.Raw() &^ (a.frameSize - 1)
	for raw := first; raw < last; raw += a.frameSize {
		a.free = append(a.free, addr.PhysFromRaw(raw))
	}
}

// AllocFrame pops a free frame. Reports not-ok on exhaustion.
func (a *Allocator) AllocFrame() (addr.PhysAddr, bool) {
	if len(a.free) == 0 {
		return 0, false
	}
	f := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	return f, true
}

// FreeFrame returns a frame to the allocator.
// An address off the frame grid is a usage bug and panics.
func (a *Allocator) FreeFrame(f addr.PhysAddr) {
	if f.Raw()%a.frameSize != 0 {
		panic(fmt.Sprintf("frame: free of unaligned frame %s", f))
	}
	a.free = append(a.free, f)
}

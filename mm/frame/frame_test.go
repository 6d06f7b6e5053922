package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetiX-OS/meetixos/mm/addr"
)

func TestFreeRangeSeedsWholeFrames(t *testing.T) {
	a := NewAllocator(addr.PageSize)

	// [0x1234, 0x6000) holds whole frames 0x2000..0x5000.
	a.FreeRange(addr.PhysFromRaw(0x1234), addr.PhysFromRaw(0x6000))
	assert.Equal(t, 4, a.FreeFrames())
}

func TestAllocFreeRoundTrip(t *testing.T) {
	a := NewAllocator(addr.PageSize)
	a.FreeRange(addr.PhysFromRaw(0x10000), addr.PhysFromRaw(0x14000))
	require.Equal(t, 4, a.FreeFrames())

	f, ok := a.AllocFrame()
	require.True(t, ok)
	assert.True(t, f.IsAligned())
	assert.Equal(t, 3, a.FreeFrames())

	a.FreeFrame(f)
	assert.Equal(t, 4, a.FreeFrames())

	// LIFO reuse.
	again, ok := a.AllocFrame()
	require.True(t, ok)
	assert.Equal(t, f, again)
}

func TestAllocUntilExhaustion(t *testing.T) {
	a := NewAllocator(addr.PageSize)
	a.FreeRange(addr.PhysFromRaw(0x4000), addr.PhysFromRaw(0x8000))

	seen := map[addr.PhysAddr]bool{}
	for {
		f, ok := a.AllocFrame()
		if !ok {
			break
		}
		require.False(t, seen[f], "frame %s handed out twice", f)
		seen[f] = true
	}
	assert.Len(t, seen, 4)

	_, ok := a.AllocFrame()
	assert.False(t, ok)
}

func TestFreeUnalignedPanics(t *testing.T) {
	a := NewAllocator(addr.PageSize)
	assert.Panics(t, func() { a.FreeFrame(addr.PhysFromRaw(0x4008)) })
}

func TestNewAllocatorValidatesFrameSize(t *testing.T) {
	assert.Panics(t, func() { NewAllocator(0) })
	assert.Panics(t, func() { NewAllocator(addr.PageSize + 1) })
	assert.NotNil(t, NewAllocator(4*addr.PageSize))
}

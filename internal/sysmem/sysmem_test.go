package sysmem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetiX-OS/meetixos/mm/addr"
	"github.com/MeetiX-OS/meetixos/mm/heap"
)

func TestSupplierGrantsAlignedRegions(t *testing.T) {
	supply := Supplier()

	base, size, ok := supply(100)
	require.True(t, ok)
	assert.Zero(t, base%addr.PageSize, "base not page-aligned")
	assert.Equal(t, uintptr(addr.PageSize), size, "100 bytes rounds to one page")

	base2, size2, ok := supply(addr.PageSize + 1)
	require.True(t, ok)
	assert.Zero(t, base2%addr.PageSize)
	assert.Equal(t, uintptr(2*addr.PageSize), size2)
	assert.NotEqual(t, base, base2)
}

func TestSupplierMemoryIsWritable(t *testing.T) {
	supply := Supplier()
	base, size, ok := supply(addr.PageSize)
	require.True(t, ok)

	region := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	region[0] = 0xAA
	region[size-1] = 0x55
	assert.Equal(t, byte(0xAA), region[0])
	assert.Equal(t, byte(0x55), region[size-1])
}

func TestSupplierBacksAHeap(t *testing.T) {
	h, err := heap.New(Supplier())
	require.NoError(t, err)

	ptr, err := h.Allocate(256, 8)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	// The block is real memory: scribble over the whole of it.
	block := unsafe.Slice((*byte)(ptr), 256)
	for i := range block {
		block[i] = byte(i)
	}
	h.Deallocate(ptr, 256, 8)
}

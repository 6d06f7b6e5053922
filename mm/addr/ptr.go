package addr

import "unsafe"

// VirtFromPtr converts a host pointer into a virtual address.
func VirtFromPtr(p unsafe.Pointer) VirtAddr {
	return VirtFromRaw(uintptr(p))
}

// Pointer returns the address as an untyped pointer.
//
// The caller guarantees the address actually maps readable (and, for writes,
// writable) memory for as long as the pointer is used.
func (va VirtAddr) Pointer() unsafe.Pointer {
	return unsafe.Pointer(va.Raw())
}

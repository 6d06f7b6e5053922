// Package addr provides typed virtual and physical addresses.
//
// Raw machine words are never used directly by the memory managers: they are
// first converted into VirtAddr or PhysAddr, which guarantee an
// architecture-valid bit pattern. Conversion canonicalizes, it never fails.
package addr

import "fmt"

const (
	// PageSize is the hardware page granularity.
	PageSize = 4096

	// virtAddrBits is the implemented virtual address width. Bits 63:47 of a
	// canonical address all equal bit 47.
	virtAddrBits = 48

	// physAddrBits is the implemented physical address width. High bits are
	// masked off, there is no sign extension for physical addresses.
	physAddrBits = 52

	wordBits = 64
)

const physAddrMask = 1<<physAddrBits - 1

// MaxVirtAddr is the largest canonical virtual address.
const MaxVirtAddr = VirtAddr(^uintptr(0))

// MaxPhysAddr is the largest representable physical address.
const MaxPhysAddr = PhysAddr(physAddrMask)

// VirtAddr is a canonical hardware virtual address.
//
// The zero value is the null address. VirtAddr is a plain value: copy it
// freely, compare it with the ordinary comparison operators.
type VirtAddr uintptr

// PhysAddr is a hardware physical address, truncated to the implemented
// physical address width.
type PhysAddr uintptr

// VirtFromRaw canonicalizes raw into a virtual address by sign-extending
// from the highest implemented bit: shift the unimplemented bits out, then
// arithmetic-shift back in.
func VirtFromRaw(raw uintptr) VirtAddr {
	const shift = wordBits - virtAddrBits
	return VirtAddr(uintptr(int64(raw<<shift) >> shift))
}

// PhysFromRaw truncates raw to the implemented physical address width.
func PhysFromRaw(raw uintptr) PhysAddr {
	return PhysAddr(raw & physAddrMask)
}

// Raw returns the address as a machine word.
func (va VirtAddr) Raw() uintptr { return uintptr(va) }

// IsNull reports whether the address is zero.
func (va VirtAddr) IsNull() bool { return va == 0 }

// IsCanonical reports whether raw already is a canonical virtual address.
func IsCanonical(raw uintptr) bool {
	return VirtFromRaw(raw).Raw() == raw
}

// AlignDown rounds the address down to the previous page boundary.
func (va VirtAddr) AlignDown() VirtAddr {
	return VirtFromRaw(va.Raw() &^ uintptr(PageSize-1))
}

// AlignUp rounds the address up to the next page boundary.
//
// The result is reported as not-ok when the rounding would overflow past the
// top of the canonical range.
func (va VirtAddr) AlignUp() (VirtAddr, bool) {
	down := va.Raw() &^ uintptr(PageSize - 1)
	if down == va.Raw() {
		return va, true
	}
	return va.Offset(PageSize - int(va.Raw()-down))
}

// Offset steps the address by count bytes, either direction.
//
// Stepping that would wrap the machine word or leave the canonical range
// reports not-ok instead of producing a wrapped address.
func (va VirtAddr) Offset(count int) (VirtAddr, bool) {
	raw := va.Raw()
	if count >= 0 {
		next := raw + uintptr(count)
		if next < raw || !IsCanonical(next) {
			return 0, false
		}
		return VirtAddr(next), true
	}
	dec := uintptr(-count)
	if dec > raw {
		return 0, false
	}
	next := raw - dec
	if !IsCanonical(next) {
		return 0, false
	}
	return VirtAddr(next), true
}

// StepsBetween returns the byte distance from va to end.
// Reports not-ok when end precedes va.
func (va VirtAddr) StepsBetween(end VirtAddr) (uintptr, bool) {
	if end < va {
		return 0, false
	}
	return end.Raw() - va.Raw(), true
}

func (va VirtAddr) String() string {
	return fmt.Sprintf("0x%016x", uintptr(va))
}

// Raw returns the address as a machine word.
func (pa PhysAddr) Raw() uintptr { return uintptr(pa) }

// IsNull reports whether the address is zero.
func (pa PhysAddr) IsNull() bool { return pa == 0 }

// AlignDown rounds the address down to the previous page boundary.
func (pa PhysAddr) AlignDown() PhysAddr {
	return PhysAddr(pa.Raw() &^ uintptr(PageSize-1))
}

// IsAligned reports whether the address sits on a page boundary.
func (pa PhysAddr) IsAligned() bool {
	return pa.Raw()%PageSize == 0
}

// Offset steps the address by count bytes, either direction.
// Stepping outside [0, MaxPhysAddr] reports not-ok.
func (pa PhysAddr) Offset(count int) (PhysAddr, bool) {
	raw := pa.Raw()
	if count >= 0 {
		next := raw + uintptr(count)
		if next < raw || next > physAddrMask {
			return 0, false
		}
		return PhysAddr(next), true
	}
	dec := uintptr(-count)
	if dec > raw {
		return 0, false
	}
	return PhysAddr(raw - dec), true
}

func (pa PhysAddr) String() string {
	return fmt.Sprintf("0x%016x", uintptr(pa))
}

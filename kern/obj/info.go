package obj

// Info is the kernel-side bookkeeping snapshot of an object.
type Info struct {
	Type     Type
	RefCount uint32
	Named    bool
	DataSize uint32
}

// Info crosses the call boundary packed into the non-negative result word:
// bits 0..7 type, 8..31 reference count, 32 named flag, 33..63 data size.
const (
	infoRefShift   = 8
	infoRefMask    = 1<<24 - 1
	infoNamedShift = 32
	infoSizeShift  = 33
	infoSizeMask   = 1<<31 - 1
)

// Word packs the snapshot for the call-result word.
func (i Info) Word() uintptr {
	w := uintptr(i.Type)
	w |= uintptr(i.RefCount&infoRefMask) << infoRefShift
	if i.Named {
		w |= 1 << infoNamedShift
	}
	w |= uintptr(i.DataSize&infoSizeMask) << infoSizeShift
	return w
}

// InfoFromWord unpacks a call-result word.
func InfoFromWord(w uintptr) Info {
	return Info{
		Type:     Type(w & 0xFF),
		RefCount: uint32(w >> infoRefShift & infoRefMask),
		Named:    w>>infoNamedShift&1 == 1,
		DataSize: uint32(w >> infoSizeShift & infoSizeMask),
	}
}

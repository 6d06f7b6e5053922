package obj

import "fmt"

// Type identifies the concrete resource behind a capability handle.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeFile
	TypeDir
	TypeLink
	TypeMMap
	TypeIpcChan
	TypeOsRawMutex
	TypeKrnIterator
)

var typeNames = [...]string{
	"Unknown", "File", "Dir", "Link", "MMap", "IpcChan", "OsRawMutex",
	"KrnIterator",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Permanent reports whether objects of this type persist in the namespace
// until explicitly unlinked with DropName. Transient types live only while
// referenced and are destroyed when the last reference drops.
func (t Type) Permanent() bool {
	switch t {
	case TypeFile, TypeDir, TypeLink, TypeOsRawMutex:
		return true
	default:
		return false
	}
}

// RecvMode selects how Recv waits for an incoming handle.
type RecvMode uint8

const (
	// RecvPoll fails immediately when no handle is pending.
	RecvPoll RecvMode = iota

	// RecvSync blocks until a handle arrives.
	RecvSync
)

func (m RecvMode) String() string {
	if m == RecvPoll {
		return "Poll"
	}
	return "Sync"
}

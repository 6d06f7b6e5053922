package obj

import "strings"

// UseFilter is a bitmask of resource-use events a watcher subscribes to.
//
// At most one live registration may claim each bit of an object: the kernel
// rejects a filter overlapping any other registration on the same object
// instead of merging them.
type UseFilter uint

const (
	UseOpening UseFilter = 1 << iota
	UseReadingData
	UseWritingData
	UseReadingInfo
	UseWritingInfo
	UseSeeking
	UseDropping
)

var useNames = []struct {
	bit  UseFilter
	name string
}{
	{UseOpening, "Opening"},
	{UseReadingData, "ReadingData"},
	{UseWritingData, "WritingData"},
	{UseReadingInfo, "ReadingInfo"},
	{UseWritingInfo, "WritingInfo"},
	{UseSeeking, "Seeking"},
	{UseDropping, "Dropping"},
}

func (f UseFilter) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, u := range useNames {
		if f&u.bit != 0 {
			parts = append(parts, u.name)
		}
	}
	return strings.Join(parts, "|")
}

// Overlaps reports whether the two filters share any bit.
func (f UseFilter) Overlaps(other UseFilter) bool { return f&other != 0 }

// UseInstant is one occurrence of a watched use on an object.
type UseInstant struct {
	Use    UseFilter
	Object uint32
}

// WatchFn handles UseInstants for a registration. It runs in a
// kernel-spawned thread context; returning true re-arms the watch for the
// next matching event, false deregisters it.
type WatchFn func(UseInstant) bool

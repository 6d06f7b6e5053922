package call

// MaxArgs is the number of word-sized arguments a kernel call can carry in
// the trap frame.
const MaxArgs = 6

// Dispatcher carries a kernel call to whatever implements the kernel side:
// the real trap on a MeetiX target, an in-process table in tests and tools.
//
// handle is the capability handle the call operates on (zero for calls that
// take none). A failed call returns a *OsError describing the failure; the
// result word is only meaningful on success.
type Dispatcher interface {
	Call(path FnPath, handle uint32, args ...uintptr) (uintptr, error)
}

// WatchCallback runs in a kernel-spawned thread context whenever a watched
// resource-use event fires. Returning true re-arms the watch for the next
// matching event, false deregisters it.
type WatchCallback func(use uint, handle uint32) bool

// WatchBinder is implemented by dispatchers that can carry watch
// registrations. Bind turns a callback into a token the Object/Watch call
// passes through the trap frame, taking the place of the thread-entry-data
// pointer of the native ABI.
type WatchBinder interface {
	BindWatch(cb WatchCallback) uintptr
}

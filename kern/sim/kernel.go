// Package sim provides an in-process kernel for the capability layer: an
// object table with reference counts, receive queues and watch
// registrations behind the call.Dispatcher boundary.
//
// The handle side never sees this package; it talks to a Dispatcher. That
// keeps the reference counts in a different "protection domain" than the
// handles, exactly like the real kernel: tests and tools exercise the full
// handle protocol without a MeetiX target underneath.
package sim

import (
	"sync"

	"github.com/MeetiX-OS/meetixos/kern/call"
	"github.com/MeetiX-OS/meetixos/kern/obj"
)

// object is one kernel-side resource table entry.
type object struct {
	typ      obj.Type
	refs     int
	name     string
	named    bool
	dataSize uint32
	watches  []*watch
}

type watch struct {
	filter obj.UseFilter
	cb     call.WatchCallback
}

// Kernel is the in-memory object table. All access is serialized by one
// mutex; callbacks run outside it on their own goroutines.
type Kernel struct {
	mu      sync.Mutex
	nextID  uint32
	objects map[uint32]*object
	queues  map[uint32][]uint32 // receiver task -> pending handle ids
	binds   map[uintptr]call.WatchCallback
	nextTok uintptr

	// wg tracks in-flight watch callback goroutines, for tests.
	wg sync.WaitGroup
}

// NewKernel constructs an empty kernel.
func NewKernel() *Kernel {
	return &Kernel{
		objects: map[uint32]*object{},
		queues:  map[uint32][]uint32{},
		binds:   map[uintptr]call.WatchCallback{},
	}
}

// Create installs a new object and returns its identifier with one
// reference held by the creator. A non-empty name marks the object as
// namespace-linked; only permanent types may carry a name.
func (k *Kernel) Create(t obj.Type, name string) uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if name != "" && !t.Permanent() {
		panic("sim: transient object types cannot be named")
	}
	k.nextID++
	id := k.nextID
	k.objects[id] = &object{typ: t, refs: 1, name: name, named: name != ""}
	return id
}

// Task returns a Dispatcher speaking for the given task. The task identity
// matters only for Recv, which pops that task's receive queue.
func (k *Kernel) Task(taskID uint32) call.Dispatcher {
	return &taskDispatcher{k: k, task: taskID}
}

// RefCount returns the live reference count of id, zero when dead.
func (k *Kernel) RefCount(id uint32) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if o := k.objects[id]; o != nil {
		return o.refs
	}
	return 0
}

// Alive reports whether id still names a resource.
func (k *Kernel) Alive(id uint32) bool {
	return k.RefCount(id) > 0
}

// Objects returns a snapshot of the table for inspection tools.
func (k *Kernel) Objects() map[uint32]obj.Info {
	k.mu.Lock()
	defer k.mu.Unlock()
	snap := make(map[uint32]obj.Info, len(k.objects))
	for id, o := range k.objects {
		snap[id] = obj.Info{
			Type: o.typ, RefCount: uint32(o.refs),
			Named: o.named, DataSize: o.dataSize,
		}
	}
	return snap
}

// PublishUse fires a resource-use event on id, running every matching watch
// callback on its own goroutine. Callbacks returning false are
// deregistered.
func (k *Kernel) PublishUse(id uint32, use obj.UseFilter) {
	k.mu.Lock()
	o := k.objects[id]
	if o == nil {
		k.mu.Unlock()
		return
	}
	var fired []*watch
	for _, w := range o.watches {
		if w.filter.Overlaps(use) {
			fired = append(fired, w)
		}
	}
	k.mu.Unlock()

	for _, w := range fired {
		w := w
		k.wg.Add(1)
		go func() {
			defer k.wg.Done()
			if !w.cb(uint(use), id) {
				k.removeWatch(id, w)
			}
		}()
	}
}

// Settle waits for in-flight watch callbacks to finish.
func (k *Kernel) Settle() {
	k.wg.Wait()
}

func (k *Kernel) removeWatch(id uint32, dead *watch) {
	k.mu.Lock()
	defer k.mu.Unlock()
	o := k.objects[id]
	if o == nil {
		return
	}
	for i, w := range o.watches {
		if w == dead {
			o.watches = append(o.watches[:i], o.watches[i+1:]...)
			return
		}
	}
}

// BindWatch implements call.WatchBinder.
func (k *Kernel) BindWatch(cb call.WatchCallback) uintptr {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.nextTok++
	k.binds[k.nextTok] = cb
	return k.nextTok
}

// releaseLocked drops one reference and reaps the object when nothing keeps
// it alive: transient objects die at zero references, permanent ones only
// once their name is gone too.
func (k *Kernel) releaseLocked(id uint32, o *object) {
	o.refs--
	if o.refs > 0 {
		return
	}
	if o.typ.Permanent() && o.named {
		// Unreferenced but still reachable by name: keep the entry, a new
		// open can revive the count.
		return
	}
	delete(k.objects, id)
}

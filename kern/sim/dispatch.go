package sim

import (
	"github.com/MeetiX-OS/meetixos/kern/call"
	"github.com/MeetiX-OS/meetixos/kern/obj"
)

// taskDispatcher is the call boundary as seen from one task.
type taskDispatcher struct {
	k    *Kernel
	task uint32
}

// BindWatch implements call.WatchBinder by registering with the kernel.
func (d *taskDispatcher) BindWatch(cb call.WatchCallback) uintptr {
	return d.k.BindWatch(cb)
}

// Call implements call.Dispatcher.
//
// The path is deliberately re-decoded from its raw encoding first: the real
// kernel sees nothing but the trap-frame words, so the simulator takes the
// same untrusted entry path.
func (d *taskDispatcher) Call(path call.FnPath, handle uint32, args ...uintptr) (uintptr, error) {
	if len(args) > call.MaxArgs {
		return 0, call.ErrTooManyArgs
	}
	rawClass, rawFn := path.Raw()
	decoded, err := call.PathFromRaw(uint(rawClass), uint(rawFn))
	if err != nil {
		return 0, call.NewOsError(call.ErrClassInvalidArg, path, handle, err.Error())
	}
	if decoded.Class() != call.ClassObject {
		return 0, call.NewOsError(call.ErrClassUnsupported, decoded, handle,
			"class not routed by the simulator")
	}
	return d.objectCall(decoded, handle, args)
}

func (d *taskDispatcher) objectCall(path call.FnPath, handle uint32, args []uintptr) (uintptr, error) {
	k := d.k
	k.mu.Lock()
	defer k.mu.Unlock()

	fail := func(class call.ErrorClass, msg string) (uintptr, error) {
		e := call.NewOsError(class, path, handle, msg)
		e.ProcID = d.task
		return 0, e
	}

	o := k.objects[handle]
	alive := o != nil && o.refs > 0

	switch call.ObjectFn(path.FnID()) {
	case call.ObjectIsValid:
		if !alive {
			return fail(call.ErrClassBadHandle, "object is not alive")
		}
		return 0, nil

	case call.ObjectAddRef:
		if !alive {
			return fail(call.ErrClassBadHandle, "add-ref on dead object")
		}
		o.refs++
		return 0, nil

	case call.ObjectDrop:
		if !alive {
			return fail(call.ErrClassBadHandle, "drop on dead object")
		}
		k.releaseLocked(handle, o)
		return 0, nil

	case call.ObjectDropName:
		if o == nil {
			return fail(call.ErrClassBadHandle, "drop-name on dead object")
		}
		if !o.typ.Permanent() || !o.named {
			return fail(call.ErrClassUnsupported, "object has no name to drop")
		}
		o.named = false
		o.name = ""
		if o.refs == 0 {
			delete(k.objects, handle)
		}
		return 0, nil

	case call.ObjectSend:
		if !alive {
			return fail(call.ErrClassBadHandle, "send of dead object")
		}
		if len(args) < 1 {
			return fail(call.ErrClassInvalidArg, "send needs a receiver task")
		}
		receiver := uint32(args[0])
		// A send is a share: the queued copy carries its own reference,
		// the sender keeps its handle untouched.
		o.refs++
		k.queues[receiver] = append(k.queues[receiver], handle)
		return 0, nil

	case call.ObjectRecv:
		if len(args) < 2 {
			return fail(call.ErrClassInvalidArg, "recv needs a type and a mode")
		}
		wantType := obj.Type(args[0])
		queue := k.queues[d.task]
		for i, id := range queue {
			pending := k.objects[id]
			if pending == nil || pending.typ != wantType {
				continue
			}
			k.queues[d.task] = append(queue[:i], queue[i+1:]...)
			return uintptr(id), nil
		}
		// RecvSync would park the task here; the simulator has no scheduler
		// to park on, so both modes answer like a poll.
		return fail(call.ErrClassNotFound, "no pending object of that type")

	case call.ObjectWatch:
		if !alive {
			return fail(call.ErrClassBadHandle, "watch on dead object")
		}
		if len(args) < 2 {
			return fail(call.ErrClassInvalidArg, "watch needs a filter and a callback token")
		}
		filter := obj.UseFilter(args[0])
		cb := k.binds[args[1]]
		if filter == 0 || cb == nil {
			return fail(call.ErrClassInvalidArg, "empty filter or unbound callback")
		}
		for _, w := range o.watches {
			if w.filter.Overlaps(filter) {
				return fail(call.ErrClassAlreadyRegistered,
					"filter overlaps a live registration")
			}
		}
		delete(k.binds, args[1])
		o.watches = append(o.watches, &watch{filter: filter, cb: cb})
		return 0, nil

	case call.ObjectInfo:
		if !alive {
			return fail(call.ErrClassBadHandle, "info on dead object")
		}
		return obj.Info{
			Type: o.typ, RefCount: uint32(o.refs),
			Named: o.named, DataSize: o.dataSize,
		}.Word(), nil

	case call.ObjectUpdateInfo:
		if !alive {
			return fail(call.ErrClassBadHandle, "update-info on dead object")
		}
		if len(args) < 1 {
			return fail(call.ErrClassInvalidArg, "update-info needs a data size")
		}
		o.dataSize = uint32(args[0])
		return 0, nil

	default:
		return fail(call.ErrClassUnsupported, "object function not routed")
	}
}

// Package obj implements the capability handle that takes the place of the
// classic file descriptor.
//
// An Obj names a kernel-resident resource through an opaque 32-bit
// identifier. The kernel reference-counts every live handle: Clone adds a
// reference, Drop releases one, Send shares a copy with another task. A raw
// bit copy of a handle is a capability-safety violation (it would
// double-release against the kernel's accounting); new handles come only
// from Clone, Recv or a creation call.
package obj

import (
	"github.com/MeetiX-OS/meetixos/kern/call"
)

// Obj is an opaque reference-counted handle to a kernel-managed resource.
//
// The zero raw identifier is the well-defined invalid sentinel and never
// names a live resource; a zero-value Obj is invalid and inert.
type Obj struct {
	raw  uint32
	disp call.Dispatcher
}

// FromRaw adopts a raw identifier handed over by the kernel (a creation or
// receive result). The caller is taking over the identifier's reference:
// no count is added.
func FromRaw(disp call.Dispatcher, raw uint32) Obj {
	return Obj{raw: raw, disp: disp}
}

// Raw returns the opaque identifier.
func (o *Obj) Raw() uint32 { return o.raw }

// IntoRaw releases ownership of the identifier to the caller and
// invalidates the handle, without touching the kernel reference count. The
// caller now owes the kernel the eventual drop.
func (o *Obj) IntoRaw() uint32 {
	raw := o.raw
	o.raw = 0
	return raw
}

// IsValid reports whether the handle references a still-live kernel object.
//
// A structurally non-zero identifier can still be dead (the kernel may have
// destroyed the resource), so this is a live kernel round-trip, not a local
// zero-check.
func (o *Obj) IsValid() bool {
	if o.raw == 0 {
		return false
	}
	_, err := o.disp.Call(call.ObjectPath(call.ObjectIsValid), o.raw)
	return err == nil
}

// Clone adds a kernel-side reference and returns a new handle to the same
// object. Changes through either handle affect the same kernel object.
//
// Cloning can fail when the kernel reference table is exhausted; that is a
// runtime condition, not a bug, so it surfaces as an error.
func (o *Obj) Clone() (Obj, error) {
	if _, err := o.disp.Call(call.ObjectPath(call.ObjectAddRef), o.raw); err != nil {
		return Obj{}, err
	}
	return Obj{raw: o.raw, disp: o.disp}, nil
}

// Drop releases this handle's reference and invalidates it.
//
// Dropping an invalid handle is a silent no-op: default-constructed and
// moved-from handles must not double-release. The kernel destroys transient
// objects when the count reaches zero; permanent objects additionally need
// DropName before they can go away.
func (o *Obj) Drop() {
	if !o.IsValid() {
		o.raw = 0
		return
	}
	_, _ = o.disp.Call(call.ObjectPath(call.ObjectDrop), o.raw)
	o.raw = 0
}

// DropName unlinks a permanent object from the namespace, irreversibly.
// Existing references keep working until they drop; no new handle can be
// opened by name afterwards.
func (o *Obj) DropName() error {
	_, err := o.disp.Call(call.ObjectPath(call.ObjectDropName), o.raw)
	return err
}

// Send shares this object with another task: the kernel adds a reference
// and queues the identifier on the receiver's receive queue. The sender
// keeps its own handle.
func (o *Obj) Send(receiverTask uint32) error {
	_, err := o.disp.Call(call.ObjectPath(call.ObjectSend), o.raw,
		uintptr(receiverTask))
	return err
}

// Recv adopts an incoming object of the given type. A previously live
// handle is released first, then overwritten with the received identifier.
func (o *Obj) Recv(t Type, mode RecvMode) error {
	res, err := o.disp.Call(call.ObjectPath(call.ObjectRecv), o.raw,
		uintptr(t), uintptr(mode))
	if err != nil {
		return err
	}
	o.Drop()
	o.raw = uint32(res)
	return nil
}

// Watch registers cb for every use matching filter.
//
// The kernel allows one registration per (object, filter) with no bit
// overlap against any other live registration on the object; an overlapping
// filter is an error, not a merge. The callback re-arms while it returns
// true.
func (o *Obj) Watch(filter UseFilter, cb WatchFn) error {
	if cb == nil {
		return ErrNilCallback
	}
	binder, ok := o.disp.(call.WatchBinder)
	if !ok {
		return ErrNoWatchSupport
	}
	token := binder.BindWatch(func(use uint, handle uint32) bool {
		return cb(UseInstant{Use: UseFilter(use), Object: handle})
	})
	_, err := o.disp.Call(call.ObjectPath(call.ObjectWatch), o.raw,
		uintptr(filter), token)
	return err
}

// Info returns the kernel's bookkeeping snapshot for this object.
func (o *Obj) Info() (Info, error) {
	res, err := o.disp.Call(call.ObjectPath(call.ObjectInfo), o.raw)
	if err != nil {
		return Info{}, err
	}
	return InfoFromWord(res), nil
}

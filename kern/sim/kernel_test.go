package sim

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetiX-OS/meetixos/kern/call"
	"github.com/MeetiX-OS/meetixos/kern/obj"
)

func TestCloneDropLifecycle(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeIpcChan, "")
	require.Equal(t, 1, k.RefCount(id))

	handle := obj.FromRaw(k.Task(1), id)
	dup, err := handle.Clone()
	require.NoError(t, err)
	assert.Equal(t, 2, k.RefCount(id))

	dup.Drop()
	assert.Equal(t, 1, k.RefCount(id))

	// Transient object: the last drop destroys it.
	handle.Drop()
	assert.False(t, k.Alive(id))
	assert.Equal(t, 0, k.RefCount(id))
}

func TestPermanentObjectSurvivesLastDrop(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeFile, "/boot/kernel")

	handle := obj.FromRaw(k.Task(1), id)
	handle.Drop()

	// Unreferenced but still linked by name: the table entry stays.
	assert.Equal(t, 0, k.RefCount(id))
	_, present := k.Objects()[id]
	assert.True(t, present)
}

func TestDropNameThenLastDropDestroys(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeOsRawMutex, "/run/lock")

	handle := obj.FromRaw(k.Task(1), id)
	require.NoError(t, handle.DropName())

	// Existing reference still works after the unlink.
	info, err := handle.Info()
	require.NoError(t, err)
	assert.False(t, info.Named)
	assert.True(t, handle.IsValid())

	handle.Drop()
	_, present := k.Objects()[id]
	assert.False(t, present)
}

func TestDropNameOnTransientFails(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeMMap, "")
	handle := obj.FromRaw(k.Task(1), id)

	err := handle.DropName()
	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassUnsupported, osErr.Class)
}

func TestSendIsAShare(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeIpcChan, "")

	sender := obj.FromRaw(k.Task(1), id)
	require.NoError(t, sender.Send(2))

	// The sender still owns its reference; the queued copy holds another.
	assert.True(t, sender.IsValid())
	assert.Equal(t, 2, k.RefCount(id))

	receiver := obj.FromRaw(k.Task(2), 0)
	require.NoError(t, receiver.Recv(obj.TypeIpcChan, obj.RecvPoll))
	assert.Equal(t, id, receiver.Raw())
	assert.Equal(t, 2, k.RefCount(id))

	receiver.Drop()
	sender.Drop()
	assert.False(t, k.Alive(id))
}

func TestRecvFiltersOnType(t *testing.T) {
	k := NewKernel()
	chanID := k.Create(obj.TypeIpcChan, "")
	mmapID := k.Create(obj.TypeMMap, "")

	sender := obj.FromRaw(k.Task(1), chanID)
	require.NoError(t, sender.Send(2))
	mmapSender := obj.FromRaw(k.Task(1), mmapID)
	require.NoError(t, mmapSender.Send(2))

	// The MMap is behind the IpcChan in the queue but matches first by type.
	receiver := obj.FromRaw(k.Task(2), 0)
	require.NoError(t, receiver.Recv(obj.TypeMMap, obj.RecvPoll))
	assert.Equal(t, mmapID, receiver.Raw())
}

func TestRecvEmptyQueueFails(t *testing.T) {
	k := NewKernel()
	receiver := obj.FromRaw(k.Task(9), 0)

	err := receiver.Recv(obj.TypeIpcChan, obj.RecvPoll)
	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassNotFound, osErr.Class)
}

func TestWatchFiresAndRearms(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeFile, "/etc/config")
	handle := obj.FromRaw(k.Task(1), id)

	var fired atomic.Int32
	err := handle.Watch(obj.UseWritingData, func(u obj.UseInstant) bool {
		fired.Add(1)
		return fired.Load() < 2 // deregister after the second event
	})
	require.NoError(t, err)

	k.PublishUse(id, obj.UseWritingData)
	k.Settle()
	assert.Equal(t, int32(1), fired.Load())

	// Non-matching uses do not fire.
	k.PublishUse(id, obj.UseReadingData)
	k.Settle()
	assert.Equal(t, int32(1), fired.Load())

	k.PublishUse(id, obj.UseWritingData)
	k.Settle()
	assert.Equal(t, int32(2), fired.Load())

	// The callback returned false on the second event: deregistered.
	k.PublishUse(id, obj.UseWritingData)
	k.Settle()
	assert.Equal(t, int32(2), fired.Load())
}

func TestWatchRejectsOverlappingFilter(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeFile, "/etc/config")
	handle := obj.FromRaw(k.Task(1), id)

	keep := func(obj.UseInstant) bool { return true }
	require.NoError(t, handle.Watch(obj.UseReadingData|obj.UseSeeking, keep))

	// Overlap on one bit is an error, not a merge.
	err := handle.Watch(obj.UseSeeking|obj.UseDropping, keep)
	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassAlreadyRegistered, osErr.Class)

	// A disjoint filter on the same object is fine.
	assert.NoError(t, handle.Watch(obj.UseOpening, keep))
}

func TestUpdateInfoAndSnapshot(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeFile, "/var/log/kern")
	handle := obj.FromRaw(k.Task(1), id)

	_, err := k.Task(1).Call(call.ObjectPath(call.ObjectUpdateInfo), id, 1234)
	require.NoError(t, err)

	info, err := handle.Info()
	require.NoError(t, err)
	assert.Equal(t, obj.TypeFile, info.Type)
	assert.Equal(t, uint32(1234), info.DataSize)
	assert.True(t, info.Named)

	snap := k.Objects()
	assert.Equal(t, info, snap[id])
}

func TestDispatcherRejectsForeignClasses(t *testing.T) {
	k := NewKernel()
	_, err := k.Task(1).Call(call.MutexPath(call.MutexLock), 1)

	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassUnsupported, osErr.Class)
}

func TestDispatcherLimitsArgs(t *testing.T) {
	k := NewKernel()
	args := make([]uintptr, call.MaxArgs+1)
	_, err := k.Task(1).Call(call.ObjectPath(call.ObjectInfo), 1, args...)
	assert.ErrorIs(t, err, call.ErrTooManyArgs)
}

func TestDeadHandleCallsFail(t *testing.T) {
	k := NewKernel()
	id := k.Create(obj.TypeIpcChan, "")
	handle := obj.FromRaw(k.Task(1), id)
	handle.Drop()

	ghost := obj.FromRaw(k.Task(1), id)
	assert.False(t, ghost.IsValid())

	_, err := ghost.Clone()
	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassBadHandle, osErr.Class)
}

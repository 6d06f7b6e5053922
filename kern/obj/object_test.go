package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetiX-OS/meetixos/kern/call"
)

// mockKernel is a minimal recording dispatcher: a refcount table plus a call
// log, enough to pin down exactly which calls a handle operation performs.
type mockKernel struct {
	refs  map[uint32]int
	calls []call.FnPath

	watchBinds  int
	failAddRef  bool
	lastWatchCB call.WatchCallback
}

func newMockKernel(ids ...uint32) *mockKernel {
	m := &mockKernel{refs: map[uint32]int{}}
	for _, id := range ids {
		m.refs[id] = 1
	}
	return m
}

func (m *mockKernel) Call(path call.FnPath, handle uint32, args ...uintptr) (uintptr, error) {
	m.calls = append(m.calls, path)
	if path.Class() != call.ClassObject {
		return 0, call.NewOsError(call.ErrClassUnsupported, path, handle, "not an object call")
	}
	alive := m.refs[handle] > 0
	switch call.ObjectFn(path.FnID()) {
	case call.ObjectIsValid:
		if !alive {
			return 0, call.NewOsError(call.ErrClassBadHandle, path, handle, "dead object")
		}
		return 0, nil
	case call.ObjectAddRef:
		if m.failAddRef {
			return 0, call.NewOsError(call.ErrClassExhaustedQuota, path, handle, "reference table full")
		}
		if !alive {
			return 0, call.NewOsError(call.ErrClassBadHandle, path, handle, "dead object")
		}
		m.refs[handle]++
		return 0, nil
	case call.ObjectDrop:
		if !alive {
			return 0, call.NewOsError(call.ErrClassBadHandle, path, handle, "dead object")
		}
		m.refs[handle]--
		return 0, nil
	case call.ObjectInfo:
		return Info{Type: TypeIpcChan, RefCount: uint32(m.refs[handle])}.Word(), nil
	case call.ObjectWatch:
		return 0, nil
	default:
		return 0, nil
	}
}

func (m *mockKernel) BindWatch(cb call.WatchCallback) uintptr {
	m.watchBinds++
	m.lastWatchCB = cb
	return uintptr(m.watchBinds)
}

func TestCloneIncrementsKernelRefCount(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)

	dup, err := o.Clone()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), dup.Raw())
	assert.Equal(t, 2, k.refs[7])
}

func TestCloneFailureIsRecoverable(t *testing.T) {
	k := newMockKernel(7)
	k.failAddRef = true
	o := FromRaw(k, 7)

	_, err := o.Clone()
	require.Error(t, err)

	var osErr *call.OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, call.ErrClassExhaustedQuota, osErr.Class)
	assert.Equal(t, 1, k.refs[7], "failed clone must not change the count")
}

func TestDropDecrementsKernelRefCount(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)

	o.Drop()
	assert.Equal(t, 0, k.refs[7])
	assert.False(t, o.IsValid())

	// The handle is now invalid locally: a second drop is a no-op.
	before := len(k.calls)
	o.Drop()
	assert.Equal(t, before, len(k.calls), "drop of invalid handle reached the kernel")
}

func TestDropOfZeroHandleDoesNoKernelCalls(t *testing.T) {
	k := newMockKernel()
	o := FromRaw(k, 0)

	o.Drop()
	assert.Empty(t, k.calls)
}

func TestIsValidAsksTheKernel(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)
	assert.True(t, o.IsValid())

	// Kill the object behind the handle's back: the id is still non-zero
	// but the kernel knows better.
	k.refs[7] = 0
	assert.False(t, o.IsValid())

	zero := FromRaw(k, 0)
	before := len(k.calls)
	assert.False(t, zero.IsValid())
	assert.Equal(t, before, len(k.calls), "zero handle must not round-trip")
}

func TestIntoRawSuppressesDrop(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)

	raw := o.IntoRaw()
	assert.Equal(t, uint32(7), raw)

	o.Drop()
	assert.Equal(t, 1, k.refs[7], "ownership was transferred, drop must not release")
}

func TestWatchBindsCallback(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)

	fired := 0
	err := o.Watch(UseReadingData|UseWritingData, func(u UseInstant) bool {
		fired++
		assert.Equal(t, uint32(7), u.Object)
		return false
	})
	require.NoError(t, err)
	require.Equal(t, 1, k.watchBinds)

	keep := k.lastWatchCB(uint(UseReadingData), 7)
	assert.False(t, keep)
	assert.Equal(t, 1, fired)
}

func TestWatchRejectsNilCallback(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)
	assert.ErrorIs(t, o.Watch(UseOpening, nil), ErrNilCallback)
}

func TestWatchNeedsBinder(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(struct{ call.Dispatcher }{k}, 7)
	err := o.Watch(UseOpening, func(UseInstant) bool { return true })
	assert.ErrorIs(t, err, ErrNoWatchSupport)
}

func TestInfoRoundTrip(t *testing.T) {
	k := newMockKernel(7)
	o := FromRaw(k, 7)

	info, err := o.Info()
	require.NoError(t, err)
	assert.Equal(t, TypeIpcChan, info.Type)
	assert.Equal(t, uint32(1), info.RefCount)
}

func TestInfoWordPacking(t *testing.T) {
	cases := []Info{
		{},
		{Type: TypeFile, RefCount: 1, Named: true},
		{Type: TypeMMap, RefCount: 1<<24 - 1, DataSize: 1<<31 - 1},
		{Type: TypeKrnIterator, RefCount: 42, Named: true, DataSize: 4096},
	}
	for _, info := range cases {
		assert.Equal(t, info, InfoFromWord(info.Word()), "%+v", info)
	}
}

func TestTypePermanence(t *testing.T) {
	permanent := []Type{TypeFile, TypeDir, TypeLink, TypeOsRawMutex}
	transient := []Type{TypeUnknown, TypeMMap, TypeIpcChan, TypeKrnIterator}
	for _, p := range permanent {
		assert.True(t, p.Permanent(), p.String())
	}
	for _, tr := range transient {
		assert.False(t, tr.Permanent(), tr.String())
	}
}

func TestUseFilterStrings(t *testing.T) {
	assert.Equal(t, "None", UseFilter(0).String())
	assert.Equal(t, "ReadingData|Seeking", (UseReadingData | UseSeeking).String())
	assert.True(t, (UseOpening | UseSeeking).Overlaps(UseSeeking))
	assert.False(t, UseOpening.Overlaps(UseDropping))
}

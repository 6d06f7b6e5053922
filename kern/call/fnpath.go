// Package call defines the kernel function-path addressing scheme and the
// dispatch boundary every kernel call goes through.
//
// A kernel call is addressed by a two-level path: the class selects the
// kernel routine table, the function id selects the entry within it. Both
// levels are bit-exact ABI values that round-trip through a flat
// (uint16, uint16) encoding. Decoding arrives from a system-call trap frame
// and therefore rejects unknown pairs with a typed error instead of
// panicking.
package call

import "fmt"

// FnPath addresses one kernel function as a (class, function id) pair.
//
// Construct paths with the per-class constructors or decode raw pairs with
// PathFromRaw; a zero FnPath is ObjConfig/ApplyConfig, which is a valid
// path, so FnPath carries no invalid sentinel.
type FnPath struct {
	class Class
	fn    uint16
}

// Class returns the raw call class.
func (p FnPath) Class() Class { return p.class }

// FnID returns the raw in-class function id.
func (p FnPath) FnID() uint16 { return p.fn }

// Raw returns the flat (class, function id) encoding.
func (p FnPath) Raw() (uint16, uint16) { return uint16(p.class), p.fn }

func (p FnPath) String() string {
	if p.class < classCount && int(p.fn) < len(fnNames[p.class]) {
		return fmt.Sprintf("KernFnPath::%s(%s)", p.class, fnNames[p.class][p.fn])
	}
	return fmt.Sprintf("KernFnPath::%d(%d)", uint16(p.class), p.fn)
}

// PathFromRaw reconstructs a FnPath from untrusted raw values.
//
// Unknown classes fail with ErrBadClass, ids past the class's declared
// table with ErrBadFnID. It never panics: the input typically comes from a
// trap frame and may be malformed or malicious.
func PathFromRaw(class, fnID uint) (FnPath, error) {
	if class >= uint(classCount) {
		return FnPath{}, fmt.Errorf("%w: %d", ErrBadClass, class)
	}
	c := Class(class)
	if fnID >= uint(FnCount(c)) {
		return FnPath{}, fmt.Errorf("%w: %s fn %d", ErrBadFnID, c, fnID)
	}
	return FnPath{class: c, fn: uint16(fnID)}, nil
}

// Per-class constructors. These are the only way (besides PathFromRaw) to
// build a FnPath, so every in-process path is valid by construction.

func ObjConfigPath(fn ObjConfigFn) FnPath { return FnPath{ClassObjConfig, uint16(fn)} }

func TaskConfigPath(fn TaskConfigFn) FnPath { return FnPath{ClassTaskConfig, uint16(fn)} }

func OsEntConfigPath(fn OsEntConfigFn) FnPath { return FnPath{ClassOsEntConfig, uint16(fn)} }

func ObjectPath(fn ObjectFn) FnPath { return FnPath{ClassObject, uint16(fn)} }

func TaskPath(fn TaskFn) FnPath { return FnPath{ClassTask, uint16(fn)} }

func DevicePath(fn DeviceFn) FnPath { return FnPath{ClassDevice, uint16(fn)} }

func DirPath(fn DirFn) FnPath { return FnPath{ClassDir, uint16(fn)} }

func FilePath(fn FileFn) FnPath { return FnPath{ClassFile, uint16(fn)} }

func IpcChanPath(fn IpcChanFn) FnPath { return FnPath{ClassIpcChan, uint16(fn)} }

func IteratorPath(fn IteratorFn) FnPath { return FnPath{ClassIterator, uint16(fn)} }

func LinkPath(fn LinkFn) FnPath { return FnPath{ClassLink, uint16(fn)} }

func MMapPath(fn MMapFn) FnPath { return FnPath{ClassMMap, uint16(fn)} }

func MutexPath(fn MutexFn) FnPath { return FnPath{ClassMutex, uint16(fn)} }

func TimeInstPath(fn TimeInstFn) FnPath { return FnPath{ClassTimeInst, uint16(fn)} }

func PathClassPath(fn PathFn) FnPath { return FnPath{ClassPath, uint16(fn)} }

func OsEntityPath(fn OsEntityFn) FnPath { return FnPath{ClassOsEntity, uint16(fn)} }

func OsUserPath(fn OsUserFn) FnPath { return FnPath{ClassOsUser, uint16(fn)} }

func OsGroupPath(fn OsGroupFn) FnPath { return FnPath{ClassOsGroup, uint16(fn)} }

func ProcPath(fn ProcFn) FnPath { return FnPath{ClassProc, uint16(fn)} }

func ThreadPath(fn ThreadFn) FnPath { return FnPath{ClassThread, uint16(fn)} }

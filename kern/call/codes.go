package call

// Class is the outer discriminant of a kernel function path: it selects the
// kernel-side routine table. The numbering is ABI: the kernel indexes its
// dispatch tables with these exact values.
type Class uint16

const (
	ClassObjConfig Class = iota
	ClassTaskConfig
	ClassOsEntConfig
	ClassObject
	ClassTask
	ClassDevice
	ClassDir
	ClassFile
	ClassIpcChan
	ClassIterator
	ClassLink
	ClassMMap
	ClassMutex
	ClassTimeInst
	ClassPath
	ClassOsEntity
	ClassOsUser
	ClassOsGroup
	ClassProc
	ClassThread

	classCount
)

// Function ids for the ObjConfig class.
type ObjConfigFn uint16

const (
	ObjConfigApplyConfig ObjConfigFn = iota
)

// Function ids for the TaskConfig class.
type TaskConfigFn uint16

const (
	TaskConfigCreateTask TaskConfigFn = iota
	TaskConfigInitFind
)

// Function ids for the OsEntConfig class.
type OsEntConfigFn uint16

const (
	OsEntConfigCreateEntity OsEntConfigFn = iota
	OsEntConfigInitFind
)

// Function ids for the Object class.
type ObjectFn uint16

const (
	ObjectAddRef ObjectFn = iota
	ObjectDrop
	ObjectDropName
	ObjectInfo
	ObjectUpdateInfo
	ObjectSend
	ObjectRecv
	ObjectWatch
	ObjectIsValid
)

// Function ids for the Task class.
type TaskFn uint16

const (
	TaskThis TaskFn = iota
	TaskTerminate
	TaskYield
	TaskIsAlive
)

// Function ids for the Device class.
type DeviceFn uint16

const (
	DeviceRead DeviceFn = iota
	DeviceWrite
	DeviceSetPos
	DeviceMapToMem
	DeviceIOSetup
)

// Function ids for the Dir class.
type DirFn uint16

const (
	DirInitIter DirFn = iota
)

// Function ids for the File class.
type FileFn uint16

const (
	FileReadData FileFn = iota
	FileWriteData
	FileCopy
	FileMove
	FileSetPos
	FileMapToMem
)

// Function ids for the IpcChan class.
type IpcChanFn uint16

const (
	IpcChanSend IpcChanFn = iota
	IpcChanRecv
)

// Function ids for the Iterator class.
type IteratorFn uint16

const (
	IteratorNextValue IteratorFn = iota
	IteratorSetBeginToEndPos
	IteratorSetEndToBeginPos
)

// Function ids for the Link class.
type LinkFn uint16

const (
	LinkDeref LinkFn = iota
	LinkReferTo
)

// Function ids for the MMap class.
type MMapFn uint16

const (
	MMapGetPtr MMapFn = iota
	MMapDropPtr
	MMapIsFile
	MMapIsDevice
)

// Function ids for the Mutex class.
type MutexFn uint16

const (
	MutexLock MutexFn = iota
	MutexTryLock
	MutexUnlock
	MutexIsLocked
)

// Function ids for the TimeInst class.
type TimeInstFn uint16

const (
	TimeInstNow TimeInstFn = iota
)

// Function ids for the Path class.
type PathFn uint16

const (
	PathExists PathFn = iota
)

// Function ids for the OsEntity class.
type OsEntityFn uint16

const (
	OsEntityName OsEntityFn = iota
)

// Function ids for the OsUser class.
type OsUserFn uint16

const (
	OsUserGroups OsUserFn = iota
)

// Function ids for the OsGroup class.
type OsGroupFn uint16

const (
	OsGroupAddUser OsGroupFn = iota
)

// Function ids for the Proc class.
type ProcFn uint16

const (
	ProcMainThread ProcFn = iota
	ProcMount
	ProcUnMount
)

// Function ids for the Thread class.
type ThreadFn uint16

const (
	ThreadWaitFor ThreadFn = iota
	ThreadAddCleaner
	ThreadCallbackReturn
	ThreadGetEntryData
)

// classNames maps every class to its display name, indexed by Class.
var classNames = [classCount]string{
	"ObjConfig", "TaskConfig", "OsEntConfig", "Object", "Task",
	"Device", "Dir", "File", "IpcChan", "Iterator",
	"Link", "MMap", "Mutex", "TimeInst", "Path",
	"OsEntity", "OsUser", "OsGroup", "Proc", "Thread",
}

// fnNames maps every declared (class, fn id) pair to the function name,
// indexed by Class. The slice length doubles as the per-class id bound used
// by the decode path.
var fnNames = [classCount][]string{
	ClassObjConfig:   {"ApplyConfig"},
	ClassTaskConfig:  {"CreateTask", "InitFind"},
	ClassOsEntConfig: {"CreateEntity", "InitFind"},
	ClassObject: {
		"AddRef", "Drop", "DropName", "Info", "UpdateInfo",
		"Send", "Recv", "Watch", "IsValid",
	},
	ClassTask:     {"This", "Terminate", "Yield", "IsAlive"},
	ClassDevice:   {"Read", "Write", "SetPos", "MapToMem", "IOSetup"},
	ClassDir:      {"InitIter"},
	ClassFile:     {"ReadData", "WriteData", "Copy", "Move", "SetPos", "MapToMem"},
	ClassIpcChan:  {"Send", "Recv"},
	ClassIterator: {"NextValue", "SetBeginToEndPos", "SetEndToBeginPos"},
	ClassLink:     {"Deref", "ReferTo"},
	ClassMMap:     {"GetPtr", "DropPtr", "IsFile", "IsDevice"},
	ClassMutex:    {"Lock", "TryLock", "Unlock", "IsLocked"},
	ClassTimeInst: {"Now"},
	ClassPath:     {"Exists"},
	ClassOsEntity: {"Name"},
	ClassOsUser:   {"Groups"},
	ClassOsGroup:  {"AddUser"},
	ClassProc:     {"MainThread", "Mount", "UnMount"},
	ClassThread:   {"WaitFor", "AddCleaner", "CallbackReturn", "GetEntryData"},
}

// NumClasses returns the number of declared call classes.
func NumClasses() int { return int(classCount) }

// FnCount returns the number of declared functions in class c, zero for an
// unknown class.
func FnCount(c Class) int {
	if c >= classCount {
		return 0
	}
	return len(fnNames[c])
}

func (c Class) String() string {
	if c >= classCount {
		return "Class(?)"
	}
	return classNames[c]
}

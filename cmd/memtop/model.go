package main

import (
	"math/rand"
	"time"
	"unsafe"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MeetiX-OS/meetixos/internal/sysmem"
	"github.com/MeetiX-OS/meetixos/kern/obj"
	"github.com/MeetiX-OS/meetixos/kern/sim"
	"github.com/MeetiX-OS/meetixos/mm/heap"
)

const tickInterval = 250 * time.Millisecond

// opsPerTick is how many allocator operations the workload performs per
// refresh. Small enough that a tick never blocks the UI.
const opsPerTick = 64

// liveBlock is one outstanding allocation owned by the workload.
type liveBlock struct {
	ptr   unsafe.Pointer
	size  uintptr
	align uintptr
}

// tickMsg drives the workload and the refresh cycle.
type tickMsg time.Time

// Model is the main application model
type Model struct {
	allocator *heap.LockedLazyHeap
	kernel    *sim.Kernel
	keys      KeyMap

	// Workload state
	rng      *rand.Rand
	live     []liveBlock
	handles  []obj.Obj
	channel  uint32
	allocOps uint64
	freeOps  uint64
	failures uint64
	ticks    uint64

	paused bool
	width  int
	height int
}

func newModel() Model {
	m := Model{
		allocator: heap.NewLockedLazy(heap.HostLockFactory, sysmem.Supplier()),
		kernel:    sim.NewKernel(),
		keys:      DefaultKeyMap(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	config := m.kernel.Create(obj.TypeFile, "/etc/meetix.conf")
	m.kernel.Create(obj.TypeDir, "/usr/bin")
	m.kernel.Create(obj.TypeOsRawMutex, "/run/mx.lock")
	m.channel = m.kernel.Create(obj.TypeIpcChan, "")

	m.handles = append(m.handles, obj.FromRaw(m.kernel.Task(1), config))
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step runs one tick worth of allocator and kernel traffic.
func (m *Model) step() {
	m.ticks++
	for i := 0; i < opsPerTick; i++ {
		if len(m.live) > 0 && m.rng.Intn(2) == 0 {
			idx := m.rng.Intn(len(m.live))
			b := m.live[idx]
			m.allocator.Deallocate(b.ptr, b.size, b.align)
			m.live[idx] = m.live[len(m.live)-1]
			m.live = m.live[:len(m.live)-1]
			m.freeOps++
			continue
		}

		size := workloadSizes[m.rng.Intn(len(workloadSizes))]
		ptr, err := m.allocator.Allocate(size, 8)
		if err != nil {
			m.failures++
			continue
		}
		m.live = append(m.live, liveBlock{ptr: ptr, size: size, align: 8})
		m.allocOps++
	}
	m.stepKernel()
}

// stepKernel clones and drops capability handles so the object table moves.
func (m *Model) stepKernel() {
	switch m.rng.Intn(4) {
	case 0:
		src := m.handles[m.rng.Intn(len(m.handles))]
		if dup, err := src.Clone(); err == nil {
			m.handles = append(m.handles, dup)
		}
	case 1:
		if len(m.handles) > 1 {
			idx := 1 + m.rng.Intn(len(m.handles)-1)
			m.handles[idx].Drop()
			m.handles[idx] = m.handles[len(m.handles)-1]
			m.handles = m.handles[:len(m.handles)-1]
		}
	case 2:
		sender := obj.FromRaw(m.kernel.Task(1), m.channel)
		sender.Send(2)
		receiver := obj.FromRaw(m.kernel.Task(2), 0)
		if err := receiver.Recv(obj.TypeIpcChan, obj.RecvPoll); err == nil {
			receiver.Drop()
		}
	default:
		m.kernel.PublishUse(m.channel, obj.UseReadingData)
	}
}

// workloadSizes mixes every slab class with a couple of large-path sizes.
var workloadSizes = []uintptr{16, 24, 32, 48, 64, 96, 128, 256, 512, 1024, 2048, 4096, 8192, 16384}

package paging

import (
	"fmt"
	"sync"
)

// An Engine owns the full state of the simulated memory system: the frame
// pool, the per-process page tables, the logical clock, and the cumulative
// metrics. A single mutex serializes all operations, so the engine can sit
// directly behind a network boundary. Every operation validates before it
// mutates; a failed call leaves the state untouched.
type Engine struct {
	sync.Mutex

	frameCapacity int
	frames        []*Frame
	processes     map[string]*Process

	algorithm    Algorithm
	victimFinder VictimFinder

	clock         int64
	totalAccesses int64
	pageHits      int64
	pageFaults    int64
}

// Init resets the engine: a fresh pool of frameCount empty frames, no
// processes, zeroed clock and metrics, and the given replacement policy.
// It can be called repeatedly; prior state is discarded. It returns the
// snapshot of the freshly reset state.
func (e *Engine) Init(frameCount int, algorithm string) (Snapshot, error) {
	e.Lock()
	defer e.Unlock()

	if frameCount <= 0 {
		return Snapshot{}, ConfigError{
			Reason: fmt.Sprintf("frame count must be positive, got %d",
				frameCount),
		}
	}

	e.resetLocked(frameCount, ParseAlgorithm(algorithm))

	return e.snapshotLocked(), nil
}

func (e *Engine) resetLocked(frameCount int, algorithm Algorithm) {
	e.frameCapacity = frameCount
	e.frames = make([]*Frame, frameCount)
	for i := range e.frames {
		e.frames[i] = &Frame{ID: i}
	}

	e.processes = make(map[string]*Process)

	e.algorithm = algorithm
	e.victimFinder = victimFinderFor(algorithm)

	e.clock = 0
	e.totalAccesses = 0
	e.pageHits = 0
	e.pageFaults = 0
}

// CreateProcess registers a process with a page table of exactly size
// entries, all initially absent. Size zero is legal and yields a process
// that can never be accessed without an InvalidPageError.
func (e *Engine) CreateProcess(
	pid string,
	size int,
	color string,
) (Process, error) {
	e.Lock()
	defer e.Unlock()

	if pid == "" {
		return Process{}, ConfigError{Reason: "process id must not be empty"}
	}

	if size < 0 {
		return Process{}, ConfigError{
			Reason: fmt.Sprintf("page table size must not be negative, got %d",
				size),
		}
	}

	if _, exists := e.processes[pid]; exists {
		return Process{}, DuplicateProcessError{PID: pid}
	}

	table := make([]PageTableEntry, size)
	for i := range table {
		table[i] = PageTableEntry{VPN: i}
	}

	proc := &Process{
		PID:       pid,
		Size:      size,
		PageTable: table,
	}
	if color != "" {
		proc.Color = &color
	}

	e.processes[pid] = proc

	return proc.clone(), nil
}

// Access simulates one reference to a virtual page. It classifies the
// reference as a hit, a load into a free frame, or a replacement, and
// updates the page table, the frame pool, and the metrics accordingly.
func (e *Engine) Access(pid string, vpn int) (AccessEvent, error) {
	e.Lock()
	defer e.Unlock()

	proc, ok := e.processes[pid]
	if !ok {
		return AccessEvent{}, UnknownProcessError{PID: pid}
	}

	if vpn < 0 || vpn >= proc.Size {
		return AccessEvent{}, InvalidPageError{PID: pid, VPN: vpn, Size: proc.Size}
	}

	// The clock advances before the hit/fault split so that every timestamp
	// written below is the time of this access.
	e.clock++
	e.totalAccesses++

	event := AccessEvent{Time: e.clock, PID: pid, VPN: vpn}
	entry := &proc.PageTable[vpn]

	if entry.Present && entry.PFN != nil {
		e.pageHits++

		pfn := *entry.PFN
		entry.Timestamp = e.clock
		e.frames[pfn].LastAccessed = e.clock

		event.Result = ResultHit
		event.PFN = pfn

		return event, nil
	}

	e.pageFaults++

	if frame := e.firstFreeFrame(); frame != nil {
		e.loadIntoFrame(pid, vpn, frame)

		event.Result = ResultLoaded
		event.PFN = frame.ID

		return event, nil
	}

	victim := e.victimFinder.FindVictim(e.frames)
	if victim.IsFilled {
		// Capture the evicted identity before the load overwrites the frame.
		event.Evicted = &EvictedPage{PID: *victim.PID, VPN: *victim.VPN}

		victimEntry := &e.processes[*victim.PID].PageTable[*victim.VPN]
		victimEntry.Present = false
		victimEntry.PFN = nil
		victimEntry.Timestamp = 0
	}

	e.loadIntoFrame(pid, vpn, victim)

	event.Result = ResultReplaced
	event.PFN = victim.ID

	return event, nil
}

// Snapshot returns a deep copy of the frame pool, the process map, and the
// metrics. It never mutates state and is callable at any time.
func (e *Engine) Snapshot() Snapshot {
	e.Lock()
	defer e.Unlock()

	return e.snapshotLocked()
}

func (e *Engine) firstFreeFrame() *Frame {
	for _, f := range e.frames {
		if !f.IsFilled {
			return f
		}
	}

	return nil
}

func (e *Engine) loadIntoFrame(pid string, vpn int, frame *Frame) {
	frame.PID = &pid
	frame.VPN = &vpn
	frame.IsFilled = true
	frame.LastAccessed = e.clock

	// LRU never reads the arrival time, so it is only maintained under FIFO
	// and may go stale otherwise.
	if e.algorithm == FIFO {
		frame.ArrivalTime = e.clock
	}

	entry := &e.processes[pid].PageTable[vpn]
	entry.Present = true
	pfn := frame.ID
	entry.PFN = &pfn

	if e.algorithm == FIFO {
		entry.Timestamp = frame.ArrivalTime
	} else {
		entry.Timestamp = frame.LastAccessed
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	frames := make([]Frame, len(e.frames))
	for i, f := range e.frames {
		frames[i] = f.clone()
	}

	processes := make(map[string]Process, len(e.processes))
	for pid, p := range e.processes {
		processes[pid] = p.clone()
	}

	hitRatio := 0.0
	if e.totalAccesses > 0 {
		hitRatio = float64(e.pageHits) / float64(e.totalAccesses)
	}

	return Snapshot{
		Frames:    frames,
		Processes: processes,
		Metrics: Metrics{
			Clock:         e.clock,
			TotalAccesses: e.totalAccesses,
			PageHits:      e.pageHits,
			PageFaults:    e.pageFaults,
			HitRatio:      hitRatio,
		},
		Algorithm: e.algorithm.String(),
	}
}

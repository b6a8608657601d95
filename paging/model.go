// Package paging implements the demand-paging state machine of the
// simulator: a fixed pool of physical frames, per-process page tables, and
// FIFO/LRU page replacement.
package paging

// A Frame is one physical memory slot. Frames only carry identifying
// metadata about the page they hold, never the page contents.
type Frame struct {
	ID           int     `json:"id"`
	PID          *string `json:"pid"`
	VPN          *int    `json:"vpn"`
	LastAccessed int64   `json:"last_accessed"`
	ArrivalTime  int64   `json:"arrival_time"`
	IsFilled     bool    `json:"is_filled"`
}

func (f *Frame) clone() Frame {
	c := *f

	if f.PID != nil {
		pid := *f.PID
		c.PID = &pid
	}

	if f.VPN != nil {
		vpn := *f.VPN
		c.VPN = &vpn
	}

	return c
}

// A PageTableEntry maps one virtual page of a process to the physical frame
// holding it. Timestamp mirrors the clock the active replacement policy
// ranks by: arrival time under FIFO, last-access time under LRU.
type PageTableEntry struct {
	VPN       int   `json:"vpn"`
	PFN       *int  `json:"pfn"`
	Present   bool  `json:"present"`
	Timestamp int64 `json:"timestamp"`
}

func (e *PageTableEntry) clone() PageTableEntry {
	c := *e

	if e.PFN != nil {
		pfn := *e.PFN
		c.PFN = &pfn
	}

	return c
}

// A Process is a simulated process with a fixed-size page table. Color is a
// display hint for the frontend and carries no semantic weight.
type Process struct {
	PID       string           `json:"pid"`
	Size      int              `json:"size"`
	PageTable []PageTableEntry `json:"page_table"`
	Color     *string          `json:"color"`
}

func (p *Process) clone() Process {
	c := *p

	c.PageTable = make([]PageTableEntry, len(p.PageTable))
	for i := range p.PageTable {
		c.PageTable[i] = p.PageTable[i].clone()
	}

	if p.Color != nil {
		color := *p.Color
		c.Color = &color
	}

	return c
}

// Metrics are the cumulative counters of the simulation. HitRatio is
// derived; it is 0.0 before the first access.
type Metrics struct {
	Clock         int64   `json:"clock"`
	TotalAccesses int64   `json:"total_accesses"`
	PageHits      int64   `json:"page_hits"`
	PageFaults    int64   `json:"page_faults"`
	HitRatio      float64 `json:"hit_ratio"`
}

// A Snapshot is a deep copy of the full simulator state.
type Snapshot struct {
	Frames    []Frame            `json:"frames"`
	Processes map[string]Process `json:"processes"`
	Metrics   Metrics            `json:"metrics"`
	Algorithm string             `json:"algorithm"`
}

// AccessResult classifies the outcome of one page access.
type AccessResult string

// The three possible outcomes of an access.
const (
	ResultHit      AccessResult = "hit"
	ResultLoaded   AccessResult = "loaded"
	ResultReplaced AccessResult = "replaced"
)

// An EvictedPage identifies the page thrown out of the victim frame.
type EvictedPage struct {
	PID string `json:"pid"`
	VPN int    `json:"vpn"`
}

// An AccessEvent reports the effect of one page access. Evicted is only set
// when the access replaced a resident page.
type AccessEvent struct {
	Time    int64        `json:"time"`
	PID     string       `json:"pid"`
	VPN     int          `json:"vpn"`
	Result  AccessResult `json:"result"`
	PFN     int          `json:"pfn"`
	Evicted *EvictedPage `json:"evicted,omitempty"`
}

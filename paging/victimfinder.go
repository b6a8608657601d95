package paging

import "strings"

// Algorithm is the page-replacement policy of the simulation.
type Algorithm int

// The supported replacement policies.
const (
	FIFO Algorithm = iota
	LRU
)

// ParseAlgorithm converts a policy name to an Algorithm, case-insensitively.
// Unrecognized names fall back to FIFO rather than failing, matching the
// behavior the simulator has always had.
func ParseAlgorithm(name string) Algorithm {
	switch strings.ToUpper(name) {
	case "LRU":
		return LRU
	default:
		return FIFO
	}
}

func (a Algorithm) String() string {
	switch a {
	case LRU:
		return "LRU"
	default:
		return "FIFO"
	}
}

// A VictimFinder decides which frame should be evicted when no frame is
// free. Candidates are scanned in ascending frame-id order and the first
// minimum wins, so ties break deterministically.
type VictimFinder interface {
	FindVictim(frames []*Frame) *Frame
}

// FIFOVictimFinder evicts the frame that was filled the longest ago.
type FIFOVictimFinder struct {
}

// NewFIFOVictimFinder returns a newly constructed FIFO evictor.
func NewFIFOVictimFinder() *FIFOVictimFinder {
	e := new(FIFOVictimFinder)
	return e
}

// FindVictim returns the frame with the smallest arrival time.
func (e *FIFOVictimFinder) FindVictim(frames []*Frame) *Frame {
	victim := frames[0]
	for _, f := range frames[1:] {
		if f.ArrivalTime < victim.ArrivalTime {
			victim = f
		}
	}

	return victim
}

// LRUVictimFinder evicts the least recently used frame.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRU evictor.
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns the frame with the smallest last-access time.
func (e *LRUVictimFinder) FindVictim(frames []*Frame) *Frame {
	victim := frames[0]
	for _, f := range frames[1:] {
		if f.LastAccessed < victim.LastAccessed {
			victim = f
		}
	}

	return victim
}

func victimFinderFor(a Algorithm) VictimFinder {
	switch a {
	case LRU:
		return NewLRUVictimFinder()
	default:
		return NewFIFOVictimFinder()
	}
}

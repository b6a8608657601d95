package monitoring

import "github.com/sarchlab/pagingsim/paging"

// A PagingService is the set of simulator operations the monitor exposes
// over HTTP. *paging.Engine implements it.
type PagingService interface {
	Init(frameCount int, algorithm string) (paging.Snapshot, error)
	CreateProcess(pid string, size int, color string) (paging.Process, error)
	Access(pid string, vpn int) (paging.AccessEvent, error)
	Snapshot() paging.Snapshot
}

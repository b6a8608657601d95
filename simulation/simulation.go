// Package simulation wires the paging engine, the trace recorder, and the
// web monitor into one runnable service.
package simulation

import (
	"github.com/sarchlab/pagingsim/monitoring"
	"github.com/sarchlab/pagingsim/paging"
	"github.com/sarchlab/pagingsim/recording"
)

// A Simulation provides the services required to run a paging simulation.
type Simulation struct {
	id string

	engine   *paging.Engine
	recorder recording.TraceRecorder
	reader   recording.TraceReader
	monitor  *monitoring.Monitor
	port     int
}

// ID returns the unique id of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the paging engine used in the simulation.
func (s *Simulation) GetEngine() *paging.Engine {
	return s.engine
}

// GetTraceRecorder returns the trace recorder used in the simulation.
func (s *Simulation) GetTraceRecorder() recording.TraceRecorder {
	return s.recorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Port returns the port the monitoring server listens on, or 0 when
// monitoring is disabled.
func (s *Simulation) Port() int {
	return s.port
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.recorder.Close()
	s.reader.Close()
}

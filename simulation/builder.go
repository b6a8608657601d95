package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/pagingsim/monitoring"
	"github.com/sarchlab/pagingsim/paging"
	"github.com/sarchlab/pagingsim/recording"
)

// Builder can be used to build a simulation.
type Builder struct {
	frameCount     int
	algorithm      string
	monitorOn      bool
	monitorPort    int
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		frameCount: 8,
		algorithm:  "FIFO",
		monitorOn:  true,
	}
}

// WithFrameCount sets the initial number of physical frames.
func (b Builder) WithFrameCount(n int) Builder {
	b.frameCount = n
	return b
}

// WithAlgorithm sets the initial replacement policy by name.
func (b Builder) WithAlgorithm(name string) Builder {
	b.algorithm = name
	return b
}

// WithoutMonitoring sets the simulation to not start the web server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the custom output file name for the trace
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{}

	s.id = xid.New().String()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "pagingsim_" + s.id
	}
	s.recorder = recording.NewTraceRecorder(outputPath)
	s.reader = recording.NewTraceReader(outputPath)

	s.engine = paging.MakeBuilder().
		WithFrameCount(b.frameCount).
		WithAlgorithm(b.algorithm).
		Build()

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterTraceRecorder(s.recorder)
		s.monitor.RegisterTraceReader(s.reader)
		s.port = s.monitor.StartServer()
	}

	return s
}

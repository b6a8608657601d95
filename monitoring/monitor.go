// Package monitoring turns a paging simulation into a web server. It is a
// thin adapter: requests are decoded, handed to the engine, and the engine's
// snapshot is rendered back; no domain logic lives here.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/pagingsim/monitoring/web"
	"github.com/sarchlab/pagingsim/recording"
)

// Monitor exposes a paging engine as a web server and records the access
// history along the way.
type Monitor struct {
	engine     PagingService
	recorder   recording.TraceRecorder
	reader     recording.TraceReader
	portNumber int
	logger     *slog.Logger
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		logger: slog.Default().With("module", "monitor"),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the paging engine to serve.
func (m *Monitor) RegisterEngine(e PagingService) {
	m.engine = e
}

// RegisterTraceRecorder sets the recorder that persists access events.
func (m *Monitor) RegisterTraceRecorder(r recording.TraceRecorder) {
	m.recorder = r
}

// RegisterTraceReader sets the reader that serves the recorded history.
func (m *Monitor) RegisterTraceReader(r recording.TraceReader) {
	m.reader = r
}

// StartServer starts the monitor as a web server and returns the port it
// actually listens on.
func (m *Monitor) StartServer() int {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/init", m.apiInit)
	r.HandleFunc("/api/process", m.apiCreateProcess)
	r.HandleFunc("/api/access", m.apiAccess)
	r.HandleFunc("/api/state", m.apiState)
	r.HandleFunc("/api/trace", m.apiTrace)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/inspect", m.inspectEngine)
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return port
}

type initRequest struct {
	Frames    int    `json:"frames"`
	Algorithm string `json:"algorithm"`
}

func (m *Monitor) apiInit(w http.ResponseWriter, r *http.Request) {
	req := initRequest{Frames: 8, Algorithm: "FIFO"}
	if !m.decodeRequest(w, r, &req) {
		return
	}

	snapshot, err := m.engine.Init(req.Frames, req.Algorithm)
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.logger.Info("simulation initialized",
		"frames", req.Frames, "algorithm", snapshot.Algorithm)

	m.writeOK(w, map[string]any{"state": snapshot})
}

type processRequest struct {
	PID   string `json:"pid"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

func (m *Monitor) apiCreateProcess(w http.ResponseWriter, r *http.Request) {
	req := processRequest{Size: 1}
	if !m.decodeRequest(w, r, &req) {
		return
	}

	proc, err := m.engine.CreateProcess(req.PID, req.Size, req.Color)
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.logger.Info("process created", "pid", proc.PID, "size", proc.Size)

	m.writeOK(w, map[string]any{"process": proc})
}

type accessRequest struct {
	PID string `json:"pid"`
	VPN int    `json:"vpn"`
}

func (m *Monitor) apiAccess(w http.ResponseWriter, r *http.Request) {
	req := accessRequest{}
	if !m.decodeRequest(w, r, &req) {
		return
	}

	event, err := m.engine.Access(req.PID, req.VPN)
	if err != nil {
		m.writeError(w, err)
		return
	}

	if m.recorder != nil {
		trace := recording.AccessTrace{
			Time:       event.Time,
			PID:        event.PID,
			VPN:        event.VPN,
			Result:     string(event.Result),
			PFN:        event.PFN,
			EvictedVPN: -1,
		}
		if event.Evicted != nil {
			trace.EvictedPID = event.Evicted.PID
			trace.EvictedVPN = event.Evicted.VPN
		}

		m.recorder.Record(trace)
	}

	m.writeOK(w, map[string]any{
		"event": event,
		"state": m.engine.Snapshot(),
	})
}

func (m *Monitor) apiState(w http.ResponseWriter, _ *http.Request) {
	m.writeOK(w, map[string]any{"state": m.engine.Snapshot()})
}

func (m *Monitor) apiTrace(w http.ResponseWriter, r *http.Request) {
	if m.reader == nil {
		m.writeError(w, fmt.Errorf("trace recording is disabled"))
		return
	}

	limit, offset, err := traceParseParams(r)
	if err != nil {
		m.writeError(w, err)
		return
	}

	if m.recorder != nil {
		m.recorder.Flush()
	}

	traces, totalCount, err := m.reader.Query(r.Context(), limit, offset)
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.writeOK(w, map[string]any{
		"traces":      traces,
		"total_count": totalCount,
	})
}

func traceParseParams(r *http.Request) (limit, offset int, err error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "50"
	}
	limitNumber, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, 0, err
	}

	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		offsetStr = "0"
	}
	offsetNumber, err := strconv.Atoi(offsetStr)
	if err != nil {
		return limitNumber, 0, err
	}

	return limitNumber, offsetNumber, nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) inspectEngine(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.engine)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) decodeRequest(
	w http.ResponseWriter,
	r *http.Request,
	req any,
) bool {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		m.writeError(w, fmt.Errorf("malformed request body: %w", err))
		return false
	}

	return true
}

func (m *Monitor) writeOK(w http.ResponseWriter, body map[string]any) {
	body["status"] = "ok"

	bytes, err := json.Marshal(body)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) writeError(w http.ResponseWriter, cause error) {
	m.logger.Error("request failed", "error", cause)

	bytes, err := json.Marshal(map[string]any{
		"status": "error",
		"error":  cause.Error(),
	})
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}

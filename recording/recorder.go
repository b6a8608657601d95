// Package recording persists the simulator's access history into an SQLite
// database, one row per access event.
package recording

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// An AccessTrace is one recorded access event. EvictedPID is empty and
// EvictedVPN is -1 when the access evicted nothing.
type AccessTrace struct {
	Time       int64
	PID        string
	VPN        int
	Result     string
	PFN        int
	EvictedPID string
	EvictedVPN int
}

// A TraceRecorder is a backend that can record access events.
type TraceRecorder interface {
	// Record buffers one access event for insertion.
	Record(trace AccessTrace)

	// Flush writes all buffered events into the database.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

// NewTraceRecorder creates a TraceRecorder writing to path + ".sqlite3". If
// path is empty, a unique name is generated.
func NewTraceRecorder(path string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    path,
		batchSize: 1024,
	}

	r.init()

	atexit.Register(func() { r.Flush() })

	return r
}

// SQLiteRecorder is the TraceRecorder that writes into an SQLite database.
type SQLiteRecorder struct {
	*sql.DB

	dbName    string
	pending   []AccessTrace
	batchSize int
}

func (r *SQLiteRecorder) init() {
	if r.dbName == "" {
		r.dbName = "pagingsim_trace_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Recording access trace into: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db

	r.mustExecute(`CREATE TABLE access_trace (
	Time INTEGER,
	PID TEXT,
	VPN INTEGER,
	Result TEXT,
	PFN INTEGER,
	EvictedPID TEXT,
	EvictedVPN INTEGER
);`)
}

// Record buffers one access event, flushing when the batch is full.
func (r *SQLiteRecorder) Record(trace AccessTrace) {
	r.pending = append(r.pending, trace)

	if len(r.pending) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes all buffered events in one transaction.
func (r *SQLiteRecorder) Flush() {
	if len(r.pending) == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	stmt, err := r.Prepare(
		"INSERT INTO access_trace VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, t := range r.pending {
		_, err := stmt.Exec(t.Time, t.PID, t.VPN, t.Result, t.PFN,
			t.EvictedPID, t.EvictedVPN)
		if err != nil {
			panic(err)
		}
	}

	r.pending = nil
}

// Close flushes the buffer and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.Flush()
	return r.DB.Close()
}

func (r *SQLiteRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

package recording

import (
	"context"
	"database/sql"
	"fmt"
)

// A TraceReader can page through the recorded access history.
type TraceReader interface {
	// Query returns up to limit events, newest first, skipping offset rows,
	// together with the total number of recorded events. Limit zero means no
	// limit.
	Query(ctx context.Context, limit, offset int) (
		traces []AccessTrace,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

// SQLiteReader reads access traces from an SQLite database.
type SQLiteReader struct {
	*sql.DB
}

// NewTraceReader creates a TraceReader over the database at
// path + ".sqlite3".
func NewTraceReader(path string) *SQLiteReader {
	db, err := sql.Open("sqlite3", path+".sqlite3")
	if err != nil {
		panic(err)
	}

	return &SQLiteReader{DB: db}
}

// NewTraceReaderWithDB creates a TraceReader over a given database.
func NewTraceReaderWithDB(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{DB: db}
}

// Query implements TraceReader.
func (r *SQLiteReader) Query(
	ctx context.Context,
	limit, offset int,
) ([]AccessTrace, int, error) {
	var totalCount int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM access_trace").Scan(&totalCount)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM access_trace ORDER BY Time DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", offset)
		}
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var traces []AccessTrace
	for rows.Next() {
		var t AccessTrace
		err := rows.Scan(&t.Time, &t.PID, &t.VPN, &t.Result, &t.PFN,
			&t.EvictedPID, &t.EvictedVPN)
		if err != nil {
			return nil, 0, err
		}

		traces = append(traces, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, 0, err
	}

	return traces, totalCount, nil
}

// Close closes the underlying database.
func (r *SQLiteReader) Close() error {
	return r.DB.Close()
}

package record

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	// SQLite driver for database/sql.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/inference-sim/checkout-sim/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	arrival_rate REAL NOT NULL,
	service_rate REAL NOT NULL,
	servers      INTEGER NOT NULL,
	clients      INTEGER NOT NULL,
	seed         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	run_id       TEXT NOT NULL REFERENCES runs(run_id),
	seq          INTEGER NOT NULL,
	time_h       REAL NOT NULL,
	client_id    INTEGER NOT NULL,
	event        TEXT NOT NULL,
	queue_length INTEGER,
	PRIMARY KEY (run_id, seq)
);`

// NewRunID returns a globally unique, time-sortable run identifier.
func NewRunID() string {
	return xid.New().String()
}

// SQLiteRecorder stores EventLogs in a SQLite database, one row per record,
// keyed by run ID.
type SQLiteRecorder struct {
	db   *sql.DB
	path string
}

// NewSQLiteRecorder creates a new database file at path. An empty path picks
// a unique name in the working directory. The file must not exist yet.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "checkout_sim_" + xid.New().String() + ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	return open(path)
}

// OpenSQLiteRecorder opens an existing database, or creates it, and appends
// to it.
func OpenSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	return open(path)
}

func open(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &SQLiteRecorder{db: db, path: path}, nil
}

// Path returns the database file name.
func (r *SQLiteRecorder) Path() string { return r.path }

// Record writes log under runID in a single transaction.
func (r *SQLiteRecorder) Record(runID string, log *sim.EventLog) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p := log.Params()
	if _, err = tx.Exec(
		`INSERT INTO runs (run_id, arrival_rate, service_rate, servers, clients, seed) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, p.ArrivalRate, p.ServiceRate, p.Servers, p.Clients, p.Seed,
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO events (run_id, seq, time_h, client_id, event, queue_length) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range log.Records() {
		var queue sql.NullInt64
		if rec.Kind == sim.Arrival {
			queue = sql.NullInt64{Int64: int64(rec.QueueLength), Valid: true}
		}
		if _, err = stmt.Exec(runID, i, rec.Time, rec.ClientID, rec.Kind.String(), queue); err != nil {
			return fmt.Errorf("inserting event %d of run %s: %w", i, runID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}
	return nil
}

// Runs lists the recorded run IDs in insertion order.
func (r *SQLiteRecorder) Runs() ([]string, error) {
	rows, err := r.db.Query(`SELECT run_id FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Load reads back the parameters and records of one run.
func (r *SQLiteRecorder) Load(runID string) (sim.SimulationParameters, []sim.EventRecord, error) {
	var p sim.SimulationParameters
	err := r.db.QueryRow(
		`SELECT arrival_rate, service_rate, servers, clients, seed FROM runs WHERE run_id = ?`, runID,
	).Scan(&p.ArrivalRate, &p.ServiceRate, &p.Servers, &p.Clients, &p.Seed)
	if err != nil {
		return p, nil, fmt.Errorf("loading run %s: %w", runID, err)
	}

	rows, err := r.db.Query(
		`SELECT time_h, client_id, event, queue_length FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return p, nil, fmt.Errorf("loading events of run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []sim.EventRecord
	for rows.Next() {
		var rec sim.EventRecord
		var kind string
		var queue sql.NullInt64
		if err := rows.Scan(&rec.Time, &rec.ClientID, &kind, &queue); err != nil {
			return p, nil, err
		}
		if rec.Kind, err = sim.ParseEventKind(kind); err != nil {
			return p, nil, err
		}
		rec.QueueLength = int(queue.Int64)
		records = append(records, rec)
	}
	return p, records, rows.Err()
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Package store implements component I (§4.I): durable persistence of
// phantom-log rows and value-graph edges to a SQLite file, so a
// downstream fuzzer can query accumulated phantom coverage across many
// independent evaluations without re-running them.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/trace"
	"github.com/p4lang/p4spectec-core/internal/value"
)

const schema = `
CREATE TABLE IF NOT EXISTS phantoms (
	run_id TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	pid    TEXT NOT NULL,
	path   TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS phantoms_pid_idx ON phantoms(pid);

CREATE TABLE IF NOT EXISTS edges (
	run_id   TEXT NOT NULL,
	produced INTEGER NOT NULL,
	dep      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS edges_run_idx ON edges(run_id);
`

// Store is a handle onto one SQLite file, opened through the pure-Go
// modernc.org/sqlite driver (no cgo).
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path and applies
// the store's schema. Safe to call concurrently from multiple processes
// against the same path; each Store instance should stay within one
// process (§5's per-evaluation isolation extends to the store handle
// that persists its results).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists one evaluation's phantom log and dependency edges
// under runID, in a single transaction so a crash mid-write never leaves
// a partial run behind (Testable Property 7: "the sqlite persistence
// layer never loses a phantom row across a process restart").
func (s *Store) RecordRun(runID string, tracker *trace.Tracker) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	phantomStmt, err := tx.Prepare(`INSERT INTO phantoms (run_id, seq, pid, path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: preparing phantom insert: %w", err)
	}
	defer phantomStmt.Close()

	for seq, p := range tracker.Phantoms() {
		if _, err := phantomStmt.Exec(runID, seq, string(p.Pid), pathConditionsText(p.Path)); err != nil {
			return fmt.Errorf("store: inserting phantom %d: %w", seq, err)
		}
	}

	edgeStmt, err := tx.Prepare(`INSERT INTO edges (run_id, produced, dep) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for produced, deps := range tracker.Edges() {
		for _, dep := range deps {
			if _, err := edgeStmt.Exec(runID, uint64(produced), uint64(dep)); err != nil {
				return fmt.Errorf("store: inserting edge %d<-%d: %w", produced, dep, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing run %s: %w", runID, err)
	}
	return nil
}

// PhantomCount reports how many times pid has been recorded across every
// run this store has ever persisted, the "accumulated phantom coverage"
// query a fuzzer runs between evaluations.
func (s *Store) PhantomCount(pid ilast.Pid) (int, error) {
	var n int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM phantoms WHERE pid = ?`, string(pid))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("store: counting phantom %s: %w", pid, err)
	}
	return n, nil
}

// Dependencies returns every recorded predecessor vid for produced,
// across all runs in this store.
func (s *Store) Dependencies(produced value.VID) ([]value.VID, error) {
	rows, err := s.db.Query(`SELECT dep FROM edges WHERE produced = ?`, uint64(produced))
	if err != nil {
		return nil, fmt.Errorf("store: querying dependencies of %d: %w", produced, err)
	}
	defer rows.Close()

	var deps []value.VID
	for rows.Next() {
		var dep uint64
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("store: scanning dependency row: %w", err)
		}
		deps = append(deps, value.VID(dep))
	}
	return deps, rows.Err()
}

// pathConditionsText renders a phantom's path conditions as a
// human/fuzzer-readable trail of "<kind>@<region>" segments. This is a
// coverage-bookkeeping summary, not a re-executable encoding of the
// underlying Exp trees — a fuzzer correlating phantom ids across runs
// needs the branch site and its condition kind, not a full expression
// replay (that stays in the in-memory ilast.Spec the phantom's Pid
// indexes into).
func pathConditionsText(path []ilast.PathCond) string {
	s := ""
	for i, c := range path {
		if i > 0 {
			s += ";"
		}
		switch cc := c.(type) {
		case ilast.ForallC:
			s += "forall@" + cc.Region.String()
		case ilast.ExistsC:
			s += "exists@" + cc.Region.String()
		case ilast.PlainC:
			s += "plain@" + cc.Region.String()
		default:
			s += "?"
		}
	}
	return s
}

// Package history keeps a SQLite ledger of conversion runs and the anomalies
// each run recorded.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Run is one recorded conversion.
type Run struct {
	ID        string
	Site      string
	Started   time.Time
	Finished  time.Time
	Outcome   string
	Pages     int
	Redirects int
	Assets    int
	Anomalies int
	Error     string
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Store implements the run ledger on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, derrors.HistoryError("create history directory").
				WithContext("path", path).WithCause(err).Build()
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A second connection would see a different :memory: database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, derrors.HistoryError("initialize run history schema").
			WithContext("path", path).WithCause(err).Build()
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		redirects INTEGER NOT NULL,
		assets INTEGER NOT NULL,
		anomalies INTEGER NOT NULL,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS anomalies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		code TEXT NOT NULL,
		severity TEXT NOT NULL,
		resource TEXT,
		resource_id INTEGER,
		kind TEXT,
		token TEXT,
		message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site, started);
	CREATE INDEX IF NOT EXISTS idx_anomalies_run ON anomalies(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores run and its anomalies in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, entries []anomaly.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, site, started, finished, outcome, pages, redirects, assets, anomalies, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Site, run.Started.UnixMilli(), run.Finished.UnixMilli(), run.Outcome,
		run.Pages, run.Redirects, run.Assets, run.Anomalies, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO anomalies (run_id, code, severity, resource, resource_id, kind, token, message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, string(e.Code), string(e.Severity), e.Resource, e.ResourceID, e.Kind, e.Token, e.Message,
		); err != nil {
			return fmt.Errorf("insert anomaly: %w", err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent runs first. An empty site matches every site;
// limit <= 0 means no limit.
func (s *Store) Runs(ctx context.Context, site string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, site, started, finished, outcome, pages, redirects, assets, anomalies, COALESCE(error, '')
		 FROM runs WHERE (? = '' OR site = ?) ORDER BY started DESC, id LIMIT ?`,
		site, site, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Site, &started, &finished, &r.Outcome,
			&r.Pages, &r.Redirects, &r.Assets, &r.Anomalies, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.UnixMilli(started)
		r.Finished = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Anomalies returns the anomalies of a run in recording order.
func (s *Store) Anomalies(ctx context.Context, runID string) ([]anomaly.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, severity, COALESCE(resource, ''), COALESCE(resource_id, 0),
		        COALESCE(kind, ''), COALESCE(token, ''), COALESCE(message, '')
		 FROM anomalies WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query anomalies: %w", err)
	}
	defer rows.Close()

	var out []anomaly.Entry
	for rows.Next() {
		var e anomaly.Entry
		var code, severity string
		if err := rows.Scan(&code, &severity, &e.Resource, &e.ResourceID, &e.Kind, &e.Token, &e.Message); err != nil {
			return nil, fmt.Errorf("scan anomaly: %w", err)
		}
		e.Code = anomaly.Code(code)
		e.Severity = anomaly.Severity(severity)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

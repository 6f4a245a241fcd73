package results

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite"
)

// Store persists benchmark runs in a local sqlite database.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {

	dbDir := filepath.Dir(dbPath)

	// Ensure the database directory exists
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Ping makes sure the file is actually accessible and the DSN is valid
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	store := &Store{db: db}

	if err := store.RunMigrations(); err != nil {
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	return store, nil
}

// NewRun allocates a run with a fresh ksuid, so run IDs sort
// chronologically.
func NewRun(label string) *Run {
	return &Run{
		ID:        ksuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
}

// SaveRun writes the run and all its rows in one transaction.
func (s *Store) SaveRun(run *Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs (id, label, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Label, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM results WHERE run_id = ?`, run.ID); err != nil {
		return err
	}

	for _, row := range run.Rows {
		_, err := tx.Exec(
			`INSERT INTO results (run_id, engine, bench_type, dataset, codec, metric, value)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, row.Engine, row.BenchType, row.Dataset, row.Codec, row.Metric, row.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to save result row: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun returns one run with its rows, or nil if it does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT id, label, created_at FROM runs WHERE id = ? LIMIT 1`, id)

	run := &Run{}
	err := row.Scan(&run.ID, &run.Label, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT engine, bench_type, dataset, codec, metric, value FROM results WHERE run_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Engine, &r.BenchType, &r.Dataset, &r.Codec, &r.Metric, &r.Value); err != nil {
			return nil, err
		}
		run.Rows = append(run.Rows, r)
	}

	return run, rows.Err()
}

// ListRuns returns every run without rows, oldest first (ksuid order).
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`SELECT id, label, created_at FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Label, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

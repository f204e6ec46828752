package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
	_ "modernc.org/sqlite"
)

type sqliteStatusStore struct {
	db *sql.DB
	observationSet
}

// NewSQLiteStatusStore opens (creating if needed) a SQLite datastore at path
// and runs migrations.
func NewSQLiteStatusStore(path string) (StatusStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create datastore directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &sqliteStatusStore{db: db, observationSet: newObservationSet()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs idempotent schema migrations.
func (s *sqliteStatusStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS observations (
		day TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		recorded_at DATETIME NOT NULL
	);`)
	return err
}

func (s *sqliteStatusStore) Record(obs models.Observation) { s.record(obs) }

func (s *sqliteStatusStore) Observations() []models.Observation { return s.observations() }

func (s *sqliteStatusStore) Latest() (models.Observation, bool) { return s.latest() }

func (s *sqliteStatusStore) Load() error {
	s.observationSet = newObservationSet()

	rows, err := s.db.Query(`SELECT day, state FROM observations ORDER BY day`)
	if err != nil {
		return fmt.Errorf("loading datastore: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, state string
		if err := rows.Scan(&day, &state); err != nil {
			return fmt.Errorf("loading datastore: scanning row: %w", err)
		}
		d, err := parseDateKey(day)
		if err != nil {
			return fmt.Errorf("loading datastore: %w", err)
		}
		s.byDate[d.Format(models.DateLayout)] = models.State(state)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading datastore: %w", err)
	}
	return nil
}

// Save writes the observations recorded since the last Load or Save in a
// single transaction.
func (s *sqliteStatusStore) Save() error {
	if len(s.dirty) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving datastore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO observations (day, state, recorded_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("saving datastore: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for day := range s.dirty {
		if _, err := stmt.Exec(day, string(s.byDate[day]), now); err != nil {
			return fmt.Errorf("saving datastore: writing %s: %w", day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving datastore: commit: %w", err)
	}
	s.dirty = make(map[string]struct{})
	return nil
}

// Close closes the database connection.
func (s *sqliteStatusStore) Close() error {
	return s.db.Close()
}

// Package progress stores solving snapshots in a local SQLite file,
// one row per puzzle date.
package progress

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/minicross/minicross/internal/session"
)

// Store is a session.ProgressStore backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the progress database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	createSQL := `
	CREATE TABLE IF NOT EXISTS progress (
		puzzle_date TEXT PRIMARY KEY,
		letters TEXT,
		elapsed_seconds INTEGER NOT NULL DEFAULT 0,
		completion_seconds INTEGER,
		has_started BOOLEAN NOT NULL DEFAULT 0,
		revealed BOOLEAN NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(createSQL); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Load returns the snapshot for a date, or nil if none exists.
func (s *Store) Load(date string) (*session.Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT letters, elapsed_seconds, completion_seconds, has_started, revealed
		 FROM progress WHERE puzzle_date = ?`, date)

	var lettersJSON sql.NullString
	var completion sql.NullInt64
	snap := &session.Snapshot{Date: date}
	err := row.Scan(&lettersJSON, &snap.ElapsedSeconds, &completion, &snap.HasStarted, &snap.Revealed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", date, err)
	}
	if lettersJSON.Valid && lettersJSON.String != "" {
		if err := json.Unmarshal([]byte(lettersJSON.String), &snap.Letters); err != nil {
			return nil, fmt.Errorf("decode letters for %s: %w", date, err)
		}
	}
	if completion.Valid {
		v := int(completion.Int64)
		snap.CompletionSeconds = &v
	}
	return snap, nil
}

// Save merges a partial update into the date's row. Unset fields keep
// their stored values, so saves are safe to issue field by field.
func (s *Store) Save(date string, p session.Partial) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO progress (puzzle_date) VALUES (?)`, date); err != nil {
		return err
	}
	if p.Letters != nil {
		lettersJSON, err := json.Marshal(p.Letters)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`UPDATE progress SET letters = ?, updated_at = CURRENT_TIMESTAMP WHERE puzzle_date = ?`,
			string(lettersJSON), date); err != nil {
			return err
		}
	}
	if p.ElapsedSeconds != nil {
		if _, err := tx.Exec(
			`UPDATE progress SET elapsed_seconds = ?, updated_at = CURRENT_TIMESTAMP WHERE puzzle_date = ?`,
			*p.ElapsedSeconds, date); err != nil {
			return err
		}
	}
	if p.CompletionSeconds != nil {
		if _, err := tx.Exec(
			`UPDATE progress SET completion_seconds = ?, updated_at = CURRENT_TIMESTAMP WHERE puzzle_date = ?`,
			*p.CompletionSeconds, date); err != nil {
			return err
		}
	}
	if p.HasStarted != nil {
		if _, err := tx.Exec(
			`UPDATE progress SET has_started = ?, updated_at = CURRENT_TIMESTAMP WHERE puzzle_date = ?`,
			*p.HasStarted, date); err != nil {
			return err
		}
	}
	if p.Revealed != nil {
		if _, err := tx.Exec(
			`UPDATE progress SET revealed = ?, updated_at = CURRENT_TIMESTAMP WHERE puzzle_date = ?`,
			*p.Revealed, date); err != nil {
			return err
		}
	}
	return tx.Commit()
}

package server

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/minicross/minicross/internal/puzzle"
)

// ErrNotFound is returned for lookups that match nothing.
var ErrNotFound = errors.New("not found")

// User is a registered solver.
type User struct {
	ID         int64  `json:"-"`
	Email      string `json:"email"`
	FriendCode string `json:"friendCode"`
}

// LeaderboardEntry is one ranked row for a date.
type LeaderboardEntry struct {
	Email  string `json:"email"`
	TimeMs int64  `json:"timeMs"`
	Self   bool   `json:"self,omitempty"`
}

// Store persists puzzles, users, and results in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the server database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS puzzles (
			puzzle_date TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			friend_code TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS otps (
			email TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			expires_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tokens (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users (id)
		);`,
		`CREATE TABLE IF NOT EXISTS friends (
			user_id INTEGER NOT NULL,
			friend_id INTEGER NOT NULL,
			PRIMARY KEY (user_id, friend_id)
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			user_id INTEGER NOT NULL,
			puzzle_date TEXT NOT NULL,
			time_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, puzzle_date)
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// --- Puzzles ---

// SavePuzzle stores (or replaces) the puzzle for a date.
func (s *Store) SavePuzzle(doc puzzle.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO puzzles (puzzle_date, data) VALUES (?, ?)
		 ON CONFLICT(puzzle_date) DO UPDATE SET data = excluded.data`,
		doc.Date, string(data))
	return err
}

// PuzzleByDate returns the puzzle for an ISO date.
func (s *Store) PuzzleByDate(date string) (*puzzle.Document, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM puzzles WHERE puzzle_date = ?`, date).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc puzzle.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decode puzzle %s: %w", date, err)
	}
	return &doc, nil
}

// --- Auth ---

// PutOTP stores a login code for an email, replacing any prior one.
func (s *Store) PutOTP(email, code string, expires time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO otps (email, code, expires_unix) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET code = excluded.code, expires_unix = excluded.expires_unix`,
		email, code, expires.Unix())
	return err
}

// ConsumeOTP checks a login code and deletes it on success.
func (s *Store) ConsumeOTP(email, code string, now time.Time) (bool, error) {
	var stored string
	var expires int64
	err := s.db.QueryRow(`SELECT code, expires_unix FROM otps WHERE email = ?`, email).
		Scan(&stored, &expires)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code || now.Unix() > expires {
		return false, nil
	}
	_, err = s.db.Exec(`DELETE FROM otps WHERE email = ?`, email)
	return err == nil, err
}

// EnsureUser returns the user for an email, creating it on first login.
func (s *Store) EnsureUser(email string) (*User, error) {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO users (email, friend_code) VALUES (?, ?)`,
		email, generateID())
	if err != nil {
		return nil, err
	}
	return s.userBy(`email = ?`, email)
}

// CreateToken issues a bearer token for a user.
func (s *Store) CreateToken(userID int64) (string, error) {
	token := generateID() + generateID()
	_, err := s.db.Exec(`INSERT INTO tokens (token, user_id) VALUES (?, ?)`, token, userID)
	return token, err
}

// UserByToken resolves a bearer token.
func (s *Store) UserByToken(token string) (*User, error) {
	return s.userBy(
		`id = (SELECT user_id FROM tokens WHERE token = ?)`, token)
}

func (s *Store) userBy(where string, arg any) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(
		`SELECT id, email, friend_code FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Email, &u.FriendCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// --- Friends ---

// AddFriend links two users symmetrically via a friend code.
func (s *Store) AddFriend(userID int64, friendCode string) (*User, error) {
	friend, err := s.userBy(`friend_code = ?`, friendCode)
	if err != nil {
		return nil, err
	}
	if friend.ID == userID {
		return nil, fmt.Errorf("cannot befriend yourself")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	for _, pair := range [][2]int64{{userID, friend.ID}, {friend.ID, userID}} {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO friends (user_id, friend_id) VALUES (?, ?)`,
			pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return friend, tx.Commit()
}

// Friends lists a user's friends.
func (s *Store) Friends(userID int64) ([]User, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.email, u.friend_code
		 FROM friends f JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = ? ORDER BY u.email`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FriendCode); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// --- Results ---

// SaveResult records a completion time. The primary key on
// (user_id, puzzle_date) enforces at most one record per user per day;
// a second submission reports already = true and stores nothing.
func (s *Store) SaveResult(userID int64, date string, timeMs int64) (already bool, err error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO results (user_id, puzzle_date, time_ms) VALUES (?, ?, ?)`,
		userID, date, timeMs)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Leaderboard ranks the user and their friends for a date.
func (s *Store) Leaderboard(userID int64, date string) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.email, r.time_ms
		 FROM results r JOIN users u ON u.id = r.user_id
		 WHERE r.puzzle_date = ?
		   AND (u.id = ? OR u.id IN (SELECT friend_id FROM friends WHERE user_id = ?))
		 ORDER BY r.time_ms ASC, u.email ASC`, date, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LeaderboardEntry
	for rows.Next() {
		var id int64
		var e LeaderboardEntry
		if err := rows.Scan(&id, &e.Email, &e.TimeMs); err != nil {
			return nil, err
		}
		e.Self = id == userID
		out = append(out, e)
	}
	return out, rows.Err()
}

// generateID returns a random 16-hex-char identifier.
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

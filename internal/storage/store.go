package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SessionRow represents a session in the journal.
type SessionRow struct {
	Code      string
	Rows      int
	Columns   int
	Status    string // "playing", "finished"
	CreatedAt time.Time
}

// TurnRow is one resolved turn.
type TurnRow struct {
	SessionCode  string
	Number       int
	Player       string
	FirstRow     int
	FirstColumn  int
	SecondRow    int
	SecondColumn int
	Symbols      string
	Matched      bool
}

// Store handles SQLite persistence of the session journal.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations. The default
// path ":memory:" keeps everything inside the process.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// each connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			code          TEXT PRIMARY KEY,
			board_rows    INTEGER NOT NULL,
			board_columns INTEGER NOT NULL,
			status        TEXT NOT NULL DEFAULT 'playing',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS turns (
			session_code  TEXT NOT NULL REFERENCES sessions(code),
			number        INTEGER NOT NULL,
			player        TEXT NOT NULL,
			first_row     INTEGER NOT NULL,
			first_column  INTEGER NOT NULL,
			second_row    INTEGER NOT NULL,
			second_column INTEGER NOT NULL,
			symbols       TEXT NOT NULL,
			matched       BOOLEAN NOT NULL,
			PRIMARY KEY (session_code, number)
		);
		CREATE TABLE IF NOT EXISTS match_state (
			session_code TEXT PRIMARY KEY REFERENCES sessions(code),
			state_json   TEXT NOT NULL,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(code string, rows, columns int) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (code, board_rows, board_columns, status) VALUES (?, ?, ?, 'playing')",
		code, rows, columns,
	)
	return err
}

// GetSession retrieves a session by code.
func (s *Store) GetSession(code string) (*SessionRow, error) {
	row := s.db.QueryRow("SELECT code, board_rows, board_columns, status, created_at FROM sessions WHERE code = ?", code)
	var sr SessionRow
	if err := row.Scan(&sr.Code, &sr.Rows, &sr.Columns, &sr.Status, &sr.CreatedAt); err != nil {
		return nil, err
	}
	return &sr, nil
}

// UpdateSessionStatus changes a session's status.
func (s *Store) UpdateSessionStatus(code, status string) error {
	_, err := s.db.Exec("UPDATE sessions SET status = ? WHERE code = ?", status, code)
	return err
}

// RecordTurn appends a resolved turn.
func (s *Store) RecordTurn(t TurnRow) error {
	_, err := s.db.Exec(`
		INSERT INTO turns (session_code, number, player, first_row, first_column,
			second_row, second_column, symbols, matched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.SessionCode, t.Number, t.Player, t.FirstRow, t.FirstColumn,
		t.SecondRow, t.SecondColumn, t.Symbols, t.Matched)
	return err
}

// ListTurns returns the turns of a session in play order.
func (s *Store) ListTurns(code string) ([]TurnRow, error) {
	rows, err := s.db.Query(`
		SELECT session_code, number, player, first_row, first_column,
			second_row, second_column, symbols, matched
		FROM turns WHERE session_code = ? ORDER BY number
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []TurnRow
	for rows.Next() {
		var t TurnRow
		if err := rows.Scan(&t.SessionCode, &t.Number, &t.Player, &t.FirstRow, &t.FirstColumn,
			&t.SecondRow, &t.SecondColumn, &t.Symbols, &t.Matched); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// SaveMatchState upserts match state JSON.
func (s *Store) SaveMatchState(sessionCode, stateJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO match_state (session_code, state_json, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_code) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at
	`, sessionCode, stateJSON)
	return err
}

// GetMatchState retrieves match state JSON.
func (s *Store) GetMatchState(sessionCode string) (string, error) {
	var stateJSON string
	err := s.db.QueryRow("SELECT state_json FROM match_state WHERE session_code = ?", sessionCode).Scan(&stateJSON)
	return stateJSON, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

package history

import (
	"database/sql"
	"time"

	"github.com/oomph-ac/frontline/oerror"
	_ "modernc.org/sqlite"
)

// Store keeps the history of the sessions played on this machine in an SQLite database: when they were
// played, how they ended, the kills seen and the final scores.
type Store struct {
	conn *sql.DB
}

// Session is a session recorded in the store.
type Session struct {
	ID        string
	Username  string
	URL       string
	StartedAt time.Time
	EndedAt   time.Time
	// EndReason is empty while the session is being played.
	EndReason string
}

// Score is the final score of a participant of a session.
type Score struct {
	PlayerID string
	Username string
	Score    int
}

// Open opens the database at path, creating it if needed.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oerror.New("unable to open history: %v", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, oerror.New("unable to open history: %v", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		url TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL DEFAULT 0,
		end_reason TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS kills (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		killer TEXT NOT NULL,
		victim TEXT NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scores (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		player_id TEXT NOT NULL,
		username TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (session_id, player_id)
	);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return oerror.New("unable to migrate history: %v", err)
	}
	return nil
}

// Begin records the start of a session.
func (s *Store) Begin(id, username, url string, at time.Time) error {
	_, err := s.conn.Exec(`INSERT INTO sessions (id, username, url, started_at) VALUES (?, ?, ?, ?)`,
		id, username, url, at.UnixMilli())
	if err != nil {
		return oerror.New("unable to record session %s: %v", id, err)
	}
	return nil
}

// RecordKill records a kill seen during a session.
func (s *Store) RecordKill(sessionID, killer, victim string, at time.Time) error {
	_, err := s.conn.Exec(`INSERT INTO kills (session_id, killer, victim, at) VALUES (?, ?, ?, ?)`,
		sessionID, killer, victim, at.UnixMilli())
	if err != nil {
		return oerror.New("unable to record kill: %v", err)
	}
	return nil
}

// End records the end of a session along with the final scores.
func (s *Store) End(id string, at time.Time, reason string, scores []Score) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return oerror.New("unable to record end of session %s: %v", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE sessions SET ended_at = ?, end_reason = ? WHERE id = ?`, at.UnixMilli(), reason, id); err != nil {
		return oerror.New("unable to record end of session %s: %v", id, err)
	}
	for _, sc := range scores {
		_, err := tx.Exec(`INSERT OR REPLACE INTO scores (session_id, player_id, username, score) VALUES (?, ?, ?, ?)`,
			id, sc.PlayerID, sc.Username, sc.Score)
		if err != nil {
			return oerror.New("unable to record score of %s: %v", sc.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return oerror.New("unable to record end of session %s: %v", id, err)
	}
	return nil
}

// Sessions returns the last sessions recorded, most recent first.
func (s *Store) Sessions(limit int) ([]Session, error) {
	rows, err := s.conn.Query(`SELECT id, username, url, started_at, ended_at, end_reason FROM sessions
		ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, oerror.New("unable to query sessions: %v", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess         Session
			started, end int64
		)
		if err := rows.Scan(&sess.ID, &sess.Username, &sess.URL, &started, &end, &sess.EndReason); err != nil {
			return nil, oerror.New("unable to read session: %v", err)
		}
		sess.StartedAt = time.UnixMilli(started)
		if end != 0 {
			sess.EndedAt = time.UnixMilli(end)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Kills returns how many kills were recorded for the username passed, over every session.
func (s *Store) Kills(username string) (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM kills WHERE killer = ?`, username).Scan(&n); err != nil {
		return 0, oerror.New("unable to count kills: %v", err)
	}
	return n, nil
}

// Scores returns the final scores of a session, highest first.
func (s *Store) Scores(sessionID string) ([]Score, error) {
	rows, err := s.conn.Query(`SELECT player_id, username, score FROM scores WHERE session_id = ?
		ORDER BY score DESC, username ASC`, sessionID)
	if err != nil {
		return nil, oerror.New("unable to query scores: %v", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.PlayerID, &sc.Username, &sc.Score); err != nil {
			return nil, oerror.New("unable to read score: %v", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

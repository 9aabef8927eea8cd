package parking

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SessionStore persists the one saved login across runs. It is a single-row
// SQLite table: the token string plus the JSON-encoded user profile, read
// once at startup and cleared on logout. Nothing else is ever cached locally.
type SessionStore struct {
	db *sql.DB
}

// OpenSessionStore opens (or creates) the session database at dbPath.
func OpenSessionStore(dbPath string) (*SessionStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS session (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        token TEXT NOT NULL,
        user_json TEXT NOT NULL,
        saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return &SessionStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error { return s.db.Close() }

// Restore yields the previously saved session, or nil when none exists.
func (s *SessionStore) Restore() (*Session, error) {
	var token, userJSON string
	err := s.db.QueryRow(`SELECT token, user_json FROM session WHERE id=1`).
		Scan(&token, &userJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		// A corrupt row is as good as no session.
		return nil, nil
	}
	return &Session{Token: token, User: user}, nil
}

// Save commits a new session, replacing any previous one.
func (s *SessionStore) Save(user User, token string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO session(id, token, user_json) VALUES(1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET token=excluded.token,
            user_json=excluded.user_json, saved_at=CURRENT_TIMESTAMP`,
		token, string(userJSON))
	return err
}

// Clear removes the saved session.
func (s *SessionStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id=1`)
	return err
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Serialize access on one connection: SQLite allows a single writer, and
	// a pooled ":memory:" DSN would otherwise hand each connection its own
	// empty database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS profiles (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        birth_date TEXT NOT NULL,
        birth_time TEXT NOT NULL,
        birth_location TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        role TEXT NOT NULL CHECK (role IN ('user', 'model')),
        content TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS readings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        profile_id TEXT NOT NULL,
        kind TEXT NOT NULL CHECK (kind IN ('dossier', 'moon')),
        payload TEXT NOT NULL, -- raw JSON
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (profile_id) REFERENCES profiles (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceProfile installs a new live profile, atomically clearing the prior
// profile, transcript and readings in the same transaction. Exactly one
// profile is live at a time.
func (s *SQLiteStore) ReplaceProfile(p *Profile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin profile transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM readings",
		"DELETE FROM messages",
		"DELETE FROM profiles",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear previous session: %w", err)
		}
	}

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	_, err = tx.Exec(
		"INSERT INTO profiles (id, name, birth_date, birth_time, birth_location, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.BirthDate, p.BirthTime, p.BirthLocation, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return tx.Commit()
}

// GetProfile returns the live profile, or nil if none was submitted yet.
func (s *SQLiteStore) GetProfile() (*Profile, error) {
	var p Profile
	err := s.db.QueryRow("SELECT id, name, birth_date, birth_time, birth_location, created_at FROM profiles LIMIT 1").
		Scan(&p.ID, &p.Name, &p.BirthDate, &p.BirthTime, &p.BirthLocation, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}

// Message methods
func (s *SQLiteStore) CreateMessage(msg *Message) error {
	msg.ID = uuid.NewString() // Ensure ID is set
	msg.Timestamp = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO messages (id, role, content, timestamp) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

// GetMessages returns the transcript in insertion order.
func (s *SQLiteStore) GetMessages(limit int, offset int) ([]Message, error) {
	query := "SELECT id, role, content, timestamp FROM messages ORDER BY timestamp ASC, rowid ASC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// SaveReading stores a generated payload for the given profile, replacing any
// prior reading of the same kind. If the profile is no longer live (a new one
// was submitted while the generation was in flight) the result is discarded
// silently.
func (s *SQLiteStore) SaveReading(profileID, kind, payload string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reading transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM profiles WHERE id = ?", profileID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil // stale result for a superseded profile
	}
	if err != nil {
		return fmt.Errorf("failed to verify profile for reading: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM readings WHERE profile_id = ? AND kind = ?", profileID, kind); err != nil {
		return fmt.Errorf("failed to clear previous reading: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO readings (profile_id, kind, payload) VALUES (?, ?, ?)", profileID, kind, payload); err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return tx.Commit()
}

// GetReading returns the stored reading of the given kind for the profile, or
// nil if absent.
func (s *SQLiteStore) GetReading(profileID, kind string) (*Reading, error) {
	var r Reading
	err := s.db.QueryRow(
		"SELECT id, profile_id, kind, payload, created_at FROM readings WHERE profile_id = ? AND kind = ?",
		profileID, kind,
	).Scan(&r.ID, &r.ProfileID, &r.Kind, &r.Payload, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}
	return &r, nil
}

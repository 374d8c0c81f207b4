package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cadence/internal/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		frequency TEXT NOT NULL,
		priority INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		owner_id TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS habit_completions (
		habit_id TEXT NOT NULL,
		day TEXT NOT NULL,
		PRIMARY KEY (habit_id, day),
		FOREIGN KEY (habit_id) REFERENCES habits(id)
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		birthday TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_user_id TEXT NOT NULL DEFAULT ''
	);`,
	`INSERT OR IGNORE INTO session (id, current_user_id) VALUES (1, '');`,
}

// SQLiteStore keeps the same wholesale snapshot contract as JSONStore: every
// save rewrites the full habit (or auth) state inside one transaction.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) LoadHabits() (HabitSnapshot, error) {
	if err := s.open(); err != nil {
		return HabitSnapshot{}, err
	}

	snap := HabitSnapshot{Version: SnapshotVersion, Habits: []models.Habit{}}

	rows, err := s.db.Query(`SELECT id, name, frequency, priority, created_at, owner_id FROM habits`)
	if err != nil {
		return HabitSnapshot{}, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var h models.Habit
		var createdAt string
		if err := rows.Scan(&h.ID, &h.Name, &h.Frequency, &h.Priority, &createdAt, &h.OwnerID); err != nil {
			return HabitSnapshot{}, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return HabitSnapshot{}, fmt.Errorf("failed to parse habit created_at: %w", err)
		}
		h.CompletedDates = []string{}
		index[h.ID] = len(snap.Habits)
		snap.Habits = append(snap.Habits, h)
	}
	if err := rows.Err(); err != nil {
		return HabitSnapshot{}, fmt.Errorf("failed to read habits: %w", err)
	}

	crows, err := s.db.Query(`SELECT habit_id, day FROM habit_completions ORDER BY day`)
	if err != nil {
		return HabitSnapshot{}, fmt.Errorf("failed to query completions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var habitID, day string
		if err := crows.Scan(&habitID, &day); err != nil {
			return HabitSnapshot{}, fmt.Errorf("failed to scan completion: %w", err)
		}
		if i, ok := index[habitID]; ok {
			snap.Habits[i].CompletedDates = append(snap.Habits[i].CompletedDates, day)
		}
	}
	if err := crows.Err(); err != nil {
		return HabitSnapshot{}, fmt.Errorf("failed to read completions: %w", err)
	}

	return snap, nil
}

func (s *SQLiteStore) SaveHabits(snap HabitSnapshot) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habit_completions`); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	for _, h := range snap.Habits {
		_, err := tx.Exec(
			`INSERT INTO habits (id, name, frequency, priority, created_at, owner_id) VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, string(h.Frequency), h.Priority, h.CreatedAt.Format(time.RFC3339Nano), h.OwnerID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
		for _, day := range h.CompletedDates {
			if _, err := tx.Exec(`INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)`, h.ID, day); err != nil {
				return fmt.Errorf("failed to insert completion %s/%s: %w", h.ID, day, err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadAuth() (AuthSnapshot, error) {
	if err := s.open(); err != nil {
		return AuthSnapshot{}, err
	}

	snap := AuthSnapshot{Version: SnapshotVersion, Users: []models.User{}}

	rows, err := s.db.Query(`SELECT id, name, email, birthday, gender, password_hash, created_at FROM users`)
	if err != nil {
		return AuthSnapshot{}, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Birthday, &u.Gender, &u.PasswordHash, &createdAt); err != nil {
			return AuthSnapshot{}, fmt.Errorf("failed to scan user: %w", err)
		}
		u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return AuthSnapshot{}, fmt.Errorf("failed to parse user created_at: %w", err)
		}
		snap.Users = append(snap.Users, u)
	}
	if err := rows.Err(); err != nil {
		return AuthSnapshot{}, fmt.Errorf("failed to read users: %w", err)
	}

	err = s.db.QueryRow(`SELECT current_user_id FROM session WHERE id = 1`).Scan(&snap.Session.CurrentUserID)
	if err != nil && err != sql.ErrNoRows {
		return AuthSnapshot{}, fmt.Errorf("failed to read session: %w", err)
	}

	return snap, nil
}

func (s *SQLiteStore) SaveAuth(snap AuthSnapshot) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	for _, u := range snap.Users {
		_, err := tx.Exec(
			`INSERT INTO users (id, name, email, birthday, gender, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.Birthday, u.Gender, u.PasswordHash, u.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO session (id, current_user_id) VALUES (1, ?)`, snap.Session.CurrentUserID); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ConfigPath() string { return s.path }

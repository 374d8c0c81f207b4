package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cadence/internal/models"
)

// JSONStore persists snapshots as two pretty-printed JSON files: the habit
// collection at the configured path and the auth blob in a sibling
// "<base>.auth.json" file, mirroring the two storage keys the store model
// calls for.
type JSONStore struct {
	path string
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{path: configPath}
}

func (s *JSONStore) authPath() string {
	return strings.TrimSuffix(s.path, ".json") + ".auth.json"
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.SaveHabits(HabitSnapshot{Version: SnapshotVersion}); err != nil {
		return err
	}
	return s.SaveAuth(AuthSnapshot{Version: SnapshotVersion})
}

func (s *JSONStore) LoadHabits() (HabitSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return HabitSnapshot{}, ErrNotInitialized
		}
		return HabitSnapshot{}, fmt.Errorf("failed to read storage: %w", err)
	}

	var snap HabitSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return HabitSnapshot{}, fmt.Errorf("failed to parse storage: %w", err)
	}

	if snap.Habits == nil {
		snap.Habits = []models.Habit{}
	}
	return snap, nil
}

func (s *JSONStore) SaveHabits(snap HabitSnapshot) error {
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	return s.writeFile(s.path, snap)
}

func (s *JSONStore) LoadAuth() (AuthSnapshot, error) {
	data, err := os.ReadFile(s.authPath())
	if err != nil {
		if os.IsNotExist(err) {
			return AuthSnapshot{}, ErrNotInitialized
		}
		return AuthSnapshot{}, fmt.Errorf("failed to read auth storage: %w", err)
	}

	var snap AuthSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return AuthSnapshot{}, fmt.Errorf("failed to parse auth storage: %w", err)
	}
	return snap, nil
}

func (s *JSONStore) SaveAuth(snap AuthSnapshot) error {
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	return s.writeFile(s.authPath(), snap)
}

func (s *JSONStore) writeFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

// ConfigPath returns the path of the habit snapshot file.
//
// Concurrency note: running multiple cadence processes against the same
// config path at the same time is not supported and may lose writes.
func (s *JSONStore) ConfigPath() string { return s.path }

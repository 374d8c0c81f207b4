package storage

import (
	"errors"

	"cadence/internal/models"
)

// SnapshotVersion is written into every persisted snapshot.
const SnapshotVersion = 1

// ErrNotInitialized is returned by Load* when the backing file has never been
// created. Callers should direct the user to 'cadence init'.
var ErrNotInitialized = errors.New("storage not initialized, run 'cadence init' first")

// HabitSnapshot is the whole habit collection, persisted as one unit after
// every mutation and read wholesale at hydration.
type HabitSnapshot struct {
	Version int            `json:"version"`
	Habits  []models.Habit `json:"habits"`
}

// Session records which user, if any, is currently logged in.
type Session struct {
	CurrentUserID string `json:"current_user_id,omitempty"`
}

// AuthSnapshot is the peer auth store's blob: the local user registry plus
// the active session.
type AuthSnapshot struct {
	Version int           `json:"version"`
	Users   []models.User `json:"users"`
	Session Session       `json:"session"`
}

// Provider is the durable storage backend. The in-memory stores treat it as
// an opaque snapshot sink: no partial or delta writes.
type Provider interface {
	Init() error

	LoadHabits() (HabitSnapshot, error)
	SaveHabits(HabitSnapshot) error

	LoadAuth() (AuthSnapshot, error)
	SaveAuth(AuthSnapshot) error

	Close() error
	ConfigPath() string
}

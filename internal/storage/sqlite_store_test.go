package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cadence/internal/models"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "cadence.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_LoadBeforeInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "cadence.db"))
	defer store.Close()

	if _, err := store.LoadHabits(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LoadHabits error = %v, want ErrNotInitialized", err)
	}
	if err := store.SaveHabits(HabitSnapshot{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SaveHabits error = %v, want ErrNotInitialized", err)
	}
}

func TestSQLiteStore_EmptyAfterInit(t *testing.T) {
	store := newSQLiteStore(t)

	snap, err := store.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits failed: %v", err)
	}
	if len(snap.Habits) != 0 {
		t.Errorf("Expected no habits, got %d", len(snap.Habits))
	}

	auth, err := store.LoadAuth()
	if err != nil {
		t.Fatalf("LoadAuth failed: %v", err)
	}
	if len(auth.Users) != 0 || auth.Session.CurrentUserID != "" {
		t.Errorf("Expected empty auth state, got %+v", auth)
	}
}

func TestSQLiteStore_HabitsRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	created := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	want := HabitSnapshot{
		Version: SnapshotVersion,
		Habits: []models.Habit{
			{
				ID:             "h1",
				Name:           "Drink water",
				Frequency:      models.FrequencyDaily,
				Priority:       2,
				CreatedAt:      created,
				CompletedDates: []string{"2024-01-09", "2024-01-10"},
				OwnerID:        "u1",
			},
			{
				ID:             "h2",
				Name:           "Plan week",
				Frequency:      models.FrequencyWeekly,
				Priority:       5,
				CreatedAt:      created.Add(time.Minute),
				CompletedDates: []string{},
				OwnerID:        "u2",
			},
		},
	}

	if err := store.SaveHabits(want); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	got, err := store.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits failed: %v", err)
	}

	if len(got.Habits) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(got.Habits))
	}

	byID := make(map[string]models.Habit)
	for _, h := range got.Habits {
		byID[h.ID] = h
	}
	h1 := byID["h1"]
	if h1.Name != "Drink water" || h1.Frequency != models.FrequencyDaily ||
		h1.Priority != 2 || h1.OwnerID != "u1" {
		t.Errorf("Habit fields not preserved: %+v", h1)
	}
	if !h1.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", h1.CreatedAt, created)
	}
	if len(h1.CompletedDates) != 2 || h1.CompletedDates[0] != "2024-01-09" || h1.CompletedDates[1] != "2024-01-10" {
		t.Errorf("CompletedDates not preserved: %v", h1.CompletedDates)
	}
	if byID["h2"].CompletedDates == nil || len(byID["h2"].CompletedDates) != 0 {
		t.Errorf("Expected empty completion list, got %v", byID["h2"].CompletedDates)
	}
}

func TestSQLiteStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	store := newSQLiteStore(t)
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	first := HabitSnapshot{Habits: []models.Habit{
		{ID: "h1", Name: "Old", Frequency: models.FrequencyDaily, Priority: 3,
			CreatedAt: created, CompletedDates: []string{"2024-01-10"}, OwnerID: "u1"},
	}}
	if err := store.SaveHabits(first); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}

	second := HabitSnapshot{Habits: []models.Habit{
		{ID: "h2", Name: "New", Frequency: models.FrequencyDaily, Priority: 1,
			CreatedAt: created, CompletedDates: []string{}, OwnerID: "u1"},
	}}
	if err := store.SaveHabits(second); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}

	got, err := store.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits failed: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].ID != "h2" {
		t.Errorf("Expected only h2 after replace, got %+v", got.Habits)
	}
}

func TestSQLiteStore_AuthRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	want := AuthSnapshot{
		Users: []models.User{
			{
				ID:           "u1",
				Name:         "Ada",
				Email:        "ada@example.com",
				Birthday:     "1990-12-10",
				Gender:       "female",
				PasswordHash: "$2a$10$fakehash",
				CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Session: Session{CurrentUserID: "u1"},
	}

	if err := store.SaveAuth(want); err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}
	got, err := store.LoadAuth()
	if err != nil {
		t.Fatalf("LoadAuth failed: %v", err)
	}

	if len(got.Users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(got.Users))
	}
	u := got.Users[0]
	if u.Name != "Ada" || u.Email != "ada@example.com" || u.Birthday != "1990-12-10" ||
		u.Gender != "female" || u.PasswordHash != "$2a$10$fakehash" {
		t.Errorf("User fields not preserved: %+v", u)
	}
	if got.Session.CurrentUserID != "u1" {
		t.Errorf("Session not preserved: %+v", got.Session)
	}

	// Logging out clears the session but keeps the account.
	want.Session.CurrentUserID = ""
	if err := store.SaveAuth(want); err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}
	got, err = store.LoadAuth()
	if err != nil {
		t.Fatalf("LoadAuth failed: %v", err)
	}
	if got.Session.CurrentUserID != "" || len(got.Users) != 1 {
		t.Errorf("Expected cleared session with user kept, got %+v", got)
	}
}

func TestSQLiteStore_ReopenSeesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.db")
	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	snap := HabitSnapshot{Habits: []models.Habit{
		{ID: "h1", Name: "Water", Frequency: models.FrequencyDaily, Priority: 3,
			CreatedAt: created, CompletedDates: []string{}, OwnerID: "u1"},
	}}
	if err := store.SaveHabits(snap); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewSQLiteStore(path)
	defer reopened.Close()
	got, err := reopened.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits after reopen failed: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].Name != "Water" {
		t.Errorf("Expected persisted habit after reopen, got %+v", got.Habits)
	}
}

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cadence/internal/models"
	"cadence/internal/storage"
)

func writeStore(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestCreateBackup_JSONIncludesAuthSibling(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.json", `{"version":1,"habits":[]}`)
	writeStore(t, dir, "cadence.auth.json", `{"version":1}`)

	m := NewManager(storePath)
	written, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 files backed up, got %d: %v", len(written), written)
	}
	for _, path := range written {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Backup unreadable: %v", err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Backup %s is empty", path)
		}
	}
}

func TestCreateBackup_MissingStore(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "cadence.db"))
	if _, err := m.CreateBackup(); err == nil {
		t.Error("Expected error when store does not exist")
	}
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.json", `{"version":1,"habits":[]}`)
	m := NewManager(storePath)

	// No backup directory yet.
	infos, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no backups, got %d", len(infos))
	}

	if _, err := m.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	infos, err = m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(infos))
	}
	if infos[0].Size == 0 {
		t.Error("Expected non-zero backup size")
	}
}

func TestListBackups_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.json", "{}")
	m := NewManager(storePath)

	if err := os.MkdirAll(m.BackupDir(), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	writeStore(t, m.BackupDir(), "cadence-20240110-090000-cadence.json", "{}")
	writeStore(t, m.BackupDir(), "cadence-20240110-090000-cadence.auth.json", "{}")
	writeStore(t, m.BackupDir(), "notes.txt", "unrelated")

	infos, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	// Only backups of the habit store file itself are listed.
	if len(infos) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(infos))
	}
	if filepath.Base(infos[0].Path) != "cadence-20240110-090000-cadence.json" {
		t.Errorf("Unexpected backup listed: %s", infos[0].Path)
	}
}

func TestRestoreBackup(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.json", "original")
	m := NewManager(storePath)

	backups, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	writeStore(t, dir, "cadence.json", "modified")

	if err := m.RestoreBackup(backups[0]); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	data, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("Store = %q, want restored original", data)
	}

	// A safety backup of the modified state was taken before the restore.
	infos, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(infos) < 2 {
		t.Errorf("Expected a safety backup plus the original, got %d", len(infos))
	}
}

func TestRestoreBackup_MissingBackup(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.json", "data")
	m := NewManager(storePath)

	if err := m.RestoreBackup(filepath.Join(m.BackupDir(), "nope")); err == nil {
		t.Error("Expected error for missing backup file")
	}
}

func newSQLiteStoreWithHabit(t *testing.T, name string) (*storage.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cadence.db")
	store := storage.NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	snap := storage.HabitSnapshot{Habits: []models.Habit{
		{ID: "h1", Name: name, Frequency: models.FrequencyDaily, Priority: 3,
			CreatedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			CompletedDates: []string{"2024-01-10"}, OwnerID: "u1"},
	}}
	if err := store.SaveHabits(snap); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	return store, path
}

func TestCreateBackup_SQLiteWithLiveConnection(t *testing.T) {
	// The source store stays open while the backup is taken; the snapshot
	// must still be a consistent, openable database.
	_, path := newSQLiteStoreWithHabit(t, "Water")
	m := NewManager(path)

	written, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("Expected 1 file backed up, got %d", len(written))
	}

	if err := verifyDatabase(written[0]); err != nil {
		t.Fatalf("Backup is not a valid database: %v", err)
	}

	restored := storage.NewSQLiteStore(written[0])
	defer restored.Close()
	snap, err := restored.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits from backup failed: %v", err)
	}
	if len(snap.Habits) != 1 || snap.Habits[0].Name != "Water" {
		t.Errorf("Backup does not contain the habit: %+v", snap.Habits)
	}
}

func TestRestoreBackup_SQLiteRoundTrip(t *testing.T) {
	store, path := newSQLiteStoreWithHabit(t, "Original")
	m := NewManager(path)

	backups, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	overwrite := storage.HabitSnapshot{Habits: []models.Habit{
		{ID: "h2", Name: "Modified", Frequency: models.FrequencyDaily, Priority: 1,
			CreatedAt: time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC),
			CompletedDates: []string{}, OwnerID: "u1"},
	}}
	if err := store.SaveHabits(overwrite); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := m.RestoreBackup(backups[0]); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	reopened := storage.NewSQLiteStore(path)
	defer reopened.Close()
	snap, err := reopened.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits after restore failed: %v", err)
	}
	if len(snap.Habits) != 1 || snap.Habits[0].Name != "Original" {
		t.Errorf("Expected restored habit, got %+v", snap.Habits)
	}
}

func TestRestoreBackup_RejectsInvalidDatabase(t *testing.T) {
	store, path := newSQLiteStoreWithHabit(t, "Water")
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	m := NewManager(path)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := m.RestoreBackup(bogus); err == nil {
		t.Fatal("Expected restore of a non-database file to fail")
	}

	// The store was not touched by the rejected restore.
	reopened := storage.NewSQLiteStore(path)
	defer reopened.Close()
	snap, err := reopened.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits failed: %v", err)
	}
	if len(snap.Habits) != 1 || snap.Habits[0].Name != "Water" {
		t.Errorf("Store changed by rejected restore: %+v", snap.Habits)
	}
}

func TestRotate_KeepsNewestPerFile(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir, "cadence.db", "data")
	m := NewManager(storePath)

	if err := os.MkdirAll(m.BackupDir(), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for i := 0; i < MaxBackups+3; i++ {
		name := fmt.Sprintf("cadence-20240101-%06d-cadence.db", i)
		writeStore(t, m.BackupDir(), name, "old")
	}
	// A different original file is rotated independently.
	writeStore(t, m.BackupDir(), "cadence-20240101-000000-other.db", "old")

	if err := m.rotate(); err != nil {
		t.Fatalf("rotate failed: %v", err)
	}

	entries, err := os.ReadDir(m.BackupDir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	var kept, other int
	for _, entry := range entries {
		switch {
		case entry.Name() == "cadence-20240101-000000-other.db":
			other++
		default:
			kept++
		}
	}
	if kept != MaxBackups {
		t.Errorf("Expected %d backups kept, got %d", MaxBackups, kept)
	}
	if other != 1 {
		t.Error("Backup of a different file was rotated away")
	}

	// The oldest entries are the ones dropped.
	for _, entry := range entries {
		if entry.Name() == "cadence-20240101-000000-cadence.db" ||
			entry.Name() == "cadence-20240101-000001-cadence.db" ||
			entry.Name() == "cadence-20240101-000002-cadence.db" {
			t.Errorf("Oldest backup %s survived rotation", entry.Name())
		}
	}
}

package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxBackups is the maximum number of backups to keep per file.
	MaxBackups = 14
	// BackupDirName is the name of the backup directory.
	BackupDirName = "backups"
	// BackupFilePrefix is the prefix for backup files.
	BackupFilePrefix = "cadence-"
)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager copies the snapshot file (and its auth sibling, when the JSON
// backend is in use) into a rotating backup directory next to the store.
type Manager struct {
	storePath string
	backupDir string
}

func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), BackupDirName),
	}
}

func (m *Manager) BackupDir() string { return m.backupDir }

// usesSQLite reports whether the store file is a SQLite database rather than
// a JSON snapshot.
func (m *Manager) usesSQLite() bool {
	return !strings.HasSuffix(m.storePath, ".json")
}

// siblings returns the files that make up one logical snapshot: the store
// file itself plus the auth blob for the JSON backend.
func (m *Manager) siblings() []string {
	paths := []string{m.storePath}
	if strings.HasSuffix(m.storePath, ".json") {
		authPath := strings.TrimSuffix(m.storePath, ".json") + ".auth.json"
		if _, err := os.Stat(authPath); err == nil {
			paths = append(paths, authPath)
		}
	}
	return paths
}

// CreateBackup copies the current snapshot files into the backup directory
// and rotates old backups. Returns the paths written.
func (m *Manager) CreateBackup() ([]string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("store does not exist: %s", m.storePath)
	}

	timestamp := time.Now().Format("20060102-150405")
	var written []string
	for _, src := range m.siblings() {
		name := fmt.Sprintf("%s%s-%s", BackupFilePrefix, timestamp, filepath.Base(src))
		dst := filepath.Join(m.backupDir, name)
		var err error
		if m.usesSQLite() {
			err = backupDatabase(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			return written, fmt.Errorf("failed to back up %s: %w", src, err)
		}
		written = append(written, dst)
	}

	if err := m.rotate(); err != nil {
		return written, fmt.Errorf("failed to rotate backups: %w", err)
	}
	return written, nil
}

// ListBackups returns the existing backups of the store file, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var infos []Info
	base := filepath.Base(m.storePath)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), BackupFilePrefix) {
			continue
		}
		if !strings.HasSuffix(entry.Name(), "-"+base) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: fi.ModTime(),
			Size:      fi.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// RestoreBackup replaces the store file with the given backup, taking a
// safety backup of the current state first. For the SQLite backend the
// backup is verified before it overwrites anything.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	if m.usesSQLite() {
		if err := verifyDatabase(backupPath); err != nil {
			return fmt.Errorf("backup file is corrupted or invalid: %w", err)
		}
	}

	if _, err := os.Stat(m.storePath); err == nil {
		if _, err := m.CreateBackup(); err != nil {
			return fmt.Errorf("failed to create safety backup before restore: %w", err)
		}
	}

	// Stage into a temp file and rename so a failed copy cannot leave a
	// half-written store behind.
	tempPath := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	if err := os.Rename(tempPath, m.storePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}

// backupDatabase snapshots a SQLite database with VACUUM INTO, which produces
// a consistent copy even while other connections hold the file open. Falls
// back to a plain copy when the engine does not support it.
func backupDatabase(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		return copyFile(src, dst)
	}
	return nil
}

// verifyDatabase checks that path opens as a SQLite database.
func verifyDatabase(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

// rotate keeps at most MaxBackups backups per backed-up file.
func (m *Manager) rotate() error {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return err
	}

	// Group by the original file name the backup was taken from.
	groups := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, BackupFilePrefix) {
			continue
		}
		// cadence-20060102-150405-<original>
		rest := strings.TrimPrefix(name, BackupFilePrefix)
		parts := strings.SplitN(rest, "-", 3)
		if len(parts) != 3 {
			continue
		}
		groups[parts[2]] = append(groups[parts[2]], name)
	}

	for _, names := range groups {
		if len(names) <= MaxBackups {
			continue
		}
		// Timestamped names sort oldest first.
		sort.Strings(names)
		for _, name := range names[:len(names)-MaxBackups] {
			if err := os.Remove(filepath.Join(m.backupDir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cadence/internal/models"
	"cadence/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("an account with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in, run 'cadence login' first")
	ErrMissingFields      = errors.New("name, email, and password are required")
)

// Store is the local user registry and session holder. It supplies the
// current user's identifier that scopes every habit query and mutation; when
// no user is logged in it reports the empty identifier and callers fall back
// to neutral results.
//
// Auth changes are rare, so unlike the habit repository it persists
// synchronously; a failed write is reported as a warning and the in-memory
// state stays authoritative.
type Store struct {
	mu      sync.Mutex
	users   []models.User
	session storage.Session

	store storage.Provider
	warn  func(error)
}

type Option func(*Store)

func WithWarnFunc(fn func(error)) Option {
	return func(s *Store) { s.warn = fn }
}

func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		store: provider,
		warn: func(err error) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted user registry and session. A corrupt payload
// starts the store empty with a warning; a missing store surfaces
// storage.ErrNotInitialized.
func (s *Store) Hydrate() error {
	snap, err := s.store.LoadAuth()
	if err != nil {
		if errors.Is(err, storage.ErrNotInitialized) {
			return err
		}
		s.warn(fmt.Errorf("failed to hydrate accounts, starting empty: %w", err))
		snap = storage.AuthSnapshot{Version: storage.SnapshotVersion}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.Users
	s.session = snap.Session
	return nil
}

func (s *Store) persistLocked() {
	snap := storage.AuthSnapshot{
		Version: storage.SnapshotVersion,
		Users:   make([]models.User, len(s.users)),
		Session: s.session,
	}
	copy(snap.Users, s.users)
	if err := s.store.SaveAuth(snap); err != nil {
		s.warn(fmt.Errorf("failed to persist accounts: %w", err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local account. The password is bcrypt-hashed before it
// touches persistence. Registering does not log the user in.
func (s *Store) Register(name, email, birthday, gender, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return models.User{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Birthday:     strings.TrimSpace(birthday),
		Gender:       strings.TrimSpace(gender),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	s.users = append(s.users, user)
	s.persistLocked()
	return user, nil
}

// Login verifies the credentials and opens a session. Unknown email and wrong
// password return the same error so account existence is not leaked.
func (s *Store) Login(email, password string) (models.User, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return models.User{}, ErrInvalidCredentials
		}
		s.session.CurrentUserID = u.ID
		s.persistLocked()
		return u, nil
	}
	return models.User{}, ErrInvalidCredentials
}

// Logout closes the current session. No-op when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentUserID == "" {
		return
	}
	s.session.CurrentUserID = ""
	s.persistLocked()
}

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == s.session.CurrentUserID && s.session.CurrentUserID != "" {
			return u, true
		}
	}
	return models.User{}, false
}

// CurrentUserID returns the active user's identifier, or "" when logged out.
// This is the owner identifier threaded through every habit operation.
func (s *Store) CurrentUserID() string {
	u, ok := s.CurrentUser()
	if !ok {
		return ""
	}
	return u.ID
}

// UpdateProfile edits the mutable profile fields of the logged-in user.
func (s *Store) UpdateProfile(name, birthday, gender string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentUserID == "" {
		return ErrNotLoggedIn
	}
	for i := range s.users {
		if s.users[i].ID == s.session.CurrentUserID {
			s.users[i].Name = name
			s.users[i].Birthday = strings.TrimSpace(birthday)
			s.users[i].Gender = strings.TrimSpace(gender)
			s.persistLocked()
			return nil
		}
	}
	return ErrNotLoggedIn
}

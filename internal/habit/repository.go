package habit

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"cadence/internal/dates"
	"cadence/internal/models"
	"cadence/internal/storage"
)

// writeQueueSize bounds the number of pending snapshot writes. The queue
// coalesces: when full, the oldest pending snapshot is dropped since a newer
// one supersedes it.
const writeQueueSize = 16

// Repository holds the in-memory habit collection and owns all mutation and
// derivation logic. Mutations apply atomically under the lock before any
// durable write begins; the persisted snapshot is written by a background
// goroutine and is fire-and-forget relative to the in-memory state. A crash
// between a mutation and the completion of its durable write loses that
// mutation on restart — accepted for a local single-device tool.
type Repository struct {
	mu       sync.RWMutex
	habits   []models.Habit
	hydrated bool

	// lastHash is the content hash of the most recently enqueued snapshot.
	// The persister zeroes it when a write fails so a later mutation that
	// restores identical content is not skipped while disk is stale.
	lastHash atomic.Uint64

	store storage.Provider
	clock dates.Clock
	warn  func(error)

	writes    chan storage.HabitSnapshot
	pending   sync.WaitGroup
	persisted chan struct{}
	closeOnce sync.Once
}

type Option func(*Repository)

// WithWarnFunc overrides where non-fatal persistence warnings are reported.
func WithWarnFunc(fn func(error)) Option {
	return func(r *Repository) { r.warn = fn }
}

func NewRepository(store storage.Provider, clock dates.Clock, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		clock: clock,
		warn: func(err error) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		},
		writes:    make(chan storage.HabitSnapshot, writeQueueSize),
		persisted: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.runPersister()
	return r
}

func (r *Repository) runPersister() {
	for snap := range r.writes {
		if err := r.store.SaveHabits(snap); err != nil {
			r.warn(fmt.Errorf("failed to persist habits: %w", err))
			r.lastHash.Store(0)
		}
		r.pending.Done()
	}
	close(r.persisted)
}

// Hydrate loads the persisted snapshot into memory. Called once at startup.
// A missing store surfaces storage.ErrNotInitialized; a corrupt payload is
// reported through the warn func and the repository starts from an empty
// collection rather than blocking the application.
func (r *Repository) Hydrate() error {
	snap, err := r.store.LoadHabits()
	if err != nil {
		if errors.Is(err, storage.ErrNotInitialized) {
			return err
		}
		r.warn(fmt.Errorf("failed to hydrate habits, starting empty (previous data may be lost): %w", err))
		snap = storage.HabitSnapshot{Version: storage.SnapshotVersion, Habits: []models.Habit{}}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.habits = snap.Habits
	r.hydrated = true
	if h, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil); err == nil {
		r.lastHash.Store(h)
	}
	return nil
}

// Hydrated reports whether the persisted snapshot has been loaded. Queries
// and mutations are not trusted before this returns true.
func (r *Repository) Hydrated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hydrated
}

// Close drains pending snapshot writes. Safe to call more than once.
func (r *Repository) Close() {
	r.closeOnce.Do(func() {
		close(r.writes)
		<-r.persisted
	})
}

// Flush blocks until every snapshot enqueued so far has been written.
func (r *Repository) Flush() {
	r.pending.Wait()
}

// snapshotLocked deep-copies the collection for the persister. Callers must
// hold at least a read lock.
func (r *Repository) snapshotLocked() storage.HabitSnapshot {
	habits := make([]models.Habit, len(r.habits))
	for i, h := range r.habits {
		habits[i] = h.Clone()
	}
	return storage.HabitSnapshot{Version: storage.SnapshotVersion, Habits: habits}
}

// enqueueLocked queues a durable write of the current collection, skipping it
// when the content is unchanged from the last queued snapshot. Callers must
// hold the write lock.
func (r *Repository) enqueueLocked() {
	snap := r.snapshotLocked()

	h, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil)
	if err == nil {
		if h != 0 && h == r.lastHash.Load() {
			return
		}
		r.lastHash.Store(h)
	}

	r.pending.Add(1)
	select {
	case r.writes <- snap:
	default:
		// Queue full: drop the oldest pending snapshot, it is superseded.
		select {
		case <-r.writes:
			r.pending.Done()
		default:
		}
		r.writes <- snap
	}
}

// Add appends a new habit for ownerID and queues a durable write. The name is
// trimmed before validation; frequency and priority outside their domains are
// contract violations. Duplicate names are allowed — uniqueness is on ID only.
func (r *Repository) Add(name string, frequency models.Frequency, priority int, ownerID string) (models.Habit, error) {
	name, err := models.ValidateName(name)
	if err != nil {
		return models.Habit{}, err
	}
	if !frequency.IsValid() {
		return models.Habit{}, models.ErrInvalidFrequency
	}
	if !models.ValidPriority(priority) {
		return models.Habit{}, models.ErrInvalidPriority
	}

	h := models.Habit{
		ID:             uuid.New().String(),
		Name:           name,
		Frequency:      frequency,
		Priority:       priority,
		CreatedAt:      r.clock.Now(),
		CompletedDates: []string{},
		OwnerID:        ownerID,
	}

	r.mu.Lock()
	r.habits = append(r.habits, h)
	r.enqueueLocked()
	r.mu.Unlock()

	return h.Clone(), nil
}

// Edit updates the three mutable fields of the habit matching (id, ownerID).
// A mismatched or unknown pair is a silent no-op so a stale or forged ID
// cannot probe or alter another user's habits. Field validation still runs
// first: invalid input is an error regardless of whether the habit exists.
func (r *Repository) Edit(id, name string, frequency models.Frequency, priority int, ownerID string) error {
	name, err := models.ValidateName(name)
	if err != nil {
		return err
	}
	if !frequency.IsValid() {
		return models.ErrInvalidFrequency
	}
	if !models.ValidPriority(priority) {
		return models.ErrInvalidPriority
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.habits {
		if r.habits[i].ID == id && r.habits[i].OwnerID == ownerID {
			r.habits[i].Name = name
			r.habits[i].Frequency = frequency
			r.habits[i].Priority = priority
			r.enqueueLocked()
			return nil
		}
	}
	return nil
}

// Remove deletes the habit matching (id, ownerID) along with its completion
// history. No-op if not found or owned by someone else.
func (r *Repository) Remove(id, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.habits {
		if r.habits[i].ID == id && r.habits[i].OwnerID == ownerID {
			r.habits = append(r.habits[:i], r.habits[i+1:]...)
			r.enqueueLocked()
			return
		}
	}
}

// ToggleCompletion marks the habit done on day if it is not, and undoes the
// mark if it is. Toggling twice with the same arguments restores the prior
// state exactly.
func (r *Repository) ToggleCompletion(id, day, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.habits {
		if r.habits[i].ID != id || r.habits[i].OwnerID != ownerID {
			continue
		}
		h := &r.habits[i]
		removed := false
		for j, d := range h.CompletedDates {
			if d == day {
				h.CompletedDates = append(h.CompletedDates[:j], h.CompletedDates[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			h.CompletedDates = append(h.CompletedDates, day)
		}
		r.enqueueLocked()
		return
	}
}

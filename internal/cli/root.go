package cli

import (
	"fmt"
	"strings"

	"cadence/internal/auth"
	"cadence/internal/habit"
	"cadence/internal/models"
	"cadence/internal/storage"
)

type Context struct {
	Config string
	Store  storage.Provider
	Habits *habit.Repository
	Auth   *auth.Store
}

// Load hydrates both stores. Commands call this first, the way storage is
// loaded per command invocation.
func (ctx *Context) Load() error {
	if ctx.Habits.Hydrated() {
		return nil
	}
	if err := ctx.Habits.Hydrate(); err != nil {
		return err
	}
	return ctx.Auth.Hydrate()
}

// RequireUser returns the active user's ID or an error directing the user to
// log in.
func (ctx *Context) RequireUser() (string, error) {
	if id := ctx.Auth.CurrentUserID(); id != "" {
		return id, nil
	}
	return "", auth.ErrNotLoggedIn
}

// resolveHabit locates one of the owner's habits by full ID or by unique ID
// prefix, so commands accept the short IDs shown by 'cadence list'.
func (ctx *Context) resolveHabit(id, ownerID string) (models.Habit, error) {
	if h, ok := ctx.Habits.HabitByID(id, ownerID); ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range ctx.Habits.UserHabits(ownerID) {
		if strings.HasPrefix(h.ID, id) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	default:
		return models.Habit{}, fmt.Errorf("ambiguous habit id %q matches %d habits", id, len(matches))
	}
}

func shortID(h models.Habit) string {
	if len(h.ID) > 8 {
		return h.ID[:8]
	}
	return h.ID
}

func completionMark(done bool) string {
	if done {
		return "✓"
	}
	return "○"
}

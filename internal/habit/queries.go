package habit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cadence/internal/dates"
	"cadence/internal/models"
)

// Filter selects a subset of a user's habits for listing.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterCompleted Filter = "completed"
)

func ParseFilter(input string) (Filter, error) {
	f := Filter(strings.TrimSpace(strings.ToLower(input)))
	switch f {
	case FilterAll, FilterToday, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter: %q (want all, today, or completed)", input)
	}
}

// Today returns the current day key as seen by the repository's clock. All
// surfaces toggle and render "today" through this so they cannot drift from
// the aggregations.
func (r *Repository) Today() string {
	return dates.Today(r.clock)
}

// DayProgress is one entry of the trailing seven-day series.
type DayProgress struct {
	Day       string // short weekday label, e.g. "Mon"
	Date      string // date key, e.g. "2024-01-10"
	Completed int
	Total     int
}

// UserHabits returns the owner's habits in canonical display order: priority
// ascending (1 first), then most recently created first. Every other listing
// query builds on this ordering.
//
// An empty or unknown ownerID yields an empty slice, never an error, so an
// unauthenticated session renders as "no habits" rather than failing.
func (r *Repository) UserHabits(ownerID string) []models.Habit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userHabitsLocked(ownerID)
}

func (r *Repository) userHabitsLocked(ownerID string) []models.Habit {
	out := []models.Habit{}
	if ownerID == "" {
		return out
	}
	for _, h := range r.habits {
		if h.OwnerID == ownerID {
			out = append(out, h.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// HabitByID is an owner-scoped lookup. The second return is false when the
// habit is absent or owned by someone else; existence is never leaked across
// users.
func (r *Repository) HabitByID(id, ownerID string) (models.Habit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.habits {
		if h.ID == id && h.OwnerID == ownerID {
			return h.Clone(), true
		}
	}
	return models.Habit{}, false
}

// CompletedToday reports whether the habit is marked done on the current
// local calendar day.
func (r *Repository) CompletedToday(id, ownerID string) bool {
	today := dates.Today(r.clock)
	h, ok := r.HabitByID(id, ownerID)
	return ok && h.CompletedOn(today)
}

// TodaysProgress returns the percentage (0–100, rounded half-up) of the
// owner's daily habits completed today. Zero daily habits yields 0.
func (r *Repository) TodaysProgress(ownerID string) int {
	today := dates.Today(r.clock)

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	completed := 0
	for _, h := range r.habits {
		if h.OwnerID != ownerID || ownerID == "" || h.Frequency != models.FrequencyDaily {
			continue
		}
		total++
		if h.CompletedOn(today) {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// WeeklyProgress returns exactly seven entries covering the trailing seven
// calendar days inclusive of today, oldest first. Total is the owner's
// current daily-habit count for every entry: habit membership is evaluated at
// call time, not historically, so a habit added today counts toward days
// before it existed. That matches the shipped aggregation and is kept as is.
func (r *Repository) WeeklyProgress(ownerID string) []DayProgress {
	week := dates.TrailingDays(r.clock, 7)

	r.mu.RLock()
	daily := []models.Habit{}
	if ownerID != "" {
		for _, h := range r.habits {
			if h.OwnerID == ownerID && h.Frequency == models.FrequencyDaily {
				daily = append(daily, h.Clone())
			}
		}
	}
	r.mu.RUnlock()

	out := make([]DayProgress, 0, len(week))
	for _, day := range week {
		completed := 0
		for _, h := range daily {
			if h.CompletedOn(day) {
				completed++
			}
		}
		out = append(out, DayProgress{
			Day:       dates.DayLabel(day),
			Date:      day,
			Completed: completed,
			Total:     len(daily),
		})
	}
	return out
}

// HabitsByFilter narrows UserHabits: "all" is every owned habit, "today" is
// the daily-frequency habits (a frequency filter, not a schedule computation),
// and "completed" is the habits already marked done today. Relative order is
// the canonical one in all three cases.
func (r *Repository) HabitsByFilter(filter Filter, ownerID string) []models.Habit {
	today := dates.Today(r.clock)

	r.mu.RLock()
	base := r.userHabitsLocked(ownerID)
	r.mu.RUnlock()

	switch filter {
	case FilterToday:
		out := []models.Habit{}
		for _, h := range base {
			if h.Frequency == models.FrequencyDaily {
				out = append(out, h)
			}
		}
		return out
	case FilterCompleted:
		out := []models.Habit{}
		for _, h := range base {
			if h.CompletedOn(today) {
				out = append(out, h)
			}
		}
		return out
	default:
		return base
	}
}

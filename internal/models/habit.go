package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Frequency is the cadence on which a habit is tracked.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

func ParseFrequency(input string) (Frequency, error) {
	f := Frequency(strings.TrimSpace(strings.ToLower(input)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, input)
	}
	return f, nil
}

// Priority ranks a habit from 1 (highest) to 5 (lowest).
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

func ValidPriority(p int) bool {
	return p >= PriorityHighest && p <= PriorityLowest
}

// MaxNameLength bounds a habit's display name.
const MaxNameLength = 50

var (
	ErrEmptyName        = errors.New("habit name cannot be empty")
	ErrNameTooLong      = fmt.Errorf("habit name cannot exceed %d characters", MaxNameLength)
	ErrInvalidFrequency = errors.New("frequency must be daily or weekly")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 5")
)

// ValidateName trims the given name and checks the length bound.
// Returns the trimmed name on success.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Habit is one tracked behavior belonging to exactly one user.
//
// CompletedDates holds the calendar days (YYYY-MM-DD) on which the habit was
// marked done. It has set semantics: a day is present or absent, never
// duplicated.
type Habit struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Frequency      Frequency `json:"frequency"`
	Priority       int       `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
	CompletedDates []string  `json:"completed_dates"`
	OwnerID        string    `json:"owner_id"`
}

// CompletedOn reports whether the habit was marked done on the given day key.
func (h Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a copy of the habit whose CompletedDates slice does not alias
// the receiver's. Queries hand out clones so callers can hold snapshots
// across re-renders.
func (h Habit) Clone() Habit {
	out := h
	out.CompletedDates = make([]string, len(h.CompletedDates))
	copy(out.CompletedDates, h.CompletedDates)
	return out
}

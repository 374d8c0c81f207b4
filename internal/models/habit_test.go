package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  Drink water  ")
	if err != nil {
		t.Fatalf("ValidateName failed: %v", err)
	}
	if got != "Drink water" {
		t.Errorf("Expected trimmed name, got %q", got)
	}

	if _, err := ValidateName("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
	if _, err := ValidateName(strings.Repeat("x", MaxNameLength+1)); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	// Length is counted in runes, not bytes.
	if _, err := ValidateName(strings.Repeat("ä", MaxNameLength)); err != nil {
		t.Errorf("Expected multibyte name at the limit to pass, got %v", err)
	}
}

func TestParseFrequency(t *testing.T) {
	for input, want := range map[string]Frequency{
		"daily":  FrequencyDaily,
		"Weekly": FrequencyWeekly,
		" DAILY": FrequencyDaily,
	} {
		got, err := ParseFrequency(input)
		if err != nil {
			t.Errorf("ParseFrequency(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFrequency(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseFrequency("monthly"); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("Expected ErrInvalidFrequency, got %v", err)
	}
}

func TestValidPriority(t *testing.T) {
	for p := PriorityHighest; p <= PriorityLowest; p++ {
		if !ValidPriority(p) {
			t.Errorf("Expected priority %d valid", p)
		}
	}
	for _, p := range []int{0, -1, 6} {
		if ValidPriority(p) {
			t.Errorf("Expected priority %d invalid", p)
		}
	}
}

func TestCompletedOn(t *testing.T) {
	h := Habit{CompletedDates: []string{"2024-01-09", "2024-01-10"}}
	if !h.CompletedOn("2024-01-10") {
		t.Error("Expected 2024-01-10 completed")
	}
	if h.CompletedOn("2024-01-11") {
		t.Error("Expected 2024-01-11 not completed")
	}
}

func TestClone_IndependentHistory(t *testing.T) {
	h := Habit{ID: "h1", CompletedDates: []string{"2024-01-10"}}
	c := h.Clone()
	c.CompletedDates[0] = "1999-12-31"
	if h.CompletedDates[0] != "2024-01-10" {
		t.Error("Clone shares completion history with the original")
	}
}

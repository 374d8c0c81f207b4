package cli

import (
	"fmt"

	"cadence/internal/dates"
)

type DoneCmd struct {
	ID   string `arg:"" help:"Habit ID (or unique prefix)."`
	Date string `short:"d" help:"Day to toggle (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ownerID, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	h, err := ctx.resolveHabit(c.ID, ownerID)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "today" {
		day = ctx.Habits.Today()
	} else if _, err := dates.ParseDayKey(day); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}

	ctx.Habits.ToggleCompletion(h.ID, day, ownerID)

	if updated, ok := ctx.Habits.HabitByID(h.ID, ownerID); ok && updated.CompletedOn(day) {
		fmt.Printf("Marked %q done on %s\n", h.Name, day)
	} else {
		fmt.Printf("Unmarked %q on %s\n", h.Name, day)
	}
	return nil
}

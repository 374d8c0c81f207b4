package cli

import (
	"fmt"

	"cadence/internal/models"
)

type EditCmd struct {
	ID        string `arg:"" help:"Habit ID (or unique prefix)."`
	Name      string `help:"New name."`
	Frequency string `short:"f" help:"New cadence (daily|weekly)."`
	Priority  int    `short:"p" help:"New priority (1-5)."`
}

func (c *EditCmd) Run(ctx *Context) error {
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

	// Unset flags keep the current value.
	name := c.Name
	if name == "" {
		name = h.Name
	}
	frequency := h.Frequency
	if c.Frequency != "" {
		frequency, err = models.ParseFrequency(c.Frequency)
		if err != nil {
			return err
		}
	}
	priority := h.Priority
	if c.Priority != 0 {
		priority = c.Priority
	}

	if err := ctx.Habits.Edit(h.ID, name, frequency, priority, ownerID); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", name)
	return nil
}

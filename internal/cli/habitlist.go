package cli

import (
	"fmt"

	"cadence/internal/habit"
)

type ListCmd struct {
	Filter string `short:"f" help:"Filter (all|today|completed)." default:"all"`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ownerID, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	filter, err := habit.ParseFilter(c.Filter)
	if err != nil {
		return err
	}

	habits := ctx.Habits.HabitsByFilter(filter, ownerID)
	if len(habits) == 0 {
		fmt.Println("No habits found")
		return nil
	}

	fmt.Println("Habits:")
	for _, h := range habits {
		done := ctx.Habits.CompletedToday(h.ID, ownerID)
		fmt.Printf("  %s %s - %s, priority %d (ID: %s)\n",
			completionMark(done), h.Name, h.Frequency, h.Priority, shortID(h))
	}
	return nil
}

package cli

import (
	"fmt"

	"cadence/internal/habit"
	"cadence/internal/models"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ownerID, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	progress := ctx.Habits.TodaysProgress(ownerID)
	daily := ctx.Habits.HabitsByFilter(habit.FilterToday, ownerID)

	fmt.Printf("Today's progress: %d%%\n", progress)
	if len(daily) == 0 {
		fmt.Println("  No daily habits yet, add one with 'cadence add'")
		return nil
	}

	fmt.Println()
	for _, h := range daily {
		done := ctx.Habits.CompletedToday(h.ID, ownerID)
		fmt.Printf("  %s %s\n", completionMark(done), h.Name)
	}

	weekly := 0
	for _, h := range ctx.Habits.UserHabits(ownerID) {
		if h.Frequency == models.FrequencyWeekly {
			weekly++
		}
	}
	if weekly > 0 {
		fmt.Printf("\n(%d weekly habit(s) not counted toward today's progress)\n", weekly)
	}
	return nil
}

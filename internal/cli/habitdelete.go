package cli

import "fmt"

type DeleteCmd struct {
	ID string `arg:"" help:"Habit ID (or unique prefix)."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
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

	ctx.Habits.Remove(h.ID, ownerID)
	fmt.Printf("Deleted habit: %s (including its completion history)\n", h.Name)
	return nil
}

package cli

import (
	"fmt"

	"cadence/internal/models"
)

type AddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency string `short:"f" help:"Cadence (daily|weekly)." default:"daily"`
	Priority  int    `short:"p" help:"Priority (1-5, lower is higher priority)." default:"3"`
}

func (c *AddCmd) Validate() error {
	if !models.ValidPriority(c.Priority) {
		return models.ErrInvalidPriority
	}
	return nil
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ownerID, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	frequency, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	h, err := ctx.Habits.Add(c.Name, frequency, c.Priority, ownerID)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (ID: %s)\n", h.Name, shortID(h))
	return nil
}

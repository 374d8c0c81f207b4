package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

type RegisterCmd struct {
	Name     string `arg:"" help:"Display name."`
	Email    string `arg:"" help:"Email address used to log in."`
	Birthday string `short:"b" help:"Birthday (YYYY-MM-DD), optional."`
	Gender   string `short:"g" help:"Gender, optional."`
	Password string `short:"p" help:"Password. Prompted when omitted."`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		var confirm string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	user, err := ctx.Auth.Register(c.Name, c.Email, c.Birthday, c.Gender, password)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s <%s>. Log in with 'cadence login %s'.\n", user.Name, user.Email, user.Email)
	return nil
}

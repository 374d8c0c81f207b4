package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `short:"p" help:"Password. Prompted when omitted."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	user, err := ctx.Auth.Login(c.Email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

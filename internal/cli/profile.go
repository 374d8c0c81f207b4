package cli

import (
	"fmt"

	"cadence/internal/auth"
)

type ProfileCmd struct {
	Name     string `help:"New display name."`
	Birthday string `short:"b" help:"New birthday (YYYY-MM-DD)."`
	Gender   string `short:"g" help:"New gender."`
}

func (c *ProfileCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	user, ok := ctx.Auth.CurrentUser()
	if !ok {
		return auth.ErrNotLoggedIn
	}

	name := c.Name
	if name == "" {
		name = user.Name
	}
	birthday := c.Birthday
	if birthday == "" {
		birthday = user.Birthday
	}
	gender := c.Gender
	if gender == "" {
		gender = user.Gender
	}

	if err := ctx.Auth.UpdateProfile(name, birthday, gender); err != nil {
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

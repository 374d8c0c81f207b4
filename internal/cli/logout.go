package cli

import "fmt"

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if _, ok := ctx.Auth.CurrentUser(); !ok {
		fmt.Println("Not logged in")
		return nil
	}

	ctx.Auth.Logout()
	fmt.Println("Logged out")
	return nil
}

package cli

import "fmt"

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	user, ok := ctx.Auth.CurrentUser()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.Birthday != "" {
		fmt.Printf("  Birthday: %s\n", user.Birthday)
	}
	if user.Gender != "" {
		fmt.Printf("  Gender: %s\n", user.Gender)
	}
	return nil
}

package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"cadence/internal/auth"
	"cadence/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	user, ok := ctx.Auth.CurrentUser()
	if !ok {
		return auth.ErrNotLoggedIn
	}

	p := tea.NewProgram(tui.NewModel(ctx.Habits, user.ID, user.Name), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 20

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	todayStyle     = lipgloss.NewStyle().Bold(true)
)

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ownerID, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	week := ctx.Habits.WeeklyProgress(ownerID)

	fmt.Println("Last 7 days:")
	for i, day := range week {
		label := fmt.Sprintf("%s %s", day.Day, day.Date)
		if i == len(week)-1 {
			label = todayStyle.Render(label + " (today)")
		}
		fmt.Printf("  %-28s %s %d/%d\n", label, renderBar(day.Completed, day.Total), day.Completed, day.Total)
	}
	return nil
}

func renderBar(completed, total int) string {
	if total == 0 {
		return barEmptyStyle.Render(strings.Repeat("░", barWidth))
	}
	filled := completed * barWidth / total
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

package stats

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cadence/internal/habit"
)

const barWidth = 24

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type Model struct {
	progress int
	week     []habit.DayProgress
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{width: width, height: height}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetData replaces the rendered aggregates. The main model recomputes these
// from the repository after every mutation.
func (m *Model) SetData(progress int, week []habit.DayProgress) {
	m.progress = progress
	m.week = week
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Today"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %d%%\n", renderBar(m.progress, 100), m.progress))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Last 7 days"))
	b.WriteString("\n\n")
	if len(m.week) == 0 {
		b.WriteString(dimStyle.Render("  No data yet"))
		b.WriteString("\n")
	}
	for i, day := range m.week {
		completed := 0
		if day.Total > 0 {
			completed = day.Completed * 100 / day.Total
		}
		label := day.Day
		if i == len(m.week)-1 {
			label += "*"
		}
		b.WriteString(fmt.Sprintf("  %-4s %s %d/%d\n", label, renderBar(completed, 100), day.Completed, day.Total))
	}
	if len(m.week) > 0 {
		b.WriteString(dimStyle.Render("\n  * today"))
		b.WriteString("\n")
	}

	return b.String()
}

func renderBar(value, max int) string {
	if max <= 0 {
		max = 1
	}
	filled := value * barWidth / max
	if filled > barWidth {
		filled = barWidth
	}
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"cadence/internal/habit"
	"cadence/internal/models"
	"cadence/internal/tui/components/habitlist"
	"cadence/internal/tui/components/stats"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateStats
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
)

type HabitFormModel struct {
	Name      string
	Frequency models.Frequency
	Priority  string
}

type Model struct {
	habits   *habit.Repository
	ownerID  string
	userName string

	state SessionState
	keys  KeyMap
	help  help.Model

	habitList  habitlist.Model
	statsModel stats.Model

	form      *huh.Form
	habitForm *HabitFormModel
	editingID string

	habitToDeleteID string

	width    int
	height   int
	quitting bool
}

func NewModel(repo *habit.Repository, ownerID, userName string) Model {
	m := Model{
		habits:     repo,
		ownerID:    ownerID,
		userName:   userName,
		state:      StateHabits,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		habitList:  habitlist.New(nil, 0, 0),
		statsModel: stats.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh re-derives everything rendered from the repository: list items with
// today's completion marks plus the stats aggregates.
func (m *Model) refresh() {
	habits := m.habits.UserHabits(m.ownerID)
	items := make([]habitlist.Item, len(habits))
	for i, h := range habits {
		items[i] = habitlist.Item{
			Habit: h,
			Done:  m.habits.CompletedToday(h.ID, m.ownerID),
		}
	}
	m.habitList.SetItems(items)
	m.statsModel.SetData(
		m.habits.TodaysProgress(m.ownerID),
		m.habits.WeeklyProgress(m.ownerID),
	)
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := models.ValidateName(s)
					return err
				}),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Priority (1-5)").
				Value(&fm.Priority).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if !models.ValidPriority(i) {
						return fmt.Errorf("priority must be 1-5")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func (m Model) Init() tea.Cmd {
	return nil
}

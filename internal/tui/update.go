package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"cadence/internal/models"
	"cadence/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-3)
		m.statsModel.SetSize(msg.Width-h, msg.Height-v-3)
		return m, nil

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Frequency: models.FrequencyDaily,
			Priority:  strconv.Itoa(models.PriorityDefault),
		}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.ToggleHabitMsg:
		m.habits.ToggleCompletion(msg.ID, m.habits.Today(), m.ownerID)
		m.refresh()
		return m, nil

	case habitlist.EditHabitMsg:
		m.habitForm = &HabitFormModel{
			Name:      msg.Habit.Name,
			Frequency: msg.Habit.Frequency,
			Priority:  strconv.Itoa(msg.Habit.Priority),
		}
		m.editingID = msg.Habit.ID
		m.form = newHabitForm(m.habitForm)
		m.state = StateEditHabit
		return m, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAddHabit, StateEditHabit:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateBrowse(msg)
	}
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == StateHabits {
				m.state = StateStats
			} else {
				m.state = StateHabits
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		priority, err := strconv.Atoi(m.habitForm.Priority)
		if err != nil {
			priority = models.PriorityDefault
		}
		if m.state == StateEditHabit {
			_ = m.habits.Edit(m.editingID, m.habitForm.Name, m.habitForm.Frequency, priority, m.ownerID)
		} else {
			_, _ = m.habits.Add(m.habitForm.Name, m.habitForm.Frequency, priority, m.ownerID)
		}
		m.editingID = ""
		m.form = nil
		m.state = StateHabits
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.editingID = ""
		m.form = nil
		m.state = StateHabits
		return m, nil
	}

	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.habits.Remove(m.habitToDeleteID, m.ownerID)
			m.habitToDeleteID = ""
			m.state = StateHabits
			m.refresh()
		case "n", "N", "esc", "q":
			m.habitToDeleteID = ""
			m.state = StateHabits
		}
	}
	return m, nil
}

package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"hexatodo/pkg/store"
	"hexatodo/pkg/utils"
)

type snapshotMsg store.Snapshot

type errMsg struct{ err error }

// waitForSnapshot blocks until the controller publishes again
func waitForSnapshot(updates <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func (m Model) startCmd() tea.Cmd {
	return m.run("start", m.ctl.Start)
}

// run performs a controller call off the UI goroutine. The outcome
// arrives as a snapshot; only the error is reported here.
func (m Model) run(name string, f func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := f(ctx); err != nil {
			utils.Log("ui: %s failed: %v", name, err)
			return errMsg{err}
		}
		return nil
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case snapshotMsg:
		m.snapshot = store.Snapshot(msg)
		m.clampCursors()
		m.refreshAffordances()
		return m, waitForSnapshot(m.updates)

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			return m.updateNormal(msg)

		case AddMode:
			switch msg.Type {
			case tea.KeyEsc:
				m.mode = NormalMode
				m.descInput.Blur()
				return m, nil

			case tea.KeyEnter:
				description := m.descInput.Value()
				m.mode = NormalMode
				m.descInput.Blur()
				m.err = nil
				return m, m.run("add", func(ctx context.Context) error {
					_, err := m.ctl.AddTodo(ctx, description)
					return err
				})
			}

			// Handle input updates
			m.descInput, cmd = m.descInput.Update(msg)
			return m, cmd

		case DeleteConfirmMode:
			switch {
			case key.Matches(msg, m.keyMap.Confirm):
				target := m.deleting
				m.mode = NormalMode
				m.deleting = nil
				if target == nil {
					return m, nil
				}
				utils.Log("Deleting todo ID: %s", target.ID)
				return m, m.run("remove", func(ctx context.Context) error {
					return m.ctl.RemoveTodo(ctx, target.ID)
				})

			case key.Matches(msg, m.keyMap.Cancel), msg.String() == "n", msg.String() == "N":
				m.mode = NormalMode
				m.deleting = nil
			}

		case HelpViewMode:
			switch {
			case key.Matches(msg, m.keyMap.QuitApp):
				return m.quit()
			case key.Matches(msg, m.keyMap.ShowHelp), key.Matches(msg, m.keyMap.Cancel):
				m.mode = NormalMode
				m.help.ShowAll = false
			}
		}
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return m.quit()

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.mode = HelpViewMode
		m.help.ShowAll = true

	case key.Matches(msg, m.keyMap.AddTodo):
		m.mode = AddMode
		m.resetInputs()

	case key.Matches(msg, m.keyMap.DeleteTodo):
		if selected, ok := m.selected(); ok {
			m.mode = DeleteConfirmMode
			m.deleting = &selected
		}

	case key.Matches(msg, m.keyMap.NextState):
		if selected, ok := m.selected(); ok {
			return m, m.run("next", func(ctx context.Context) error {
				return m.ctl.MoveToNextState(ctx, selected)
			})
		}

	case key.Matches(msg, m.keyMap.PrevState):
		if selected, ok := m.selected(); ok {
			return m, m.run("prev", func(ctx context.Context) error {
				return m.ctl.MoveToPreviousState(ctx, selected)
			})
		}

	case key.Matches(msg, m.keyMap.ColumnLeft):
		if m.column > 0 {
			m.column--
		}

	case key.Matches(msg, m.keyMap.ColumnRight):
		if m.column < len(m.cursors)-1 {
			m.column++
		}

	case key.Matches(msg, m.keyMap.Up):
		if m.cursors[m.column] > 0 {
			m.cursors[m.column]--
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.cursors[m.column] < len(m.columnTodos(m.column))-1 {
			m.cursors[m.column]++
		}

	case key.Matches(msg, m.keyMap.Reload):
		return m, m.run("reload", m.ctl.Revalidate)

	case key.Matches(msg, m.keyMap.ToggleSortBy):
		m.sortBy = (m.sortBy + 1) % sortByCount

	case key.Matches(msg, m.keyMap.ToggleSortOrder):
		if m.sortOrder == SortAsc {
			m.sortOrder = SortDesc
		} else {
			m.sortOrder = SortAsc
		}
	}

	m.refreshAffordances()
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

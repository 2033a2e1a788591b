package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hexatodo/pkg/store"
	"hexatodo/pkg/todo"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.titleBar(" hexatodo ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderBoard())
		sb.WriteString("\n")

		viewInfo := fmt.Sprintf("%d todo(s) | sorted by %s (%s)", len(m.snapshot.Todos), m.sortBy, m.sortOrder)
		if m.snapshot.Status != store.Ready {
			viewInfo = strings.ToLower(m.snapshot.Status.String()) + "…"
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedColor)).Render(viewInfo))

	case AddMode:
		sb.WriteString(m.titleBar(" Add Todo ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString("Description:\n")
		sb.WriteString(m.descInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedColor)).Render("enter save • esc cancel"))

	case DeleteConfirmMode:
		sb.WriteString(m.titleBar(" Delete Todo ", m.styles.ErrorColor))
		sb.WriteString("\n\n")
		if m.deleting != nil {
			sb.WriteString("Are you sure you want to delete this todo?\n\n")
			sb.WriteString(fmt.Sprintf("%s [%s]\n\n", m.deleting.Description, m.deleting.State))
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case HelpViewMode:
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
		sb.WriteString("\n\n")
		sb.WriteString(m.help.View(m.keyMap))
	}

	// Error message if any
	if err := m.displayError(); err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render(fmt.Sprintf("Error: %v", err)))
	}

	if m.mode == NormalMode {
		sb.WriteString("\n")
		sb.WriteString(m.help.View(m.keyMap))
	}

	return sb.String()
}

func (m Model) displayError() error {
	if m.err != nil {
		return m.err
	}
	return m.snapshot.Err
}

func (m Model) titleBar(title, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(title)
}

// renderBoard lays the state columns out side by side
func (m Model) renderBoard() string {
	columns := make([]string, len(todo.States))
	for i := range todo.States {
		columns[i] = m.renderColumn(i)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) renderColumn(i int) string {
	state := todo.States[i]
	todos := m.columnTodos(i)
	width := m.columnWidth()
	focused := i == m.column

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.stateColor(state)).
		Render(fmt.Sprintf("%s (%d)", state, len(todos)))

	lines := []string{header, ""}
	for j, t := range todos {
		text := truncate(t.Description, width-2)
		if t.Dirty {
			text = truncate(t.Description, width-4) + " ~"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor))
		if t.Dirty {
			style = style.Foreground(lipgloss.Color(m.styles.MutedColor)).Italic(true)
		}
		if focused && j == m.cursors[i] {
			style = style.
				Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
				Background(lipgloss.Color(m.styles.SelectedBgColor)).
				Bold(true)
		}
		lines = append(lines, style.Render(text))
	}
	if len(todos) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedColor)).Render("nothing here"))
	}

	border := lipgloss.Color(m.styles.BorderColor)
	if focused {
		border = m.stateColor(state)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

package ui

import (
	"github.com/charmbracelet/lipgloss"

	"hexatodo/pkg/todo"
)

// columnTodos returns the todos shown in column i, sorted for display
func (m Model) columnTodos(i int) []todo.Todo {
	if i < 0 || i >= len(todo.States) {
		return nil
	}
	state := todo.States[i]
	var in []todo.Todo
	for _, t := range m.snapshot.Todos {
		if t.State == state {
			in = append(in, t)
		}
	}
	return SortTodos(in, m.sortBy, m.sortOrder)
}

// selected returns the todo under the cursor of the focused column
func (m Model) selected() (todo.Todo, bool) {
	todos := m.columnTodos(m.column)
	cursor := m.cursors[m.column]
	if cursor < 0 || cursor >= len(todos) {
		return todo.Todo{}, false
	}
	return todos[cursor], true
}

// clampCursors keeps every cursor inside its column after the collection changed
func (m *Model) clampCursors() {
	for i := range m.cursors {
		n := len(m.columnTodos(i))
		if m.cursors[i] >= n {
			m.cursors[i] = n - 1
		}
		if m.cursors[i] < 0 {
			m.cursors[i] = 0
		}
	}
}

// refreshAffordances disables the bindings that cannot apply to the selection
func (m *Model) refreshAffordances() {
	selected, ok := m.selected()
	m.keyMap.NextState.SetEnabled(ok && m.ctl.CanAdvance(selected.State))
	m.keyMap.PrevState.SetEnabled(ok && m.ctl.CanRevert(selected.State))
	m.keyMap.DeleteTodo.SetEnabled(ok)
}

func (m Model) stateColor(s todo.State) lipgloss.Color {
	switch s {
	case todo.InProgress:
		return lipgloss.Color(m.styles.InProgressColor)
	case todo.Done:
		return lipgloss.Color(m.styles.DoneColor)
	default:
		return lipgloss.Color(m.styles.PendingColor)
	}
}

// columnWidth splits the terminal between the state columns
func (m Model) columnWidth() int {
	if m.width == 0 {
		return 30
	}
	w := m.width/len(todo.States) - 4
	if w < 16 {
		w = 16
	}
	return w
}

// truncate shortens s to width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

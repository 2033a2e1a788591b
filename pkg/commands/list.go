package commands

import (
	"context"
	"fmt"
	"io"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
)

// HandleListCommand prints every todo grouped by state, with ids for --next/--prev/--remove
func HandleListCommand(ctx context.Context, storage ports.TodoStorage, out io.Writer) error {
	todos, err := usecases.ListTodosByState(ctx, storage)
	if err != nil {
		return fmt.Errorf("error loading todos: %w", err)
	}

	groups := todos.ByState()
	for i, state := range todo.States {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d):\n", state, len(groups[state]))
		for _, t := range groups[state] {
			fmt.Fprintf(out, "  %s  %s\n", t.ID, t.Description)
		}
	}
	return nil
}

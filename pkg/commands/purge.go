package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
	"hexatodo/pkg/utils"
)

// purger is implemented by storages that can delete in bulk
type purger interface {
	PurgeTodos(ctx context.Context, states ...todo.State) (int64, error)
}

// HandlePurgeCommand processes --purge. No states means every todo.
func HandlePurgeCommand(ctx context.Context, storage ports.TodoStorage, in io.Reader, out io.Writer, states []todo.State, skipConfirm bool) error {
	// Show confirmation unless --yes flag is used
	if !skipConfirm {
		fmt.Fprint(out, "Are you sure you want to delete these todos? (y/N): ")
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	var removed int64
	if p, ok := storage.(purger); ok {
		n, err := p.PurgeTodos(ctx, states...)
		if err != nil {
			return fmt.Errorf("error purging todos: %w", err)
		}
		removed = n
	} else {
		todos, err := usecases.ListTodosByState(ctx, storage)
		if err != nil {
			return fmt.Errorf("error loading todos: %w", err)
		}
		for _, t := range todos.Sorted() {
			if !matchesStates(t.State, states) {
				continue
			}
			if err := usecases.RemoveTodo(ctx, t.ID, storage); err != nil {
				return fmt.Errorf("error purging todo %s: %w", t.ID, err)
			}
			removed++
		}
	}

	utils.Log("purged %d todo(s) in states %v", removed, states)
	fmt.Fprintf(out, "Successfully deleted %d todo(s)\n", removed)
	return nil
}

func matchesStates(s todo.State, states []todo.State) bool {
	if len(states) == 0 {
		return true
	}
	for _, want := range states {
		if s == want {
			return true
		}
	}
	return false
}

// ParseStates converts --state values such as "DONE" or "in_progress"
func ParseStates(names []string) ([]todo.State, error) {
	var states []todo.State
	for _, name := range names {
		s, err := todo.ParseState(name)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

package commands

import (
	"context"
	"fmt"
	"io"

	"hexatodo/pkg/store"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
)

// HandleMoveCommand processes --next and --prev
func HandleMoveCommand(ctx context.Context, out io.Writer, id string, direction usecases.Direction) error {
	ctl := store.MustFromContext(ctx)
	current, err := findTodo(ctx, ctl, todo.ID(id))
	if err != nil {
		return err
	}

	if direction == usecases.Forward {
		err = ctl.MoveToNextState(ctx, current)
	} else {
		err = ctl.MoveToPreviousState(ctx, current)
	}
	if err != nil {
		return fmt.Errorf("error moving todo %s: %w", id, err)
	}

	fmt.Fprintf(out, "%s: %s -> %s\n", current.Description, current.State, ctl.Todos()[current.ID].State)
	return nil
}

// HandleRemoveCommand processes --remove
func HandleRemoveCommand(ctx context.Context, out io.Writer, id string) error {
	ctl := store.MustFromContext(ctx)
	current, err := findTodo(ctx, ctl, todo.ID(id))
	if err != nil {
		return err
	}
	if err := ctl.RemoveTodo(ctx, current.ID); err != nil {
		return fmt.Errorf("error removing todo %s: %w", id, err)
	}
	fmt.Fprintf(out, "Todo removed: %s\n", current.Description)
	return nil
}

func findTodo(ctx context.Context, ctl *store.Controller, id todo.ID) (todo.Todo, error) {
	if err := ctl.Start(ctx); err != nil {
		return todo.Todo{}, err
	}
	t, ok := ctl.Todos()[id]
	if !ok {
		return todo.Todo{}, fmt.Errorf("%w: %s", todo.ErrNotFound, id)
	}
	return t, nil
}

package usecases

import (
	"context"
	"fmt"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// Direction selects which way ChangeState moves a todo
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Transition computes the todo that ChangeState would store, without any I/O
func Transition(t todo.Todo, direction Direction) (todo.Todo, error) {
	switch direction {
	case Forward:
		return todo.Advance(t)
	case Backward:
		return todo.Revert(t)
	default:
		return todo.Todo{}, fmt.Errorf("%w: unknown direction %d", todo.ErrValidation, int(direction))
	}
}

// AddNewTodo validates the description, then stores a new todo.
// Nothing is written when validation fails.
func AddNewTodo(ctx context.Context, description string, storage ports.TodoStorage) (todo.Todo, error) {
	newTodo, err := todo.Create(description)
	if err != nil {
		return todo.Todo{}, err
	}
	return AddTodo(ctx, newTodo, storage)
}

// AddTodo stores a todo built with todo.Create
func AddTodo(ctx context.Context, newTodo todo.Todo, storage ports.TodoStorage) (todo.Todo, error) {
	if err := todo.Validate(newTodo); err != nil {
		return todo.Todo{}, err
	}
	stored, err := storage.AddOne(ctx, newTodo.Clean())
	if err != nil {
		return todo.Todo{}, ports.WrapStorageError("add", err)
	}
	return stored, nil
}

// ChangeState moves t one step in the given direction and stores the result
func ChangeState(ctx context.Context, t todo.Todo, direction Direction, storage ports.TodoStorage) (todo.Todo, error) {
	updated, err := Transition(t, direction)
	if err != nil {
		return todo.Todo{}, err
	}
	stored, err := storage.UpdateOne(ctx, updated.Clean())
	if err != nil {
		return todo.Todo{}, ports.WrapStorageError("update", err)
	}
	return stored, nil
}

func ChangeToNextState(ctx context.Context, t todo.Todo, storage ports.TodoStorage) (todo.Todo, error) {
	return ChangeState(ctx, t, Forward, storage)
}

func ChangeToPreviousState(ctx context.Context, t todo.Todo, storage ports.TodoStorage) (todo.Todo, error) {
	return ChangeState(ctx, t, Backward, storage)
}

func RemoveTodo(ctx context.Context, id todo.ID, storage ports.TodoStorage) error {
	return ports.WrapStorageError("remove", storage.RemoveOne(ctx, id))
}

// ListTodosByState returns the raw collection. Grouping by state is left
// to the caller.
func ListTodosByState(ctx context.Context, storage ports.TodoStorage) (todo.Todos, error) {
	todos, err := storage.ListAll(ctx)
	if err != nil {
		return nil, ports.WrapStorageError("list", err)
	}
	if todos == nil {
		todos = todo.Todos{}
	}
	return todos, nil
}

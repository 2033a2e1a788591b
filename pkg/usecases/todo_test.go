package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"hexatodo/pkg/adapters/memory"
	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// countingStorage records port calls and can be told to fail
type countingStorage struct {
	ports.TodoStorage
	calls int
	err   error
}

func (c *countingStorage) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	c.calls++
	if c.err != nil {
		return todo.Todo{}, c.err
	}
	return c.TodoStorage.AddOne(ctx, t)
}

func (c *countingStorage) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	c.calls++
	if c.err != nil {
		return todo.Todo{}, c.err
	}
	return c.TodoStorage.UpdateOne(ctx, t)
}

func TestScenario_AddAdvanceRemove(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	storage := memory.New()

	added, err := AddNewTodo(ctx, "buy milk", storage)
	is.NoErr(err)

	all, err := ListTodosByState(ctx, storage)
	is.NoErr(err)
	is.Equal(len(all), 1)
	is.Equal(all[added.ID].Description, "buy milk")
	is.Equal(all[added.ID].State, todo.Pending)

	current := all[added.ID]
	current, err = ChangeToNextState(ctx, current, storage)
	is.NoErr(err)
	is.Equal(current.State, todo.InProgress)
	current, err = ChangeState(ctx, current, Forward, storage)
	is.NoErr(err)
	is.Equal(current.State, todo.Done)

	_, err = ChangeToNextState(ctx, current, storage)
	is.True(errors.Is(err, todo.ErrInvalidTransition))

	all, err = ListTodosByState(ctx, storage)
	is.NoErr(err)
	is.Equal(all[added.ID].State, todo.Done)
	is.True(!all[added.ID].Dirty)

	is.NoErr(RemoveTodo(ctx, added.ID, storage))
	all, err = ListTodosByState(ctx, storage)
	is.NoErr(err)
	is.Equal(len(all), 0)
}

func TestAddNewTodo_ValidationBeforeIO(t *testing.T) {
	is := is.New(t)
	storage := &countingStorage{TodoStorage: memory.New()}
	_, err := AddNewTodo(context.Background(), "   ", storage)
	is.True(errors.Is(err, todo.ErrValidation))
	is.Equal(storage.calls, 0)
}

func TestChangeState_TransitionBeforeIO(t *testing.T) {
	is := is.New(t)
	storage := &countingStorage{TodoStorage: memory.New()}
	_, err := ChangeToPreviousState(context.Background(), todo.Todo{ID: "1", Description: "x"}, storage)
	is.True(errors.Is(err, todo.ErrInvalidTransition))
	is.Equal(storage.calls, 0)
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	is := is.New(t)
	boom := errors.New("boom")
	storage := &countingStorage{TodoStorage: memory.New(), err: boom}

	_, err := AddNewTodo(context.Background(), "x", storage)
	var storageErr *ports.StorageError
	is.True(errors.As(err, &storageErr))
	is.Equal(storageErr.Op, "add")
	is.True(errors.Is(err, boom))
}

func TestChangeState_MissingTodo(t *testing.T) {
	is := is.New(t)
	_, err := ChangeToNextState(context.Background(), todo.Todo{ID: "ghost", Description: "x"}, memory.New())
	is.True(errors.Is(err, todo.ErrNotFound))
}

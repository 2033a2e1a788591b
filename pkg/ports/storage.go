package ports

import (
	"context"
	"fmt"

	"hexatodo/pkg/todo"
)

// TodoStorage is the capability set every storage mechanism must provide.
// Use-cases and the store controller depend only on this interface.
type TodoStorage interface {
	// ListAll returns the whole collection as currently stored
	ListAll(ctx context.Context) (todo.Todos, error)

	// AddOne stores a new todo and returns the stored form, which may
	// differ from the input.
	AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error)

	// UpdateOne replaces an existing todo. A missing ID is reported as
	// todo.ErrNotFound.
	UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error)

	// RemoveOne deletes a todo. Removing a missing ID is not an error.
	RemoveOne(ctx context.Context, id todo.ID) error
}

// StorageError wraps any failure coming back from a TodoStorage
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorageError returns nil for a nil err
func WrapStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

package memory

import (
	"context"
	"sync"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// Storage keeps todos in process memory. Nothing survives a restart.
type Storage struct {
	mu    sync.RWMutex
	todos todo.Todos
}

var _ ports.TodoStorage = &Storage{}

func New() *Storage {
	return &Storage{todos: todo.Todos{}}
}

func (s *Storage) ListAll(ctx context.Context) (todo.Todos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return todo.Clone(s.todos), nil
}

func (s *Storage) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t = t.Clean()
	s.todos = todo.Insert(s.todos, t)
	return t, nil
}

func (s *Storage) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := todo.Merge(s.todos, todo.PatchOf(t.Clean()))
	if err != nil {
		return todo.Todo{}, err
	}
	s.todos = updated
	return updated[t.ID], nil
}

func (s *Storage) RemoveOne(ctx context.Context, id todo.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = todo.Remove(s.todos, id)
	return nil
}

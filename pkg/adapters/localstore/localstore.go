package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// DefaultKey is the entry the todo collection is stored under
const DefaultKey = "todos"

// Storage persists todos in a small key-value file: a JSON object whose
// values are JSON documents. Only the todo collection key is touched;
// other keys in the file are preserved.
//
// No locking across processes; fine for a local single-user tool.
type Storage struct {
	path string
	key  string
	mu   sync.Mutex
}

var _ ports.TodoStorage = &Storage{}

func New(path, key string) *Storage {
	if key == "" {
		key = DefaultKey
	}
	return &Storage{path: path, key: key}
}

func (s *Storage) readAll() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	values := map[string]json.RawMessage{}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return values, nil
}

func (s *Storage) getTodos() (todo.Todos, map[string]json.RawMessage, error) {
	values, err := s.readAll()
	if err != nil {
		return nil, nil, err
	}
	todos := todo.Todos{}
	raw, ok := values[s.key]
	if !ok {
		return todos, values, nil
	}
	if err := json.Unmarshal(raw, &todos); err != nil {
		return nil, nil, fmt.Errorf("decode %q: %w", s.key, err)
	}
	return todos, values, nil
}

// setTodos writes through a temp file so a crash never leaves half a file
func (s *Storage) setTodos(values map[string]json.RawMessage, todos todo.Todos) error {
	clean := make(todo.Todos, len(todos))
	for id, t := range todos {
		clean[id] = t.Clean()
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	values[s.key] = raw

	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Storage) ListAll(ctx context.Context) (todo.Todos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos, _, err := s.getTodos()
	return todos, err
}

func (s *Storage) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos, values, err := s.getTodos()
	if err != nil {
		return todo.Todo{}, err
	}
	t = t.Clean()
	if err := s.setTodos(values, todo.Insert(todos, t)); err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

func (s *Storage) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos, values, err := s.getTodos()
	if err != nil {
		return todo.Todo{}, err
	}
	updated, err := todo.Merge(todos, todo.PatchOf(t.Clean()))
	if err != nil {
		return todo.Todo{}, err
	}
	if err := s.setTodos(values, updated); err != nil {
		return todo.Todo{}, err
	}
	return updated[t.ID], nil
}

func (s *Storage) RemoveOne(ctx context.Context, id todo.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos, values, err := s.getTodos()
	if err != nil {
		return err
	}
	return s.setTodos(values, todo.Remove(todos, id))
}

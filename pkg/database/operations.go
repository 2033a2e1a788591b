package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/utils"
)

// Storage implements the storage port on top of a SQL database
type Storage struct {
	db *sql.DB
}

var _ ports.TodoStorage = &Storage{}

// New wraps an open database. Call EnsureSchema first.
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// LoadTodos retrieves todos from the database, optionally only those in
// the given states
func (s *Storage) LoadTodos(ctx context.Context, states ...todo.State) ([]todo.Todo, error) {
	where, args := BuildStateClause(states)
	query := `SELECT id, description, state, created_at FROM todos` + where + " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []todo.Todo
	for rows.Next() {
		var item todo.Todo
		var state string
		if err := rows.Scan(&item.ID, &item.Description, &state, &item.CreatedAt); err != nil {
			return nil, err
		}
		if item.State, err = todo.ParseState(state); err != nil {
			return nil, fmt.Errorf("todo %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.Log("Loaded %d todos from database", len(items))

	return items, nil
}

func (s *Storage) ListAll(ctx context.Context) (todo.Todos, error) {
	items, err := s.LoadTodos(ctx)
	if err != nil {
		return nil, err
	}
	return todo.FromSlice(items), nil
}

// AddOne inserts a todo, replacing any row with the same id
func (s *Storage) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t = t.Clean()
	t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Microsecond)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, description, state, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			description = excluded.description,
			state = excluded.state,
			created_at = excluded.created_at`,
		string(t.ID),
		t.Description,
		t.State.String(),
		t.CreatedAt,
	)
	if err != nil {
		return todo.Todo{}, err
	}
	utils.Log("Added todo: %s", t.ID)
	return t, nil
}

// UpdateOne updates an existing todo in the database
func (s *Storage) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t = t.Clean()
	t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Microsecond)
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET description = $1, state = $2, created_at = $3 WHERE id = $4`,
		t.Description,
		t.State.String(),
		t.CreatedAt,
		string(t.ID),
	)
	if err != nil {
		return todo.Todo{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return todo.Todo{}, fmt.Errorf("%w: %s", todo.ErrNotFound, t.ID)
	}
	utils.Log("Updated todo: %s", t.ID)
	return t, nil
}

// RemoveOne removes a todo from the database
func (s *Storage) RemoveOne(ctx context.Context, id todo.ID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = $1", string(id))
	return err
}

// PurgeTodos deletes every todo, or only those in the given states, and
// returns how many rows were removed
func (s *Storage) PurgeTodos(ctx context.Context, states ...todo.State) (int64, error) {
	where, args := BuildStateClause(states)
	query := "DELETE FROM todos" + where

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// BuildStateClause builds a WHERE clause restricting rows to the given
// states. It returns an empty clause when no state is given.
func BuildStateClause(states []todo.State) (string, []interface{}) {
	if len(states) == 0 {
		return "", nil
	}
	placeholders := make([]string, len(states))
	args := make([]interface{}, len(states))
	for i, st := range states {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = st.String()
	}
	whereClause := " WHERE state IN (" + strings.Join(placeholders, ", ") + ")"

	utils.Log("Built where clause: %s", whereClause)

	return whereClause, args
}

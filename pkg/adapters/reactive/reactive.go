// Package reactive is a client-side store in the reducer style: state only
// changes through dispatched actions, and listeners are notified after
// every dispatch.
package reactive

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// State is a normalized entity collection: IDs in insertion order plus a
// lookup table.
type State struct {
	IDs      []todo.ID
	Entities map[todo.ID]todo.Todo
}

// Action is anything the reducer understands
type Action interface {
	isAction()
}

type AddTodo struct{ Todo todo.Todo }

// UpdateTodo merges Changes into the entity with the same ID. Unknown IDs
// are ignored.
type UpdateTodo struct{ Changes todo.Patch }

type RemoveTodo struct{ ID todo.ID }

func (AddTodo) isAction()    {}
func (UpdateTodo) isAction() {}
func (RemoveTodo) isAction() {}

// Listener is called with the new state after each dispatch
type Listener func(State)

// Reduce returns the next state. The previous state is never modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddTodo:
		// adding an existing ID is ignored
		if _, ok := state.Entities[a.Todo.ID]; ok {
			return state
		}
		return State{
			IDs:      append(append([]todo.ID{}, state.IDs...), a.Todo.ID),
			Entities: todo.Insert(state.Entities, a.Todo),
		}
	case UpdateTodo:
		entities, err := todo.Merge(state.Entities, a.Changes)
		if err != nil {
			return state
		}
		return State{IDs: state.IDs, Entities: entities}
	case RemoveTodo:
		if _, ok := state.Entities[a.ID]; !ok {
			return state
		}
		ids := make([]todo.ID, 0, len(state.IDs))
		for _, id := range state.IDs {
			if id != a.ID {
				ids = append(ids, id)
			}
		}
		return State{IDs: ids, Entities: todo.Remove(state.Entities, a.ID)}
	}
	return state
}

// Store holds the current State
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

var _ ports.TodoStorage = &Store{}

func New() *Store {
	return &Store{
		state:     State{Entities: todo.Todos{}},
		listeners: map[int]Listener{},
	}
}

// Dispatch applies action and notifies listeners in subscription order
func (s *Store) Dispatch(action Action) {
	s.dispatch(func(State) (Action, error) { return action, nil })
}

// dispatch picks the action from the current state and reduces it under one
// lock, so callers can inspect the state their own action produced.
func (s *Store) dispatch(build func(State) (Action, error)) (State, error) {
	s.mu.Lock()
	action, err := build(s.state)
	if err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.state = Reduce(s.state, action)
	state := s.state
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
	return state, nil
}

func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a func that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SelectAll returns the entities in insertion order
func (st State) SelectAll() []todo.Todo {
	out := make([]todo.Todo, 0, len(st.IDs))
	for _, id := range st.IDs {
		out = append(out, st.Entities[id])
	}
	return out
}

func (s *Store) ListAll(ctx context.Context) (todo.Todos, error) {
	return todo.Clone(s.GetState().Entities), nil
}

// AddOne stores t, replacing a todo with the same ID like the other
// adapters do. The AddTodo action alone would ignore the duplicate, so an
// existing ID is dispatched as an UpdateTodo instead.
func (s *Store) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t = t.Clean()
	state, err := s.dispatch(func(current State) (Action, error) {
		if _, ok := current.Entities[t.ID]; ok {
			return UpdateTodo{Changes: todo.PatchOf(t)}, nil
		}
		return AddTodo{Todo: t}, nil
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return state.Entities[t.ID], nil
}

func (s *Store) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t = t.Clean()
	state, err := s.dispatch(func(current State) (Action, error) {
		if _, ok := current.Entities[t.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", todo.ErrNotFound, t.ID)
		}
		return UpdateTodo{Changes: todo.PatchOf(t)}, nil
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return state.Entities[t.ID], nil
}

func (s *Store) RemoveOne(ctx context.Context, id todo.ID) error {
	s.Dispatch(RemoveTodo{ID: id})
	return nil
}

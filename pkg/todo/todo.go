package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID identifies a todo within a collection
type ID string

// State is the lifecycle position of a todo. States are ordered.
type State int

const (
	Pending State = iota
	InProgress
	Done
)

var stateNames = map[State]string{
	Pending:    "TODO",
	InProgress: "IN_PROGRESS",
	Done:       "DONE",
}

// States lists every state in lifecycle order
var States = []State{Pending, InProgress, Done}

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotFound          = errors.New("todo not found")
)

// Todo is a single entry on the list. Values are treated as immutable:
// every transition returns a new Todo.
type Todo struct {
	ID          ID        `json:"id"`
	Description string    `json:"description"`
	State       State     `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`

	// Dirty marks a locally mutated todo that storage has not confirmed yet
	Dirty bool `json:"-"`
}

// overridden in tests
var (
	newID = func() ID { return ID(uuid.NewString()) }
	now   = time.Now
)

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Valid reports whether s is one of the known states
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown state %d", ErrValidation, int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseState accepts the wire name of a state ("TODO", "IN_PROGRESS", "DONE"),
// case-insensitively.
func ParseState(name string) (State, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown state %q", ErrValidation, name)
}

// Create builds a new Pending todo. The description must not be blank.
func Create(description string) (Todo, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Todo{}, fmt.Errorf("%w: cannot add an empty todo", ErrValidation)
	}

	return Todo{
		ID:          newID(),
		Description: description,
		State:       Pending,
		CreatedAt:   now(),
	}, nil
}

// Validate checks the invariants of a stored todo
func Validate(t Todo) error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: empty description", ErrValidation)
	}
	if !t.State.Valid() {
		return fmt.Errorf("%w: unknown state %d", ErrValidation, int(t.State))
	}
	return nil
}

// Clean returns a copy without the optimistic marker
func (t Todo) Clean() Todo {
	t.Dirty = false
	return t
}

// CanAdvance reports whether a todo in state s has a next state.
// Done is the last state.
func CanAdvance(s State) bool {
	return s != Done
}

// CanRevert reports whether a todo in state s has a previous state.
// Pending is the first state.
func CanRevert(s State) bool {
	return s != Pending
}

// Advance moves t one step forward: Pending -> InProgress -> Done
func Advance(t Todo) (Todo, error) {
	if !CanAdvance(t.State) || !t.State.Valid() {
		return Todo{}, fmt.Errorf("%w: %s has no next state", ErrInvalidTransition, t.State)
	}
	return SetState(t, t.State+1)
}

// Revert moves t one step back: Done -> InProgress -> Pending
func Revert(t Todo) (Todo, error) {
	if !CanRevert(t.State) || !t.State.Valid() {
		return Todo{}, fmt.Errorf("%w: %s has no previous state", ErrInvalidTransition, t.State)
	}
	return SetState(t, t.State-1)
}

// SetState returns a dirty copy of t in state s. Setting the current state
// again is rejected.
func SetState(t Todo, s State) (Todo, error) {
	if !s.Valid() {
		return Todo{}, fmt.Errorf("%w: unknown state %d", ErrValidation, int(s))
	}
	if t.State == s {
		return Todo{}, fmt.Errorf("%w: todo is already %s", ErrInvalidTransition, s)
	}
	t.State = s
	t.Dirty = true
	return t, nil
}

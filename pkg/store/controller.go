package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
	"hexatodo/pkg/utils"
)

// Status is the lifecycle position of a Controller
type Status int

const (
	Uninitialized Status = iota
	Loading
	Ready
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

var ErrStateNotInitialized = errors.New("todo store is not initialized")

// Snapshot is what subscribers see after every publish. Todos is nil until
// the first load completes. Err carries the failure that caused the publish,
// if any.
type Snapshot struct {
	Status Status
	Todos  todo.Todos
	Err    error
}

// Controller holds the collection shown to the presentation layer. Every
// mutation is published optimistically, written through the use-cases and
// then reconciled with storage, or rolled back when storage fails.
//
// Mutations are serialized: a second mutation waits for the first to
// settle and projects from whatever was published last.
type Controller struct {
	storage ports.TodoStorage

	// writeMu serializes loads and mutations
	writeMu sync.Mutex

	mu          sync.Mutex
	status      Status
	todos       todo.Todos
	lastErr     error
	subscribers map[int]chan Snapshot
	nextSubID   int
}

func NewController(storage ports.TodoStorage) *Controller {
	return &Controller{
		storage:     storage,
		subscribers: map[int]chan Snapshot{},
	}
}

// Start triggers the first load. Later calls do nothing once the store is
// ready. A failed first load leaves the store uninitialized so Start can
// be retried.
func (c *Controller) Start(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.status != Uninitialized {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.publish(Loading, nil, nil)
	utils.Log("store: initial load")

	todos, err := usecases.ListTodosByState(ctx, c.storage)
	if err != nil {
		utils.Log("store: initial load failed: %v", err)
		c.publish(Uninitialized, nil, err)
		return err
	}
	c.publish(Ready, todos, nil)
	return nil
}

// Revalidate replaces the published collection with a fresh read
func (c *Controller) Revalidate(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.readyBase(); err != nil {
		return err
	}
	todos, err := usecases.ListTodosByState(ctx, c.storage)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		c.broadcast()
		return err
	}
	c.publish(Ready, todos, nil)
	return nil
}

// AddTodo publishes a new pending todo right away, then stores it. It
// returns the todo as the storage accepted it.
func (c *Controller) AddTodo(ctx context.Context, description string) (todo.Todo, error) {
	newTodo, err := todo.Create(description)
	if err != nil {
		return todo.Todo{}, err
	}
	var stored todo.Todo
	err = c.mutate(ctx, "add", func(base todo.Todos) (todo.Todos, error) {
		optimistic := newTodo
		optimistic.Dirty = true
		return todo.Insert(base, optimistic), nil
	}, func(ctx context.Context, base todo.Todos) (todo.Todos, error) {
		added, err := usecases.AddTodo(ctx, newTodo, c.storage)
		if err != nil {
			return nil, err
		}
		stored = added
		return todo.Insert(base, added), nil
	})
	if err != nil {
		return todo.Todo{}, err
	}
	return stored, nil
}

// RemoveTodo drops the todo from the published collection, then from storage
func (c *Controller) RemoveTodo(ctx context.Context, id todo.ID) error {
	return c.mutate(ctx, "remove", func(base todo.Todos) (todo.Todos, error) {
		return todo.Remove(base, id), nil
	}, func(ctx context.Context, base todo.Todos) (todo.Todos, error) {
		if err := usecases.RemoveTodo(ctx, id, c.storage); err != nil {
			return nil, err
		}
		return todo.Remove(base, id), nil
	})
}

// MoveToNextState advances t. The published version of t is used when
// it is known, so a stale copy held by the caller does not win.
func (c *Controller) MoveToNextState(ctx context.Context, t todo.Todo) error {
	return c.move(ctx, t, usecases.Forward)
}

// MoveToPreviousState reverts t, see MoveToNextState
func (c *Controller) MoveToPreviousState(ctx context.Context, t todo.Todo) error {
	return c.move(ctx, t, usecases.Backward)
}

func (c *Controller) move(ctx context.Context, t todo.Todo, direction usecases.Direction) error {
	var current todo.Todo
	return c.mutate(ctx, "move "+direction.String(), func(base todo.Todos) (todo.Todos, error) {
		current = t
		if published, ok := base[t.ID]; ok {
			current = published
		}
		updated, err := usecases.Transition(current, direction)
		if err != nil {
			return nil, err
		}
		return todo.Insert(base, updated), nil
	}, func(ctx context.Context, base todo.Todos) (todo.Todos, error) {
		stored, err := usecases.ChangeState(ctx, current, direction, c.storage)
		if err != nil {
			return nil, err
		}
		return todo.Insert(base, stored), nil
	})
}

// mutate runs the optimistic update protocol. project derives the collection
// to show while commit is in flight; commit performs the write and returns
// the collection implied by its direct result, used when the follow-up read
// fails.
func (c *Controller) mutate(
	ctx context.Context,
	name string,
	project func(base todo.Todos) (todo.Todos, error),
	commit func(ctx context.Context, base todo.Todos) (todo.Todos, error),
) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	base, err := c.readyBase()
	if err != nil {
		return err
	}

	optimistic, err := project(base)
	if err != nil {
		return err
	}
	c.publish(Ready, optimistic, nil)

	confirmed, err := commit(ctx, base)
	if err != nil {
		utils.Log("store: %s failed, rolling back: %v", name, err)
		c.publish(Ready, base, err)
		return err
	}

	fresh, err := usecases.ListTodosByState(ctx, c.storage)
	if err != nil {
		utils.Log("store: revalidate after %s failed: %v", name, err)
		c.publish(Ready, confirmed, fmt.Errorf("revalidate after %s: %w", name, err))
		return nil
	}
	c.publish(Ready, fresh, nil)
	return nil
}

// readyBase returns the last published collection, or ErrStateNotInitialized
// before Start.
func (c *Controller) readyBase() (todo.Todos, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Uninitialized {
		return nil, ErrStateNotInitialized
	}
	if c.todos == nil {
		return todo.Todos{}, nil
	}
	return c.todos, nil
}

func (c *Controller) publish(status Status, todos todo.Todos, err error) {
	c.mu.Lock()
	c.status = status
	c.todos = todo.Clone(todos)
	c.lastErr = err
	c.mu.Unlock()
	c.broadcast()
}

func (c *Controller) broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snapshotLocked()
	for _, ch := range c.subscribers {
		// keep only the latest snapshot for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Status: c.status,
		Todos:  todo.Clone(c.todos),
		Err:    c.lastErr,
	}
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Todos returns the published collection, nil before the first load
func (c *Controller) Todos() todo.Todos {
	return c.Snapshot().Todos
}

// Subscribe delivers every publish from now on. The current snapshot is
// sent immediately. Call the returned func to stop and close the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// CanAdvance is todo.CanAdvance, exposed for the presentation layer
func (c *Controller) CanAdvance(s todo.State) bool {
	return todo.CanAdvance(s)
}

// CanRevert is todo.CanRevert, exposed for the presentation layer
func (c *Controller) CanRevert(s todo.State) bool {
	return todo.CanRevert(s)
}

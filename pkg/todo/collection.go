package todo

import (
	"fmt"
	"sort"
	"time"
)

// Todos is a collection keyed by todo ID. Functions in this file never
// modify their input; they return a new map.
type Todos map[ID]Todo

// Patch is a partial update. Nil fields are left untouched by Merge.
type Patch struct {
	ID          ID
	Description *string
	State       *State
	CreatedAt   *time.Time
	Dirty       *bool
}

// PatchOf builds a patch carrying every field of t
func PatchOf(t Todo) Patch {
	return Patch{
		ID:          t.ID,
		Description: &t.Description,
		State:       &t.State,
		CreatedAt:   &t.CreatedAt,
		Dirty:       &t.Dirty,
	}
}

// Clone returns a shallow copy of c. A nil collection stays nil.
func Clone(c Todos) Todos {
	if c == nil {
		return nil
	}
	out := make(Todos, len(c))
	for id, t := range c {
		out[id] = t
	}
	return out
}

// Insert adds t, overwriting any entry with the same ID
func Insert(c Todos, t Todo) Todos {
	out := make(Todos, len(c)+1)
	for id, existing := range c {
		out[id] = existing
	}
	out[t.ID] = t
	return out
}

// Merge applies p on top of the existing entry. Patching an ID that is
// not in the collection is an error and leaves c unchanged.
func Merge(c Todos, p Patch) (Todos, error) {
	existing, ok := c[p.ID]
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.State != nil {
		existing.State = *p.State
	}
	if p.CreatedAt != nil {
		existing.CreatedAt = *p.CreatedAt
	}
	if p.Dirty != nil {
		existing.Dirty = *p.Dirty
	}
	return Insert(c, existing), nil
}

// Remove drops id from the collection. A missing id is not an error.
func Remove(c Todos, id ID) Todos {
	out := make(Todos, len(c))
	for key, t := range c {
		if key != id {
			out[key] = t
		}
	}
	return out
}

// FromSlice keys a list of todos by ID
func FromSlice(ts []Todo) Todos {
	out := make(Todos, len(ts))
	for _, t := range ts {
		out[t.ID] = t
	}
	return out
}

// Sorted returns the todos oldest first, ties broken by ID
func (c Todos) Sorted() []Todo {
	out := make([]Todo, 0, len(c))
	for _, t := range c {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ByState groups the collection for display, each group in Sorted order
func (c Todos) ByState() map[State][]Todo {
	groups := make(map[State][]Todo, len(States))
	for _, s := range States {
		groups[s] = []Todo{}
	}
	for _, t := range c.Sorted() {
		groups[t.State] = append(groups[t.State], t)
	}
	return groups
}

// Equal compares two collections, ignoring the Dirty marker and
// monotonic clock readings.
func Equal(a, b Todos) bool {
	if len(a) != len(b) {
		return false
	}
	for id, ta := range a {
		tb, ok := b[id]
		if !ok {
			return false
		}
		if ta.Description != tb.Description || ta.State != tb.State || !ta.CreatedAt.Equal(tb.CreatedAt) || ta.ID != tb.ID {
			return false
		}
	}
	return true
}

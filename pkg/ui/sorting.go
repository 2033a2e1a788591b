package ui

import (
	"sort"
	"strings"

	"hexatodo/pkg/todo"
)

type SortBy int

const (
	SortByCreated SortBy = iota
	SortByDescription
	sortByCount
)

func (s SortBy) String() string {
	switch s {
	case SortByDescription:
		return "description"
	default:
		return "created"
	}
}

type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

func (o SortOrder) String() string {
	if o == SortDesc {
		return "desc"
	}
	return "asc"
}

// SortTodos returns a sorted copy. Ties fall back to creation order.
func SortTodos(todos []todo.Todo, by SortBy, order SortOrder) []todo.Todo {
	sorted := make([]todo.Todo, len(todos))
	copy(sorted, todos)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if order == SortDesc {
			a, b = b, a
		}

		if by == SortByDescription {
			da, db := strings.ToLower(a.Description), strings.ToLower(b.Description)
			if da != db {
				return da < db
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return sorted
}

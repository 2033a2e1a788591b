package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
	"hexatodo/pkg/utils"
)

// HandleImportCommand processes --import commands. An empty importType is
// inferred from the file extension, defaulting to txt.
func HandleImportCommand(ctx context.Context, storage ports.TodoStorage, out io.Writer, filename, importType string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	if importType == "" {
		importType = "txt"
		if strings.EqualFold(filepath.Ext(filename), ".json") {
			importType = "json"
		}
	}

	var parsed []todo.Todo
	switch importType {
	case "json":
		parsed, err = parseJSON(content)
	case "txt":
		parsed, err = ParseText(string(content))
	default:
		err = fmt.Errorf("unknown import type: %s", importType)
	}
	if err != nil {
		return err
	}

	var todosAdded int
	for _, t := range parsed {
		if _, err := usecases.AddTodo(ctx, t, storage); err != nil {
			fmt.Fprintf(out, "Error adding todo '%s': %v\n", t.Description, err)
			continue
		}
		todosAdded++
	}

	fmt.Fprintf(out, "Successfully imported %d todo(s) from %s\n", todosAdded, filename)
	return nil
}

// parseJSON reads an exported []Todo. Entries without an id or creation
// time are given fresh ones.
func parseJSON(content []byte) ([]todo.Todo, error) {
	var items []todo.Todo
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	for i, item := range items {
		if item.ID != "" && !item.CreatedAt.IsZero() {
			continue
		}
		fresh, err := todo.Create(item.Description)
		if err != nil {
			return nil, err
		}
		fresh.State = item.State
		items[i] = fresh
	}
	return items, nil
}

// ParseText reads the format written by FormatText. Lines before the
// first state header belong to TODO.
func ParseText(content string) ([]todo.Todo, error) {
	var todos []todo.Todo
	currentState := todo.Pending

	for n, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check if line is a state header
		if header, ok := strings.CutSuffix(line, ":"); ok && !strings.HasPrefix(line, "-") {
			state, err := todo.ParseState(header)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			currentState = state
			continue
		}

		// Check if line is a todo (starts with -)
		description, ok := strings.CutPrefix(line, "-")
		if !ok {
			utils.Log("import: skipping line %d: %q", n+1, line)
			continue
		}
		t, err := todo.Create(description)
		if err != nil {
			utils.Log("import: skipping line %d: %v", n+1, err)
			continue
		}
		t.State = currentState
		// keep file order when creation times collide
		t.CreatedAt = t.CreatedAt.Add(time.Duration(len(todos)) * time.Microsecond)
		todos = append(todos, t)
	}
	return todos, nil
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
)

// HandleExportCommand processes --export commands
func HandleExportCommand(ctx context.Context, storage ports.TodoStorage, out io.Writer, filename, exportType string) error {
	todos, err := usecases.ListTodosByState(ctx, storage)
	if err != nil {
		return fmt.Errorf("error loading todos: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	var content []byte
	switch exportType {
	case "json":
		content, err = json.MarshalIndent(todos.Sorted(), "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling todos to JSON: %w", err)
		}
	case "txt":
		content = []byte(FormatText(todos))
	default:
		return fmt.Errorf("unknown export type: %s", exportType)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Fprintf(out, "Successfully exported %d todo(s) to %s\n", len(todos), filename)
	return nil
}

// FormatText renders todos as one "STATE:" block per non-empty state:
//
//	TODO:
//	- buy milk
//
//	DONE:
//	- water plants
func FormatText(todos todo.Todos) string {
	groups := todos.ByState()
	var lines []string
	for _, state := range todo.States {
		if len(groups[state]) == 0 {
			continue
		}
		lines = append(lines, "", state.String()+":")
		for _, t := range groups[state] {
			lines = append(lines, "- "+t.Description)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

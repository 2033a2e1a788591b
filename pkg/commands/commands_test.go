package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"hexatodo/pkg/adapters/memory"
	"hexatodo/pkg/database"
	"hexatodo/pkg/store"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
)

func seeded(t *testing.T) *memory.Storage {
	t.Helper()
	storage := memory.New()
	ctx := context.Background()
	for _, item := range []struct {
		description string
		steps       int
	}{{"buy milk", 0}, {"write report", 1}, {"water plants", 2}} {
		added, err := usecases.AddNewTodo(ctx, item.description, storage)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < item.steps; i++ {
			if added, err = usecases.ChangeToNextState(ctx, added, storage); err != nil {
				t.Fatal(err)
			}
		}
	}
	return storage
}

func descriptionsByState(todos todo.Todos) map[todo.State][]string {
	out := map[todo.State][]string{}
	for state, group := range todos.ByState() {
		for _, t := range group {
			out[state] = append(out[state], t.Description)
		}
	}
	return out
}

func TestFormatText(t *testing.T) {
	is := is.New(t)
	all, _ := seeded(t).ListAll(context.Background())
	is.Equal(FormatText(all), "TODO:\n- buy milk\n\nIN_PROGRESS:\n- write report\n\nDONE:\n- water plants\n")
}

func TestParseText(t *testing.T) {
	is := is.New(t)
	parsed, err := ParseText("- loose\n\nDONE:\n- one\n-  two \nnot a todo\n\nIN_PROGRESS:\n-   \n- three\n")
	is.NoErr(err)
	is.Equal(len(parsed), 4)
	is.Equal(parsed[0].Description, "loose")
	is.Equal(parsed[0].State, todo.Pending)
	is.Equal(parsed[1].State, todo.Done)
	is.Equal(parsed[2].Description, "two")
	is.Equal(parsed[3].State, todo.InProgress)
	is.True(parsed[1].CreatedAt.Before(parsed[2].CreatedAt))

	_, err = ParseText("LATER:\n- x\n")
	is.True(errors.Is(err, todo.ErrValidation))
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "txt"} {
		t.Run(format, func(t *testing.T) {
			is := is.New(t)
			ctx := context.Background()
			source := seeded(t)
			file := filepath.Join(t.TempDir(), "out", "todos."+format)
			var out bytes.Buffer

			is.NoErr(HandleExportCommand(ctx, source, &out, file, format))
			is.True(strings.Contains(out.String(), "exported 3 todo(s)"))

			target := memory.New()
			out.Reset()
			is.NoErr(HandleImportCommand(ctx, target, &out, file, ""))
			is.True(strings.Contains(out.String(), "imported 3 todo(s)"))

			want, _ := source.ListAll(ctx)
			got, _ := target.ListAll(ctx)
			is.Equal(descriptionsByState(got), descriptionsByState(want))
			if format == "json" {
				is.True(todo.Equal(got, want))
			}
		})
	}
}

func TestExport_JSONShape(t *testing.T) {
	is := is.New(t)
	file := filepath.Join(t.TempDir(), "todos.json")
	is.NoErr(HandleExportCommand(context.Background(), seeded(t), &bytes.Buffer{}, file, "json"))

	data, err := os.ReadFile(file)
	is.NoErr(err)
	var items []map[string]interface{}
	is.NoErr(json.Unmarshal(data, &items))
	is.Equal(len(items), 3)
	is.Equal(items[0]["state"], "TODO")
	_, hasDirty := items[0]["dirty"]
	is.True(!hasDirty)
}

func TestExport_UnknownType(t *testing.T) {
	is := is.New(t)
	err := HandleExportCommand(context.Background(), memory.New(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "x"), "xml")
	is.True(err != nil)
}

func TestPurge(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled", func(t *testing.T) {
		is := is.New(t)
		storage := seeded(t)
		var out bytes.Buffer
		is.NoErr(HandlePurgeCommand(ctx, storage, strings.NewReader("n\n"), &out, nil, false))
		is.True(strings.Contains(out.String(), "cancelled"))
		all, _ := storage.ListAll(ctx)
		is.Equal(len(all), 3)
	})

	t.Run("confirmed with state filter", func(t *testing.T) {
		is := is.New(t)
		storage := seeded(t)
		states, err := ParseStates([]string{"done", "in_progress"})
		is.NoErr(err)
		var out bytes.Buffer
		is.NoErr(HandlePurgeCommand(ctx, storage, strings.NewReader("yes\n"), &out, states, false))
		is.True(strings.Contains(out.String(), "deleted 2 todo(s)"))
		all, _ := storage.ListAll(ctx)
		is.Equal(len(all), 1)
	})

	t.Run("sql storage purges in bulk", func(t *testing.T) {
		is := is.New(t)
		db, err := database.ConnectDB(database.DriverSQLite, filepath.Join(t.TempDir(), "todo.db"))
		is.NoErr(err)
		defer db.Close()
		is.NoErr(database.EnsureSchema(db))
		storage := database.New(db)
		_, err = usecases.AddNewTodo(ctx, "a", storage)
		is.NoErr(err)

		var out bytes.Buffer
		is.NoErr(HandlePurgeCommand(ctx, storage, nil, &out, nil, true))
		is.True(strings.Contains(out.String(), "deleted 1 todo(s)"))
	})
}

func TestControllerCommands(t *testing.T) {
	is := is.New(t)
	storage := memory.New()
	ctx := store.WithController(context.Background(), store.NewController(storage))
	var out bytes.Buffer

	is.NoErr(HandleAddTodo(ctx, &out, "  buy milk "))
	all, _ := storage.ListAll(ctx)
	is.Equal(len(all), 1)
	var id todo.ID
	for id = range all {
	}
	is.True(strings.Contains(out.String(), string(id)+" buy milk"))

	is.NoErr(HandleMoveCommand(ctx, &out, string(id), usecases.Forward))
	is.True(strings.Contains(out.String(), "buy milk: TODO -> IN_PROGRESS"))
	is.NoErr(HandleMoveCommand(ctx, &out, string(id), usecases.Backward))
	err := HandleMoveCommand(ctx, &out, string(id), usecases.Backward)
	is.True(errors.Is(err, todo.ErrInvalidTransition))

	out.Reset()
	is.NoErr(HandleListCommand(ctx, storage, &out))
	is.True(strings.Contains(out.String(), "TODO (1):\n  "+string(id)+"  buy milk"))

	is.NoErr(HandleRemoveCommand(ctx, &out, string(id)))
	all, _ = storage.ListAll(ctx)
	is.Equal(len(all), 0)

	err = HandleRemoveCommand(ctx, &out, "ghost")
	is.True(errors.Is(err, todo.ErrNotFound))
}

func TestHandleAddTodo_RejectsBlank(t *testing.T) {
	is := is.New(t)
	ctx := store.WithController(context.Background(), store.NewController(memory.New()))
	err := HandleAddTodo(ctx, &bytes.Buffer{}, "   ")
	is.True(errors.Is(err, todo.ErrValidation))
}

func TestHandleAddTodo_PrintsTheAddedTodo(t *testing.T) {
	is := is.New(t)
	storage := memory.New()
	_, err := storage.AddOne(context.Background(), todo.Todo{
		ID:          "future",
		Description: "imported later",
		CreatedAt:   time.Now().Add(time.Hour),
	})
	is.NoErr(err)
	ctx := store.WithController(context.Background(), store.NewController(storage))

	var out bytes.Buffer
	is.NoErr(HandleAddTodo(ctx, &out, "buy milk"))

	all, _ := storage.ListAll(ctx)
	is.Equal(len(all), 2)
	var added todo.Todo
	for id, td := range all {
		if id != "future" {
			added = td
		}
	}
	is.Equal(out.String(), "Todo added: "+string(added.ID)+" buy milk\n")
}

package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"

	"hexatodo/pkg/adapters/memory"
	"hexatodo/pkg/server"
	"hexatodo/pkg/store"
	"hexatodo/pkg/todo"
	"hexatodo/pkg/usecases"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	api := server.New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClient_Scenario(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := newClient(t)

	added, err := usecases.AddNewTodo(ctx, "buy milk", c)
	is.NoErr(err)
	is.Equal(added.State, todo.Pending)

	all, err := usecases.ListTodosByState(ctx, c)
	is.NoErr(err)
	is.Equal(len(all), 1)
	is.Equal(all[added.ID].Description, "buy milk")

	current, err := usecases.ChangeToNextState(ctx, all[added.ID], c)
	is.NoErr(err)
	current, err = usecases.ChangeToNextState(ctx, current, c)
	is.NoErr(err)
	is.Equal(current.State, todo.Done)
	_, err = usecases.ChangeToNextState(ctx, current, c)
	is.True(errors.Is(err, todo.ErrInvalidTransition))

	is.NoErr(usecases.RemoveTodo(ctx, added.ID, c))
	all, err = usecases.ListTodosByState(ctx, c)
	is.NoErr(err)
	is.Equal(len(all), 0)
}

func TestClient_NotFound(t *testing.T) {
	is := is.New(t)
	c := newClient(t)
	_, err := c.UpdateOne(context.Background(), todo.Todo{ID: "ghost", Description: "x"})
	is.True(errors.Is(err, todo.ErrNotFound))
}

func TestClient_ServerError(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c, err := New(srv.URL+"/api/", time.Second)
	is.NoErr(err)

	_, err = c.ListAll(context.Background())
	var statusErr *StatusError
	is.True(errors.As(err, &statusErr))
	is.Equal(statusErr.Code, http.StatusServiceUnavailable)
	is.Equal(statusErr.Body, "maintenance")
}

func TestClient_ControllerRollsBackOnServerError(t *testing.T) {
	is := is.New(t)
	var failing atomic.Bool
	api := server.New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() && r.Method != http.MethodGet {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		api.ServeHTTP(w, r)
	}))
	defer srv.Close()
	c, err := New(srv.URL, time.Second)
	is.NoErr(err)

	ctl := store.NewController(c)
	is.NoErr(ctl.Start(context.Background()))
	_, err = ctl.AddTodo(context.Background(), "kept")
	is.NoErr(err)
	before := ctl.Todos()

	failing.Store(true)
	_, err = ctl.AddTodo(context.Background(), "lost")
	is.True(err != nil)
	is.True(todo.Equal(ctl.Todos(), before))
}

func TestNew_RequiresURL(t *testing.T) {
	is := is.New(t)
	_, err := New("", time.Second)
	is.True(err != nil)
}

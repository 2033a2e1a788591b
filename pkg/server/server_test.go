package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"hexatodo/pkg/adapters/memory"
	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

func newTestServer(t *testing.T, storage ports.TodoStorage) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(storage, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	request, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func TestServer_Routes(t *testing.T) {
	is := is.New(t)
	storage := memory.New()
	srv := newTestServer(t, storage)

	resp := send(t, http.MethodPost, srv.URL+"/todo", `{"id":"1","description":"buy milk","state":"TODO","createdAt":"2024-01-01T00:00:00Z"}`)
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp = send(t, http.MethodGet, srv.URL+"/todo", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/json")
	var listed []todo.Todo
	is.NoErr(json.NewDecoder(resp.Body).Decode(&listed))
	is.Equal(len(listed), 1)
	is.Equal(listed[0].Description, "buy milk")
	is.True(listed[0].CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	resp = send(t, http.MethodPut, srv.URL+"/todo/1", `{"id":"1","description":"buy milk","state":"DONE","createdAt":"2024-01-01T00:00:00Z"}`)
	is.Equal(resp.StatusCode, http.StatusOK)
	all, _ := storage.ListAll(context.Background())
	is.Equal(all["1"].State, todo.Done)

	resp = send(t, http.MethodDelete, srv.URL+"/todo/1", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)
	all, _ = storage.ListAll(context.Background())
	is.Equal(len(all), 0)
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t, memory.New())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/todo", `{`, http.StatusBadRequest},
		{"empty description", http.MethodPost, "/todo", `{"id":"1","description":" ","state":"TODO"}`, http.StatusBadRequest},
		{"unknown state", http.MethodPost, "/todo", `{"id":"1","description":"x","state":"LATER"}`, http.StatusBadRequest},
		{"id mismatch", http.MethodPut, "/todo/2", `{"id":"1","description":"x","state":"TODO"}`, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/todo/9", `{"id":"9","description":"x","state":"TODO"}`, http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/todo/9", ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			resp := send(t, tt.method, srv.URL+tt.path, tt.body)
			is.Equal(resp.StatusCode, tt.status)
		})
	}
}

type brokenStorage struct{ ports.TodoStorage }

func (brokenStorage) ListAll(ctx context.Context) (todo.Todos, error) {
	return nil, errors.New("disk on fire")
}

func TestServer_StorageFailure(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t, brokenStorage{})
	resp := send(t, http.MethodGet, srv.URL+"/todo", "")
	is.Equal(resp.StatusCode, http.StatusInternalServerError)
	var body errorBody
	is.NoErr(json.NewDecoder(resp.Body).Decode(&body))
	is.True(strings.Contains(body.Error, "disk on fire"))
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	errs := make(chan error, 1)
	go func() { errs <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		is.NoErr(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// Server exposes a TodoStorage over HTTP:
//
//	GET    /todo       list all todos as a JSON array
//	POST   /todo       add a todo
//	PUT    /todo/{id}  replace a todo
//	DELETE /todo/{id}  remove a todo
type Server struct {
	storage ports.TodoStorage
	logger  *slog.Logger
}

func New(storage ports.TodoStorage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{storage: storage, logger: logger}
}

// Handler returns the routed handler with request logging
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.logger.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/todo").HandlerFunc(s.listTodos)
	r.Methods(http.MethodPost).Path("/todo").HandlerFunc(s.addTodo)
	r.Methods(http.MethodPut).Path("/todo/{id}").HandlerFunc(s.updateTodo)
	r.Methods(http.MethodDelete).Path("/todo/{id}").HandlerFunc(s.removeTodo)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) listTodos(writer http.ResponseWriter, request *http.Request) {
	todos, err := s.storage.ListAll(request.Context())
	if err != nil {
		s.writeError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, todos.Sorted())
}

func (s *Server) addTodo(writer http.ResponseWriter, request *http.Request) {
	t, err := decodeTodo(writer, request)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	stored, err := s.storage.AddOne(request.Context(), t)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusCreated, stored)
}

func (s *Server) updateTodo(writer http.ResponseWriter, request *http.Request) {
	t, err := decodeTodo(writer, request)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	if id := todo.ID(mux.Vars(request)["id"]); t.ID != id {
		s.writeError(writer, fmt.Errorf("%w: body id %q does not match path id %q", todo.ErrValidation, t.ID, id))
		return
	}
	stored, err := s.storage.UpdateOne(request.Context(), t)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, stored)
}

func (s *Server) removeTodo(writer http.ResponseWriter, request *http.Request) {
	if err := s.storage.RemoveOne(request.Context(), todo.ID(mux.Vars(request)["id"])); err != nil {
		s.writeError(writer, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

func decodeTodo(writer http.ResponseWriter, request *http.Request) (todo.Todo, error) {
	var t todo.Todo
	dec := json.NewDecoder(http.MaxBytesReader(writer, request.Body, 1<<20))
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, todo.ErrValidation) {
			return todo.Todo{}, err
		}
		return todo.Todo{}, fmt.Errorf("%w: %v", todo.ErrValidation, err)
	}
	if err := todo.Validate(t); err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(writer http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, todo.ErrValidation), errors.Is(err, todo.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, todo.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("storage failed", "err", err)
	}
	s.writeJSON(writer, status, errorBody{Error: err.Error()})
}

func (s *Server) writeJSON(writer http.ResponseWriter, status int, v interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		s.logger.Error("failed to write out", "err", err)
	}
}

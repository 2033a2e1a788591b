package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/todo"
)

// Client talks to a todo REST API (see pkg/server). Timeouts are the
// client's concern; the core never cancels a request on its own.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ ports.TodoStorage = &Client{}

// New returns a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("api url is empty")
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// StatusError is returned for unexpected HTTP responses
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), reader)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		statusErr := &StatusError{Method: method, Path: path, Code: response.StatusCode, Body: strings.TrimSpace(string(text))}
		if response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", todo.ErrNotFound, statusErr)
		}
		return statusErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListAll(ctx context.Context) (todo.Todos, error) {
	var items []todo.Todo
	if err := c.do(ctx, http.MethodGet, "todo", nil, &items); err != nil {
		return nil, err
	}
	return todo.FromSlice(items), nil
}

func (c *Client) AddOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	var stored todo.Todo
	if err := c.do(ctx, http.MethodPost, "todo", t.Clean(), &stored); err != nil {
		return todo.Todo{}, err
	}
	return stored, nil
}

func (c *Client) UpdateOne(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	var stored todo.Todo
	if err := c.do(ctx, http.MethodPut, "todo/"+url.PathEscape(string(t.ID)), t.Clean(), &stored); err != nil {
		return todo.Todo{}, err
	}
	return stored, nil
}

func (c *Client) RemoveOne(ctx context.Context, id todo.ID) error {
	return c.do(ctx, http.MethodDelete, "todo/"+url.PathEscape(string(id)), nil, nil)
}

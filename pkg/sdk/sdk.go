package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// Client wraps calls to the task manager JSON API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Health checks that the server and its database answer
func (c *Client) Health(ctx context.Context) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return err
	}
	return checkStatus("health check", out)
}

// ListUsers returns every user
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return list[User](ctx, c, "/api/users", "list users")
}

// ListStatuses returns every status
func (c *Client) ListStatuses(ctx context.Context) ([]Status, error) {
	return list[Status](ctx, c, "/api/statuses", "list statuses")
}

// ListLabels returns every label
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	return list[Label](ctx, c, "/api/labels", "list labels")
}

// ListTasks returns the tasks matching a query
func (c *Client) ListTasks(ctx context.Context, query TaskQuery) ([]Task, error) {
	path := "/api/tasks"
	if encoded := query.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	return list[Task](ctx, c, path, "list tasks")
}

// list fetches a collection endpoint
func list[T any](ctx context.Context, c *Client, path, action string) ([]T, error) {
	var out ApiResponse[[]T]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := checkStatus(action, out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// checkStatus turns a fail or error envelope into an error
func checkStatus[T any](action string, out ApiResponse[T]) error {
	switch out.Status {
	case api_types.StatusFail:
		return fmt.Errorf("failed to %s: %s", action, out.Message)
	case api_types.StatusError:
		return fmt.Errorf("error trying to %s (%s): %v", action, out.Message, out.Error)
	}
	return nil
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// On error, read body and return error
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("[SDK]: '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
	}

	// If no output expected, return early
	if out == nil {
		return nil
	}

	// Decode the response body into the output struct
	return json.NewDecoder(resp.Body).Decode(out)
}

// Package client is the typed HTTP gateway the console uses to reach the user API.
package client

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

	"github.com/wuwenbin0122/user-console/internal/models"
)

// ErrNotFound matches any APIError with status 404.
var ErrNotFound = errors.New("client: user not found")

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TransportError reports that a request never produced a usable response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("user api error (%d, %s): %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("user api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("user api error (%d)", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client calls the /users endpoints. It never retries and never caches.
type Client struct {
	baseURL string
	http    httpDoer
}

// New builds a Client for baseURL. A non-positive timeout leaves requests
// bounded only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: c}
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, "list users", http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, payload models.UserCreate) (models.User, error) {
	var out models.User
	if err := c.do(ctx, "create user", http.MethodPost, "/users", payload, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id, role string) (models.User, error) {
	var out models.User
	if err := c.do(ctx, "update user role", http.MethodPut, userPath(id), models.UserUpdate{Role: role}, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "delete user", http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if len(body) > 0 && json.Unmarshal(body, apiErr) == nil && (apiErr.Code != "" || apiErr.Message != "") {
		apiErr.Message = strings.TrimSpace(apiErr.Message)
		return apiErr
	}

	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		snippet = http.StatusText(status)
	}
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	apiErr.Message = snippet
	return apiErr
}

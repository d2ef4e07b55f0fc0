package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/models"
)

const (
	// RequestIDHeader carries a per-request UUID for log correlation.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// Client implements Service over HTTP with JSON bodies.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func taskPath(id models.TaskID) string {
	return "/tasks/" + url.PathEscape(id.String())
}

// ListTasks implements Service.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTask implements Service.
func (c *Client) GetTask(ctx context.Context, id models.TaskID) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task)
	return task, err
}

// CreateTask implements Service.
func (c *Client) CreateTask(ctx context.Context, form models.FormState) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", form, &task)
	return task, err
}

// UpdateTask implements Service.
func (c *Client) UpdateTask(ctx context.Context, id models.TaskID, form models.FormState) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), form, &task)
	return task, err
}

// DeleteTask implements Service.
func (c *Client) DeleteTask(ctx context.Context, id models.TaskID) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// do issues one request. body is JSON-encoded when non-nil; out is decoded
// from the response when non-nil and the response has content.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		entry.Warn("request rejected")
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}
	entry.Debug("request completed")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

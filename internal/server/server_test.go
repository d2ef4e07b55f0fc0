package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/config"
	"github.com/tgienger/taskui/internal/db"
	"github.com/tgienger/taskui/internal/logging"
	"github.com/tgienger/taskui/internal/models"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	s, err := New(database, logging.Discard(), cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("error body %q: %v", body, err)
	}
	return e.Error
}

func TestEmptyList(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	resp, body := do(t, http.MethodGet, srv.URL+"/tasks", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, body := do(t, http.MethodPost, srv.URL+"/tasks", `{"title":"Write report","description":"","due_date":"2024-05-01","is_completed":false}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created models.Task
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Title != "Write report" || created.DueDateText() != "2024-05-01" {
		t.Errorf("created = %+v", created)
	}
	if created.Description != nil {
		t.Error("empty description should be stored as absent")
	}

	taskURL := srv.URL + "/tasks/" + created.ID.String()
	resp, body = do(t, http.MethodGet, taskURL, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Write report") {
		t.Fatalf("get = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPut, taskURL, `{"title":"Write report","description":"draft","due_date":"","is_completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}
	var updated models.Task
	json.Unmarshal([]byte(body), &updated)
	if !updated.Completed() || updated.DescriptionText() != "draft" || updated.DueDate != nil {
		t.Errorf("updated = %+v", updated)
	}

	resp, _ = do(t, http.MethodDelete, taskURL, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, taskURL, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d", resp.StatusCode)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"blank title", `{"title":"   "}`, "Title is required"},
		{"missing title", `{"description":"x"}`, "Title is required"},
		{"not json", `{title`, "Invalid task data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/tasks", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := errorMessage(t, body); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnknownTask(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		for _, id := range []string{"42", "abc"} {
			resp, body := do(t, method, srv.URL+"/tasks/"+id, "")
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("%s %s = %d", method, id, resp.StatusCode)
			}
			if errorMessage(t, body) != "Task not found" {
				t.Errorf("%s %s body = %s", method, id, body)
			}
		}
	}
	resp, _ := do(t, http.MethodPut, srv.URL+"/tasks/42", `{"title":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("PUT unknown = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	resp, _ := do(t, http.MethodPatch, srv.URL+"/tasks", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{RateLimit: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		if resp, _ := do(t, http.MethodGet, srv.URL+"/tasks", ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d = %d", i, resp.StatusCode)
		}
	}
	resp, body := do(t, http.MethodGet, srv.URL+"/tasks", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if errorMessage(t, body) == "" {
		t.Error("expected an error message")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	do(t, http.MethodGet, srv.URL+"/tasks", "")
	do(t, http.MethodGet, srv.URL+"/tasks/7", "")

	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`taskd_requests_total{code="200",method="GET",route="/tasks`,
		`taskd_requests_total{code="404",method="GET",route="/tasks/{id}"}`,
		"taskd_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

// The client and the server agree on the wire format.
func TestClientAgainstServer(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	c, err := api.NewClient(srv.URL, api.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	created, err := c.CreateTask(ctx, models.FormState{Title: "A", DueDate: "2024-01-31"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := c.CreateTask(ctx, models.FormState{Title: "B"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := c.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if models.FormStateFromTask(got) != (models.FormState{Title: "A", DueDate: "2024-01-31"}) {
		t.Errorf("got %+v", got)
	}

	if _, err := c.UpdateTask(ctx, created.ID, models.FormState{Title: "A", IsCompleted: true}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if err := c.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "B" {
		t.Errorf("tasks = %+v", tasks)
	}

	_, err = c.CreateTask(ctx, models.FormState{Title: " "})
	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Errorf("blank title err = %v", err)
	}
}

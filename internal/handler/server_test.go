// internal/handler/server_test.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskdeck/internal/database"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/session"
	"github.com/gurkanbulca/taskdeck/internal/web"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	srv := NewServer(
		repository.NewUserRepository(db),
		repository.NewTaskRepository(db),
		session.NewManager(time.Hour),
		renderer,
		"taskdeck_session",
	)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

// newTestClient returns a client with a cookie jar, like a browser.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func registerAndLogin(t *testing.T, ts *httptest.Server, client *http.Client, username, email, password string) {
	t.Helper()

	resp, err := client.PostForm(ts.URL+"/auth/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.PostForm(ts.URL+"/auth/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func postTask(t *testing.T, ts *httptest.Server, client *http.Client, body string) *http.Response {
	t.Helper()

	resp, err := client.Post(ts.URL+"/api/tasks", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestEndToEndTaskFlow(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	// Unauthenticated API access is rejected up front.
	resp, err := client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Authentication required"}`, readBody(t, resp))

	// Register; the redirect lands on the login page with the flash notice.
	resp, err = client.PostForm(ts.URL+"/auth/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"secret"},
	})
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Account created successfully")

	// Log in.
	resp, err = client.PostForm(ts.URL+"/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alice")

	// Create a task with only a title; defaults fill in.
	resp = postTask(t, ts, client, `{"title": "Buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createdTaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Positive(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, "medium", created.Priority)
	assert.Positive(t, created.UserID)

	// The list now holds exactly that task.
	resp, err = client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []taskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Buy milk", listed[0].Title)
	assert.False(t, listed[0].CreatedAt.IsZero())

	// Delete through the page route.
	resp, err = client.Get(fmt.Sprintf("%s/delete/%d", ts.URL, created.ID))
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Task deleted successfully!")

	// The list is empty again.
	resp, err = client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, readBody(t, resp))
}

func TestEditTaskPageFlow(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)
	registerAndLogin(t, ts, client, "alice", "a@x.com", "secret")

	resp := postTask(t, ts, client, `{"title": "Draft report"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createdTaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	// The edit form is pre-populated with the stored task.
	resp, err := client.Get(fmt.Sprintf("%s/edit/%d", ts.URL, created.ID))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Edit Task")
	assert.Contains(t, body, "Draft report")

	// Submitting replaces all five fields and lands back on the list.
	resp, err = client.PostForm(fmt.Sprintf("%s/edit/%d", ts.URL, created.ID), url.Values{
		"title":       {"Finish report"},
		"description": {"Final pass"},
		"status":      {"in-progress"},
		"priority":    {"high"},
		"due_date":    {"2026-09-30"},
	})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Task updated successfully!")

	resp, err = client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	var listed []taskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed, 1)
	assert.Equal(t, "Finish report", listed[0].Title)
	assert.Equal(t, "Final pass", listed[0].Description)
	assert.Equal(t, "in-progress", listed[0].Status)
	assert.Equal(t, "high", listed[0].Priority)
	assert.Equal(t, "2026-09-30", listed[0].DueDate)

	// Opening the form for an id that is not yours behaves as not found.
	resp, err = client.Get(fmt.Sprintf("%s/edit/%d", ts.URL, created.ID+100))
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Task not found or you do not have permission to edit it.")

	// Submitting against such an id reports the generic failure.
	resp, err = client.PostForm(fmt.Sprintf("%s/edit/%d", ts.URL, created.ID+100), url.Values{
		"title": {"ghost"},
	})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Error updating task.")
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	form := url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"secret"},
	}

	resp, err := client.PostForm(ts.URL+"/auth/register", form)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.PostForm(ts.URL+"/auth/register", form)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Username or email already exists")
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp, err := client.PostForm(ts.URL+"/auth/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"secret"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.PostForm(ts.URL+"/auth/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Invalid username or password")

	// Still unauthenticated.
	resp, err = client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPICreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{
			name:      "missing title",
			body:      `{"description": "no title here"}`,
			wantError: "Title is required",
		},
		{
			name:      "unknown status",
			body:      `{"title": "t", "status": "paused"}`,
			wantError: "Invalid status",
		},
		{
			name:      "unknown priority",
			body:      `{"title": "t", "priority": "urgent"}`,
			wantError: "Invalid priority",
		},
		{
			name:      "malformed body",
			body:      `{"title": `,
			wantError: "Invalid JSON body",
		},
	}

	ts := newTestServer(t)
	client := newTestClient(t)
	registerAndLogin(t, ts, client, "alice", "a@x.com", "secret")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postTask(t, ts, client, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.wantError), readBody(t, resp))
		})
	}

	// Nothing was created.
	resp, err := client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, readBody(t, resp))
}

func TestPageGuardRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	for _, path := range []string{"/", "/add", "/edit/1", "/delete/1"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		body := readBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Log In", "guard should land %s on the login page", path)
	}
}

func TestCrossUserIsolationOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	alice := newTestClient(t)
	registerAndLogin(t, ts, alice, "alice", "a@x.com", "secret")

	bob := newTestClient(t)
	registerAndLogin(t, ts, bob, "bob", "b@x.com", "hunter2")

	resp := postTask(t, ts, alice, `{"title": "Alice's secret plan"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createdTaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	// Bob's list does not include it.
	resp, err := bob.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, readBody(t, resp))

	// Bob deleting it reports the generic failure, and the task survives.
	resp, err = bob.Get(fmt.Sprintf("%s/delete/%d", ts.URL, created.ID))
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Error deleting task.")

	resp, err = alice.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	var listed []taskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	assert.Len(t, listed, 1)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)
	registerAndLogin(t, ts, client, "alice", "a@x.com", "secret")

	resp, err := client.Get(ts.URL + "/auth/logout")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/tasks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logging out again is harmless.
	resp, err = client.Get(ts.URL + "/auth/logout")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/api/dto"
	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/service"
)

func TestTasks_EndToEnd(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")

	me := decode[dto.MeResponse](t, ts.api.Get("/me", alice).Body.Bytes())

	resp := ts.api.Post("/tasks/", alice, map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	created := decode[domain.Task](t, resp.Body.Bytes())
	assert.Equal(t, "Buy milk", created.Title)
	assert.Nil(t, created.Description)
	assert.Equal(t, me.ID, created.OwnerID)

	resp = ts.api.Get("/tasks/", alice)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	tasks := decode[[]domain.Task](t, resp.Body.Bytes())
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, me.ID, tasks[0].OwnerID)
}

func TestTasks_EmptyListIsArray(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")

	resp := ts.api.Get("/tasks", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestTasks_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/tasks/", map[string]any{"title": "x"})
	assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")

	resp = ts.api.Get("/tasks/")
	assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")
}

func TestTasks_UpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")

	resp := ts.api.Post("/tasks/", alice, map[string]any{
		"title":          "Write report",
		"description":    "Q3 numbers",
		"priority_score": 5,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	task := decode[domain.Task](t, resp.Body.Bytes())
	assert.Equal(t, 5, task.PriorityScore)

	path := fmt.Sprintf("/tasks/%d", task.ID)

	// Clients echo the whole record back; extra fields are ignored.
	resp = ts.api.Put(path, alice, map[string]any{
		"id":          task.ID,
		"title":       "Write final report",
		"user_id":     999,
		"created_at":  "2001-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[domain.Task](t, resp.Body.Bytes())
	assert.Equal(t, "Write final report", updated.Title)
	assert.Nil(t, updated.Description)
	assert.Equal(t, task.OwnerID, updated.OwnerID)
	assert.Equal(t, 5, updated.PriorityScore)
	assert.True(t, task.CreatedAt.Equal(updated.CreatedAt))

	resp = ts.api.Get(path, alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Write final report", decode[domain.Task](t, resp.Body.Bytes()).Title)

	resp = ts.api.Delete(path, alice)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"ok": true}`, resp.Body.String())

	resp = ts.api.Delete(path, alice)
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND", "Task not found")
}

func TestTasks_ForeignTaskIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")
	bob := ts.registerAndLogin(t, "bob", "pw2")

	resp := ts.api.Post("/tasks/", alice, map[string]any{"title": "Secret"})
	require.Equal(t, http.StatusOK, resp.Code)
	task := decode[domain.Task](t, resp.Body.Bytes())
	path := fmt.Sprintf("/tasks/%d", task.ID)

	resp = ts.api.Put(path, bob, map[string]any{"title": "Hijacked"})
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND", "Task not found")

	resp = ts.api.Delete(path, bob)
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND", "Task not found")

	// Same answer as for an id that never existed.
	resp = ts.api.Delete(fmt.Sprintf("/tasks/%d", task.ID+1000), bob)
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND", "Task not found")

	resp = ts.api.Get("/tasks/", bob)
	assert.JSONEq(t, "[]", resp.Body.String())

	resp = ts.api.Get(path, alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Secret", decode[domain.Task](t, resp.Body.Bytes()).Title)
}

func TestTasks_RevealForbidden(t *testing.T) {
	ts := setupTestServerWith(t, defaultTestOptions(), service.OwnershipPolicy{RevealForbidden: true})
	alice := ts.registerAndLogin(t, "alice", "pw1")
	bob := ts.registerAndLogin(t, "bob", "pw2")

	resp := ts.api.Post("/tasks/", alice, map[string]any{"title": "Secret"})
	require.Equal(t, http.StatusOK, resp.Code)
	task := decode[domain.Task](t, resp.Body.Bytes())

	resp = ts.api.Delete(fmt.Sprintf("/tasks/%d", task.ID), bob)
	assertError(t, resp, http.StatusForbidden, "FORBIDDEN", "")
}

func TestTasks_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")

	resp := ts.api.Post("/tasks/", alice, map[string]any{"description": "no title"})
	assert.GreaterOrEqual(t, resp.Code, 400)
	assert.Less(t, resp.Code, 500)

	resp = ts.api.Post("/tasks/", alice, map[string]any{"title": ""})
	assertError(t, resp, http.StatusBadRequest, "VALIDATION", "")
}

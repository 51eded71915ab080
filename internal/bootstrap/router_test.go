package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authsvc "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/token"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/redisstore"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	SetGinMode("test")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := redisstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	jwt, err := token.NewJWT("test-secret", time.Hour, "taskflow-api")
	require.NoError(t, err)

	router := BuildRouter(RouterDeps{
		ServiceName: "taskflow-api",
		Version:     "test",
		Store:       store,
		Issuer:      jwt,
		Verifier:    token.Chain{jwt},
		AuthOptions: []authsvc.Option{authsvc.WithBcryptCost(bcrypt.MinCost)},
	})
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path, tok string, body any) (int, []byte) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr.Code, rr.Body.Bytes()
}

func (a *apiClient) json(method, path, tok string, body any, wantStatus int) map[string]any {
	a.t.Helper()
	status, raw := a.do(method, path, tok, body)
	require.Equal(a.t, wantStatus, status, string(raw))

	var out map[string]any
	require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (a *apiClient) list(path, tok string) []map[string]any {
	a.t.Helper()
	status, raw := a.do(http.MethodGet, path, tok, nil)
	require.Equal(a.t, http.StatusOK, status, string(raw))

	var out []map[string]any
	require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (a *apiClient) register(name, email string) string {
	a.t.Helper()
	out := a.json(http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	}, http.StatusCreated)
	return out["token"].(string)
}

func TestRouter_LaunchScenario(t *testing.T) {
	api := newAPI(t)
	tok := api.register("Ada", "ada@example.com")

	project := api.json(http.MethodPost, "/projects", tok, map[string]string{"name": "Launch"}, http.StatusCreated)
	projectID := project["id"].(string)
	assert.Equal(t, float64(0), project["totalTasks"])
	assert.Equal(t, []any{}, project["tasks"])

	task := api.json(http.MethodPost, "/projects/"+projectID+"/tasks", tok, map[string]string{
		"title":   "Draft release notes",
		"dueDate": "2020-01-01",
	}, http.StatusCreated)
	taskID := task["id"].(string)
	assert.Equal(t, "To Do", task["status"])
	assert.Equal(t, true, task["isOverdue"])

	got := api.json(http.MethodGet, "/projects/"+projectID, tok, nil, http.StatusOK)
	assert.Equal(t, float64(1), got["totalTasks"])
	assert.Equal(t, float64(0), got["completedTasks"])
	assert.Equal(t, float64(0), got["completionPercentage"])
	assert.Equal(t, []any{taskID}, got["tasks"])

	overdue := api.list("/tasks/overdue", tok)
	require.Len(t, overdue, 1)
	assert.Equal(t, taskID, overdue[0]["id"])
	assert.Equal(t, map[string]any{"id": projectID, "name": "Launch"}, overdue[0]["project"])

	api.json(http.MethodPut, "/projects/"+projectID+"/tasks/"+taskID, tok, map[string]string{"status": "Done"}, http.StatusOK)

	got = api.json(http.MethodGet, "/projects/"+projectID, tok, nil, http.StatusOK)
	assert.Equal(t, float64(1), got["completedTasks"])
	assert.Equal(t, float64(100), got["completionPercentage"])
	assert.Empty(t, api.list("/tasks/overdue", tok))

	deleted := api.json(http.MethodDelete, "/projects/"+projectID, tok, nil, http.StatusOK)
	assert.Equal(t, "project deleted", deleted["message"])

	api.json(http.MethodGet, "/projects/"+projectID, tok, nil, http.StatusNotFound)
	api.json(http.MethodGet, "/projects/"+projectID+"/tasks/"+taskID, tok, nil, http.StatusNotFound)
	assert.Empty(t, api.list("/projects", tok))
}

func TestRouter_TaskLifecycle(t *testing.T) {
	api := newAPI(t)
	tok := api.register("Ada", "ada@example.com")

	project := api.json(http.MethodPost, "/projects", tok, map[string]string{"name": "Launch"}, http.StatusCreated)
	base := "/projects/" + project["id"].(string) + "/tasks"

	task := api.json(http.MethodPost, base, tok, map[string]string{
		"title": "Draft release notes", "dueDate": "2030-06-01T09:00:00Z", "status": "In Progress",
	}, http.StatusCreated)

	items := api.list(base, tok)
	require.Len(t, items, 1)
	assert.Equal(t, task["id"], items[0]["id"])
	assert.Equal(t, false, items[0]["isOverdue"])

	deleted := api.json(http.MethodDelete, base+"/"+task["id"].(string), tok, nil, http.StatusOK)
	assert.Equal(t, "task deleted", deleted["message"])
	assert.Empty(t, api.list(base, tok))

	got := api.json(http.MethodGet, "/projects/"+project["id"].(string), tok, nil, http.StatusOK)
	assert.Equal(t, []any{}, got["tasks"])
}

func TestRouter_Isolation(t *testing.T) {
	api := newAPI(t)
	ada := api.register("Ada", "ada@example.com")
	bob := api.register("Bob", "bob@example.com")

	project := api.json(http.MethodPost, "/projects", ada, map[string]string{"name": "Secret"}, http.StatusCreated)
	projectID := project["id"].(string)
	task := api.json(http.MethodPost, "/projects/"+projectID+"/tasks", ada, map[string]string{
		"title": "Hidden", "dueDate": "2020-01-01",
	}, http.StatusCreated)
	taskPath := "/projects/" + projectID + "/tasks/" + task["id"].(string)

	tests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/projects/" + projectID, nil},
		{http.MethodPut, "/projects/" + projectID, map[string]string{"name": "Mine now"}},
		{http.MethodDelete, "/projects/" + projectID, nil},
		{http.MethodGet, "/projects/" + projectID + "/tasks", nil},
		{http.MethodPost, "/projects/" + projectID + "/tasks", map[string]string{"title": "x", "dueDate": "2030-01-01"}},
		{http.MethodGet, taskPath, nil},
		{http.MethodPut, taskPath, map[string]string{"status": "Done"}},
		{http.MethodDelete, taskPath, nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			out := api.json(tt.method, tt.path, bob, tt.body, http.StatusNotFound)
			assert.Equal(t, "project not found", out["error"])
		})
	}

	assert.Empty(t, api.list("/projects", bob))
	assert.Empty(t, api.list("/tasks/overdue", bob))

	got := api.json(http.MethodGet, "/projects/"+projectID, ada, nil, http.StatusOK)
	assert.Equal(t, "Secret", got["name"])
	assert.Equal(t, float64(1), got["totalTasks"])
}

func TestRouter_Validation(t *testing.T) {
	api := newAPI(t)
	tok := api.register("Ada", "ada@example.com")

	out := api.json(http.MethodPost, "/projects", tok, map[string]string{"name": ""}, http.StatusBadRequest)
	assert.Equal(t, "validation failed", out["error"])
	errs := out["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].(map[string]any)["field"])

	status, raw := api.do(http.MethodPost, "/projects", tok, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"invalid request body"}`, string(raw))

	out = api.json(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Again", "email": "ADA@example.com", "password": "password123",
	}, http.StatusBadRequest)
	assert.Equal(t, "email", out["errors"].([]any)[0].(map[string]any)["field"])

	t.Run("wrong json type names the field", func(t *testing.T) {
		out := api.json(http.MethodPost, "/projects", tok, map[string]any{"name": 123}, http.StatusBadRequest)
		assert.Equal(t, "validation failed", out["error"])
		assert.Equal(t, []any{
			map[string]any{"field": "name", "message": "name must be a string"},
		}, out["errors"])

		project := api.json(http.MethodPost, "/projects", tok, map[string]string{"name": "Launch"}, http.StatusCreated)
		out = api.json(http.MethodPost, "/projects/"+project["id"].(string)+"/tasks", tok,
			map[string]any{"title": "Draft", "dueDate": 5}, http.StatusBadRequest)
		assert.Equal(t, "dueDate", out["errors"].([]any)[0].(map[string]any)["field"])
	})
}

func TestRouter_Auth(t *testing.T) {
	api := newAPI(t)
	api.register("Ada", "ada@example.com")

	login := api.json(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	}, http.StatusOK)
	tok := login["token"].(string)
	user := login["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.NotContains(t, user, "passwordHash")

	me := api.json(http.MethodGet, "/auth/me", tok, nil, http.StatusOK)
	assert.Equal(t, user["id"], me["user"].(map[string]any)["id"])

	out := api.json(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "nope-nope",
	}, http.StatusUnauthorized)
	assert.Equal(t, "invalid email or password", out["error"])

	out = api.json(http.MethodGet, "/projects", "", nil, http.StatusUnauthorized)
	assert.Equal(t, "missing authorization token", out["error"])

	out = api.json(http.MethodGet, "/tasks/overdue", "not-a-jwt", nil, http.StatusUnauthorized)
	assert.Equal(t, "invalid token", out["error"])
}

func TestRouter_Ambient(t *testing.T) {
	api := newAPI(t)

	health := api.json(http.MethodGet, "/health", "", nil, http.StatusOK)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "up", health["store"])

	out := api.json(http.MethodGet, "/does/not/exist", "", nil, http.StatusNotFound)
	assert.Equal(t, "route not found", out["error"])

	status, raw := api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCORSConfig(t *testing.T) {
	open := corsConfig(nil)
	require.NotNil(t, open.AllowOriginFunc)
	assert.True(t, open.AllowOriginFunc("https://anywhere.example"))
	assert.True(t, open.AllowCredentials)

	restricted := corsConfig([]string{"https://app.example"})
	assert.Nil(t, restricted.AllowOriginFunc)
	assert.Equal(t, []string{"https://app.example"}, restricted.AllowOrigins)
}

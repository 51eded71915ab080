package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
)

func serve(t *testing.T, log *zap.Logger, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { Error(c, log, err) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestError_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", apperr.NotFound("project not found"), http.StatusNotFound, "project not found"},
		{"unauthorized", apperr.Unauthorized("invalid token"), http.StatusUnauthorized, "invalid token"},
		{"wrapped", errors.Join(apperr.Unauthorized("invalid token"), errors.New("expired")), http.StatusUnauthorized, "invalid token"},
		{"validation", apperr.Field("name", "name is required"), http.StatusBadRequest, "validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(t, zap.NewNop(), tt.err)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestError_ValidationListsFields(t *testing.T) {
	_, body := serve(t, zap.NewNop(), apperr.Validation(
		apperr.FieldError{Field: "title", Message: "title is required"},
		apperr.FieldError{Field: "dueDate", Message: "dueDate is required"},
	))
	assert.Equal(t, []any{
		map[string]any{"field": "title", "message": "title is required"},
		map[string]any{"field": "dueDate", "message": "dueDate is required"},
	}, body["errors"])
}

func TestError_InternalIsLoggedAndHidden(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	rr, body := serve(t, zap.New(core), errors.New("dial tcp 10.0.0.5:27017: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]any{"error": "internal server error"}, body)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/x", logs.All()[0].ContextMap()["route"])

	rr, _ = serve(t, zap.New(core), apperr.Internal("list projects", errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 2, logs.Len())
}

func TestInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type body struct {
		Name  *string `json:"name"`
		Count int     `json:"count"`
	}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var in body
		if err := c.ShouldBindJSON(&in); err != nil {
			InvalidBody(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"malformed", `{"name":`, `{"error":"invalid request body"}`},
		{"string field given a number", `{"name":123}`,
			`{"error":"validation failed","errors":[{"field":"name","message":"name must be a string"}]}`},
		{"number field given a string", `{"count":"many"}`,
			`{"error":"validation failed","errors":[{"field":"count","message":"count must be a number"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.in))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}
}

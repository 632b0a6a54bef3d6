package utils

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

	"invoicehub-backend/config"
)

func TestGetPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=-1", 1, 10},
		{"page=abc&limit=500", 1, maxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			p := GetPagination(c)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, (tt.page-1)*tt.limit, p.Offset())
		})
	}
}

func TestSearchPattern(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?search=+INV-00+", nil)
	pattern, ok := SearchPattern(c)
	assert.True(t, ok)
	assert.Equal(t, "%inv-00%", pattern)

	empty, _ := gin.CreateTestContext(httptest.NewRecorder())
	empty.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok = SearchPattern(empty)
	assert.False(t, ok)
}

func TestBindingErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type input struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"omitempty,email"`
		Kind  string `json:"kind" binding:"omitempty,oneof=product service"`
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","kind":"box"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var in input
	appErr := BindingErrors(c.ShouldBindJSON(&in))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "is required", appErr.Fields["name"])
	assert.Equal(t, "must be a valid email address", appErr.Fields["email"])
	assert.Equal(t, "must be one of: product service", appErr.Fields["kind"])

	malformed := BindingErrors(errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, malformed.Status)
}

func TestRespondWithAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.App = config.Defaults()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NotFound("Invoice not found"), http.StatusNotFound, "NotFound"},
		{"stock", InsufficientStock("Widget"), http.StatusConflict, "InsufficientStock"},
		{"transition", InvalidTransition("PAID", "DRAFT"), http.StatusConflict, "InvalidTransition"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "InternalError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondWithAppError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", body["error"])
				assert.Contains(t, body["detail"], "connection reset")
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	err := Internal(NotFound("Customer not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, AsAppError(err).Status)
	assert.True(t, errors.Is(InvalidTransition("a", "b"), ErrInvalidTransition))
}

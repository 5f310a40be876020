package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

func TestError_MapsDomainErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		taskID string
	}{
		{"validation", domain.NewFieldValidationError(map[string]string{"phone": "must be 10 digits"}), http.StatusBadRequest, "validation_error", ""},
		{"unauthorized", domain.NewUnauthorizedError("invalid credentials"), http.StatusUnauthorized, "unauthorized", ""},
		{"forbidden", domain.NewForbiddenError("only the assigned guide may decide"), http.StatusForbidden, "forbidden", ""},
		{"not found", domain.NewNotFoundError("Booking", "42"), http.StatusNotFound, "not_found", ""},
		{"conflict", domain.NewConflictError("booking was modified by another request"), http.StatusConflict, "conflict", ""},
		{"invalid state", domain.NewInvalidStateError("confirmed", "rejected"), http.StatusConflict, "invalid_state", ""},
		{"wrapped conflict", fmt.Errorf("failed to save: %w", domain.NewConflictError("email taken")), http.StatusConflict, "conflict", ""},
		{"partial failure", domain.NewPartialFailureError("account delete failed", "task-1", errors.New("db down")), http.StatusInternalServerError, "partial_failure", "task-1"},
		{"partial failure over typed cause", domain.NewPartialFailureError("account delete failed", "task-2", domain.NewConflictError("locked")), http.StatusInternalServerError, "partial_failure", "task-2"},
		{"partial failure over not found", domain.NewPartialFailureError("account delete failed", "task-3", domain.NewNotFoundError("User", "7")), http.StatusInternalServerError, "partial_failure", "task-3"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			var env Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.taskID, env.Error.TaskID)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
	require.Len(t, c.Errors, 1)
}

func TestError_ValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, domain.NewFieldValidationError(map[string]string{"date": "must be YYYY-MM-DD", "guests": "must be between 1 and 50"}))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "must be YYYY-MM-DD", env.Error.Fields["date"])
	assert.Contains(t, env.Error.Fields, "guests")
}

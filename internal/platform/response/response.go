// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	TaskID  string            `json:"task_id,omitempty"`
}

// Meta carries paging information.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 with a page of items and its metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with a plain message.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "bad_request", message)
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "unauthorized", message)
}

// Forbidden writes a 403.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, "forbidden", message)
}

// Fail aborts the request with the given status and error body.
func Fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// Error maps a domain error to its HTTP status. Unknown errors become a
// generic 500; the cause is attached to the gin context for the request
// logger and never written to the client.
func Error(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		unauthErr     *domain.UnauthorizedError
		forbiddenErr  *domain.ForbiddenError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		stateErr      *domain.InvalidStateError
		partialErr    *domain.PartialFailureError
	)

	// A partial failure wraps the step's cause; report the mixed state, not the cause.
	switch {
	case errors.As(err, &partialErr):
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
			Error: &ErrorBody{Code: "partial_failure", Message: partialErr.Message, TaskID: partialErr.TaskID},
		})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
			Error: &ErrorBody{Code: "validation_error", Message: validationErr.Message, Fields: validationErr.Fields},
		})
	case errors.As(err, &unauthErr):
		Fail(c, http.StatusUnauthorized, "unauthorized", unauthErr.Message)
	case errors.As(err, &forbiddenErr):
		Fail(c, http.StatusForbidden, "forbidden", forbiddenErr.Message)
	case errors.As(err, &notFoundErr):
		Fail(c, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		Fail(c, http.StatusConflict, "conflict", conflictErr.Message)
	case errors.As(err, &stateErr):
		Fail(c, http.StatusConflict, "invalid_state", stateErr.Error())
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("clinic", nil), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("nope", nil), http.StatusForbidden},
		{Conflict("slot taken", nil), http.StatusConflict},
		{Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "clinic not found", NotFound("clinic", nil).Error())

	cause := stderrors.New("sql: no rows in result set")
	assert.Equal(t, "pet not found: sql: no rows in result set", NotFound("pet", cause).Error())
}

func TestUnwrapThroughWrapping(t *testing.T) {
	cause := stderrors.New("duplicate key")
	err := fmt.Errorf("creating appointment: %w", Conflict("time slot is already booked", cause))

	assert.True(t, IsConflict(err))
	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())
}

func TestCodeChecks(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x", nil)))
	assert.False(t, IsNotFound(Forbidden("x", nil)))
	assert.False(t, IsValidation(stderrors.New("plain")))
	assert.False(t, IsForbidden(nil))
}

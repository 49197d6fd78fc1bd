package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"conflict", Conflict("Resource is being edited by alice"), CodeConflict, http.StatusConflict},
		{"not found", NotFound("Session"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad payload", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("resource was not provided"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("login required"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("administrator role required"), CodeForbidden, http.StatusForbidden},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("mongo: connection refused")
	err := Internal("Failed to list sessions", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Conflict("held"), CodeConflict))
	assert.False(t, IsCode(Conflict("held"), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	err := AsAppError(errors.New("plain"))
	assert.Equal(t, CodeInternal, err.Code)

	conflict := Conflict("held")
	assert.Same(t, conflict, AsAppError(conflict))
}

package errors

import (
	"errors"
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
		{NotFound("patient", nil), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusUnprocessableEntity},
		{DuplicateKey("taken", nil), http.StatusConflict},
		{Conflict("slot booked", nil), http.StatusConflict},
		{InvalidTransition("cannot cancel"), http.StatusConflict},
		{AccessDenied("no"), http.StatusForbidden},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestCodeUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("slot booked", nil))
	assert.Equal(t, ErrConflict, Code(err))
	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))
}

func TestCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, ErrInternal, Code(errors.New("plain")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("pq: duplicate key")
	err := DuplicateKey("national id taken", cause)
	assert.Contains(t, err.Error(), "national id taken")
	assert.Contains(t, err.Error(), "pq: duplicate key")
	assert.ErrorIs(t, err, cause)
}

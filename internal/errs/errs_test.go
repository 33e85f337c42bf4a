package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("Title must be between 5 and 200 characters"), http.StatusBadRequest},
		{"conflict is a bad request", Conflict("Blog with this title already exists"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("Unauthorized"), http.StatusUnauthorized},
		{"forbidden", Forbidden("You can only edit your own blogs"), http.StatusForbidden},
		{"not found", NotFound("Blog not found"), http.StatusNotFound},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("get blog: %w", NotFound("Blog not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
}

func TestPublicHidesInternalCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))

	assert.Equal(t, InternalMessage, err.Public())
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorContains(t, errors.Unwrap(err), "connection refused")
}

func TestFrom(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("classified error passes through wrapping", func(t *testing.T) {
		orig := Forbidden("nope")
		got := From(fmt.Errorf("update: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := From(errors.New("disk full"))
		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, http.StatusInternalServerError, got.StatusCode())
	})
}

package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodePropagation(t *testing.T) {
	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeConflict, "opinion already issued"))
		assert.True(t, HasCode(err, CodeConflict))
		assert.Equal(t, CodeConflict, CodeOf(err))
		assert.Equal(t, "opinion already issued", MessageOf(err))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeNotFound))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("wrap keeps the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load application")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load application: connection reset", err.Error())
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeForbidden:    http.StatusForbidden,
		CodeConflict:     http.StatusConflict,
		CodeValidation:   http.StatusUnprocessableEntity,
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
}

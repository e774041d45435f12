package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusIsTotal(t *testing.T) {
	seen := map[int]Kind{}
	for _, k := range Kinds() {
		code := HTTPStatus(k)
		assert.NotEqual(t, http.StatusInternalServerError, code, "kind %s has no status", k)
		if prev, ok := seen[code]; ok {
			t.Errorf("kinds %s and %s share status %d", prev, k, code)
		}
		seen[code] = k
	}
	assert.Len(t, kindStatus, len(Kinds()))
}

func TestHTTPStatusUnknownKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Kind(99)))
}

func TestWithMessageKeepsSentinel(t *testing.T) {
	sentinel := Validation("unknown state")
	err := fmt.Errorf("list: %w", sentinel.WithMessage("Unknown state: SOON"))

	assert.True(t, errors.Is(err, sentinel))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Unknown state: SOON", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.Status())
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, KindConflict, "conflict")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "conflict", err.Error())
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	locked := Clone(ErrLocked, "course-1 is being edited")
	wrapped := fmt.Errorf("open date: %w", locked)

	got := FromError(wrapped)
	assert.Equal(t, "LOCKED", got.Code)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "course-1 is being edited", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(errors.New("dial tcp"), ErrUpstream.Code, ErrUpstream.Status, "fetch availability")
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(Clone(ErrCacheMiss, ""), ErrCacheMiss))
}

func TestWithDetailCopies(t *testing.T) {
	base := Clone(ErrPolicyViolation, "current week is read-only")
	withReason := base.WithDetail("reason", "CURRENT_WEEK")

	assert.Nil(t, base.Details)
	assert.Equal(t, "CURRENT_WEEK", withReason.Details["reason"])
	assert.Equal(t, base.Message, withReason.Message)
}

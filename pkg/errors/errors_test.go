package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	cloned := Clone(ErrNotFound, "timetable not found")
	wrapped := fmt.Errorf("load: %w", cloned)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, "internal server error: boom", plain.Error())

	typed := Wrap(errors.New("dial tcp"), ErrDependency.Code, http.StatusBadGateway, "AI server unreachable")
	assert.Same(t, typed, FromError(fmt.Errorf("recommend: %w", typed)))
}

func TestWithDetailCopies(t *testing.T) {
	detailed := WithDetail(ErrDependency, map[string]string{"upstream": "timeout"})
	assert.NotNil(t, detailed.Detail)
	assert.Nil(t, ErrDependency.Detail)
	assert.Nil(t, WithDetail(nil, "x"))
}

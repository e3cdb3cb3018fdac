package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("cause is reachable through the chain", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "save contact")

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "save contact: db down", err.Error())
	})
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeInvalidInput, "bad card"))

	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

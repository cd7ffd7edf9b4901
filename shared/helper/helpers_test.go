package helper_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/toolkit_go/shared/helper"
	"github.com/stretchr/testify/assert"
)

func TestGetTypedValueOf2(t *testing.T) {
	v, ok := helper.GetTypedValueOf2[string](func() (any, bool) { return "x", true })
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = helper.GetTypedValueOf2[string](func() (any, bool) { return 1, true })
	assert.False(t, ok)

	_, ok = helper.GetTypedValueOf2[string](func() (any, bool) { return nil, false })
	assert.False(t, ok)

	e, ok := helper.GetTypedValueOf2[error](func() (any, bool) { return nil, true })
	assert.True(t, ok)
	assert.Nil(t, e)
}

func TestRetry(t *testing.T) {
	calls := 0
	err := helper.Retry(3, func() error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("boom")
	err = helper.Retry(3, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, helper.ErrMaxAttempts)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

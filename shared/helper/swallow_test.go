package helper_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/on-the-ground/toolkit_go/shared/helper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestSwallowWrap_SwallowsErrors(t *testing.T) {
	logger, logs := observed()
	fn := helper.SwallowWrap(logger, strconv.Atoi, false)

	v, err := fn("12")
	assert.NoError(t, err)
	assert.Equal(t, 12, v)
	assert.Equal(t, 0, logs.Len())

	v, err = fn("twelve")
	assert.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, 1, logs.FilterMessage("failed func").Len())
}

func TestSwallowWrap_ReturnsErrors(t *testing.T) {
	logger, logs := observed()
	fn := helper.SwallowWrap(logger, func(s string) (int, error) {
		if s == "panic" {
			panic("boom")
		}
		return 0, errors.New(s)
	}, true)

	_, err := fn("bad")
	assert.EqualError(t, err, "bad")

	assert.NotPanics(t, func() {
		_, err = fn("panic")
	})
	assert.EqualError(t, err, "panic: boom")
	assert.Equal(t, 2, logs.Len())
}

func TestSwallow(t *testing.T) {
	logger, logs := observed()

	assert.True(t, helper.Swallow(logger, func() error { return nil }))
	assert.False(t, helper.Swallow(logger, func() error { return errors.New("this is a test") }))
	assert.False(t, helper.Swallow(logger, func() error { panic("this is a test") }))
	assert.False(t, helper.Swallow(nil, func() error { panic("no logger") }))

	assert.Equal(t, 1, logs.FilterMessage("swallowed error").Len())
	assert.Equal(t, 1, logs.FilterMessage("recovered panic").Len())
}

package log_test

import (
	"bytes"
	"testing"

	"github.com/on-the-ground/toolkit_go/shared/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := log.New(log.Config{Level: log.LogDebug, Encoding: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = log.New(log.Config{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := log.New(log.Config{Level: "loud"})
	assert.Error(t, err)

	_, err = log.New(log.Config{Encoding: "xml"})
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := log.NewConsole(log.LogWarn, &buf)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger.Warn("disk almost full")
	assert.Contains(t, buf.String(), "disk almost full")

	_, err = log.NewConsole("loud", &buf)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, log.OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, log.OrNop(l))
}

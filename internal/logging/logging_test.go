package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("error", true)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))

	_, err = New("loud", false)
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestSetLogger(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	Logger().Info("generated", zap.String("path", "errors.stackerr.yaml"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "errors.stackerr.yaml", logs.All()[0].ContextMap()["path"])
}

package stackzap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xgx-io/stackerr"
	"github.com/xgx-io/stackerr/stackzap"
)

type leafError struct{ loc stackerr.Location }

func (e *leafError) Error() string                    { return "leaf failed" }
func (e *leafError) StackLocation() stackerr.Location { return e.loc }
func (e *leafError) TypeName() string                 { return "Leaf" }
func (e *leafError) Unwrap() error                    { return errors.New("disk full") }

type topError struct {
	loc    stackerr.Location
	source *leafError
}

func (e *topError) Error() string                    { return "top failed" }
func (e *topError) StackLocation() stackerr.Location { return e.loc }
func (e *topError) TypeName() string                 { return "Top" }
func (e *topError) Unwrap() error                    { return e.source }
func (e *topError) StackSource() stackerr.StackError { return e.source }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestChain_EncodesFrames(t *testing.T) {
	logger, logs := observed()
	leaf := &leafError{loc: stackerr.Location{File: "leaf.go", Line: 3}}
	top := &topError{loc: stackerr.Location{File: "top.go", Line: 9}, source: leaf}

	logger.Error("request failed", stackzap.Chain("err", top))

	require.Equal(t, 1, logs.Len())
	field, ok := logs.All()[0].ContextMap()["err"].(map[string]interface{})
	require.True(t, ok, "chain should encode as an object")

	assert.Equal(t, "Top", field["type"])
	assert.Equal(t, "top failed", field["message"])
	assert.Equal(t, "top.go:9:0", field["location"])

	causes, ok := field["causes"].([]interface{})
	require.True(t, ok)
	require.Len(t, causes, 2)

	first := causes[0].(map[string]interface{})
	assert.Equal(t, 1, first["index"])
	assert.Equal(t, "Leaf", first["type"])
	assert.Equal(t, "leaf.go:3:0", first["location"])

	second := causes[1].(map[string]interface{})
	assert.Equal(t, 2, second["index"])
	assert.Equal(t, "disk full", second["message"])
	assert.NotContains(t, second, "location")
}

func TestChain_NoCausesOmitsArray(t *testing.T) {
	logger, logs := observed()
	logger.Info("x", stackzap.Chain("err", &leafErrorNoCause{}))

	field := logs.All()[0].ContextMap()["err"].(map[string]interface{})
	assert.NotContains(t, field, "causes")
}

type leafErrorNoCause struct{}

func (e *leafErrorNoCause) Error() string                    { return "alone" }
func (e *leafErrorNoCause) StackLocation() stackerr.Location { return stackerr.Location{} }
func (e *leafErrorNoCause) TypeName() string                 { return "Alone" }

func TestChain_NilIsSkipped(t *testing.T) {
	logger, logs := observed()
	var typed *topError
	logger.Info("x", stackzap.Chain("err", nil), stackzap.Chain("typed", typed))

	assert.Empty(t, logs.All()[0].ContextMap())
}

func TestError_FallsBackToPlain(t *testing.T) {
	logger, logs := observed()
	logger.Warn("plain", stackzap.Error(errors.New("boom")))
	logger.Warn("stack", stackzap.Error(&leafErrorNoCause{}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	_, isObject := entries[1].ContextMap()["error"].(map[string]interface{})
	assert.True(t, isObject)
}

func TestError_KeepsWrapperMessage(t *testing.T) {
	logger, logs := observed()
	leaf := &leafError{loc: stackerr.Location{File: "leaf.go", Line: 3}}
	top := &topError{loc: stackerr.Location{File: "top.go", Line: 9}, source: leaf}

	logger.Error("request failed", stackzap.Error(fmt.Errorf("handle /users: %w", top)))

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "handle /users: top failed", fields["error"])
	chain, ok := fields["errorChain"].(map[string]interface{})
	require.True(t, ok, "chain should encode as an object")
	assert.Equal(t, "Top", chain["type"])
	assert.Equal(t, "top.go:9:0", chain["location"])
}

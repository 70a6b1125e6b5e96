package logger

import (
	"context"
	"cryptofunds/internal/reqctx"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestWithCtx_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	defer func() { Log = prev }()

	ctx := reqctx.WithRequestID(context.Background(), "rid-42")
	ctx = reqctx.WithAdmin(ctx, "editor")
	WithCtx(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-42", fields["request_id"])
		assert.Equal(t, "editor", fields["admin"])
	}
}

func TestWithCtx_NoopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		WithCtx(context.Background()).Info("no-op")
	})
}

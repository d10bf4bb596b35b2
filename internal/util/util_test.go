package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(func() { logger = nil })

	err := InitLogger("production", zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))
	require.NoError(t, err)

	GetLogger().Info("Order placed")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, serviceName, fields["service"])
	assert.Equal(t, Version, fields["version"])
	assert.Equal(t, "production", fields["env"])
}

func TestNewResourceAttributes(t *testing.T) {
	res, err := newResource("staging")
	require.NoError(t, err)

	attrs := res.Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, serviceName, name.AsString())

	version, ok := attrs.Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, Version, version.AsString())

	env, ok := attrs.Value(semconv.DeploymentEnvironmentKey)
	require.True(t, ok)
	assert.Equal(t, "staging", env.AsString())
}

func TestInitTracer(t *testing.T) {
	t.Cleanup(func() { tracer = nil })

	tp, err := InitTracer("http://127.0.0.1:14268/api/traces", "test")
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "OrderService.PlaceOrder")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// nothing listens on the collector port; only the provider teardown matters
	_ = tp.Shutdown(context.Background())
}

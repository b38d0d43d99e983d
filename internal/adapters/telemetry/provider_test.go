package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/resolvd/internal/adapters/telemetry"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
)

func setupMonitor(t *testing.T) (*tracetest.SpanRecorder, *trace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attrs(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_Start_WithAttributes(t *testing.T) {
	sr, tp := setupMonitor(t)

	tracer := telemetry.NewOTelTracer("test-tracer")
	_, span := tracer.Start(t.Context(), "task.InvalidateFailedLookups",
		ports.WithAttribute("project", "/p/tsconfig.json"),
		ports.WithAttribute("kind", domain.TaskInvalidateFailedLookups),
	)
	span.SetAttribute("invalidated", 2)
	span.End()

	require.NoError(t, tp.ForceFlush(t.Context()))
	spans := sr.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, "task.InvalidateFailedLookups", spans[0].Name())
	got := attrs(spans[0].Attributes())
	assert.Equal(t, "/p/tsconfig.json", got["project"].AsString())
	assert.Equal(t, "InvalidateFailedLookups", got["kind"].AsString())
	assert.Equal(t, int64(2), got["invalidated"].AsInt64())
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr, tp := setupMonitor(t)

	_, span := telemetry.NewOTelTracer("test-tracer").Start(t.Context(), "failing")
	span.RecordError(errors.New("boom"))
	span.End()

	require.NoError(t, tp.ForceFlush(t.Context()))
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestOTelSpan_SetAttribute_Types(t *testing.T) {
	sr, tp := setupMonitor(t)

	_, span := telemetry.NewOTelTracer("test-tracer").Start(t.Context(), "types")
	span.SetAttribute("s", "v")
	span.SetAttribute("i64", int64(7))
	span.SetAttribute("b", true)
	span.SetAttribute("list", []string{"a", "b"})
	span.SetAttribute("sig", uint64(255))
	span.SetAttribute("other", 1.5)
	span.End()

	require.NoError(t, tp.ForceFlush(t.Context()))
	got := attrs(sr.Ended()[0].Attributes())

	assert.Equal(t, "v", got["s"].AsString())
	assert.Equal(t, int64(7), got["i64"].AsInt64())
	assert.True(t, got["b"].AsBool())
	assert.Equal(t, []string{"a", "b"}, got["list"].AsStringSlice())
	assert.Equal(t, "00000000000000ff", got["sig"].AsString())
	assert.Equal(t, "1.5", got["other"].AsString())
}

func TestNoOpTracer(t *testing.T) {
	ctx := t.Context()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "anything", ports.WithAttribute("k", "v"))

	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() {
		span.SetAttribute("k", "v")
		span.RecordError(errors.New("ignored"))
		span.End()
	})
}

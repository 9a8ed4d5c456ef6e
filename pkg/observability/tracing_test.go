package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:    "soa-test",
		ServiceVersion: "test",
		SampleRate:     1,
		Writer:         &buf,
	})
	require.NoError(t, err)

	var inner trace.SpanContext
	err = Trace(context.Background(), "load", func(ctx context.Context) error {
		inner = trace.SpanContextFromContext(ctx)
		return nil
	}, attribute.Int("rows", 3))
	require.NoError(t, err)
	assert.True(t, inner.IsValid())

	boom := errors.New("boom")
	err = Trace(context.Background(), "sort", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"load"`)
	assert.Contains(t, out, `"Name":"sort"`)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "soa-test")
}

func TestNeverSample(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{ServiceName: "soa-test", Writer: &buf})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "dropped")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.NotContains(t, buf.String(), "dropped")
}

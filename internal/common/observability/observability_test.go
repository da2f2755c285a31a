package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_Recorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	obs := NewWithTracer(tp)

	ctx, span := obs.StartSpan(context.Background(), "registration.lookup", attribute.String("path", "card"))
	assert.True(t, span.SpanContext().IsValid())
	obs.RecordStage(ctx, "lookup", "success", 5*time.Millisecond)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "registration.lookup", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("path", "card"))
}

func TestNoop(t *testing.T) {
	obs := NewNoop()
	assert.NotPanics(t, func() {
		ctx, span := obs.StartSpan(context.Background(), "x")
		obs.RecordStage(ctx, "x", "failure", time.Second)
		span.End()
		obs.Shutdown(context.Background())
	})
}

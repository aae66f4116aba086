package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithResource(ResourceTask, "86abc").
		WithOperation(OperationCreate).
		WithResolution(3, 2).
		WithReadOnly(false).
		Build()

	require.Len(t, attrs, 6)

	attrMap := make(map[string]interface{})
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, ResourceTask, attrMap[SpanAttrResource])
	assert.Equal(t, "86abc", attrMap[SpanAttrResourceID])
	assert.Equal(t, OperationCreate, attrMap[SpanAttrOperation])
	assert.Equal(t, int64(3), attrMap[SpanAttrIdentifiers])
	assert.Equal(t, int64(2), attrMap[SpanAttrResolved])
	assert.Equal(t, false, attrMap[SpanAttrReadOnly])
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithResource("", "").
		Build()

	assert.Empty(t, attrs)
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartClickUpSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartClickUpSpan(context.Background(), ResourceMember, OperationResolve)
	assert.True(t, span.SpanContext().IsValid())
	SetSpanError(span, errors.New("roster unavailable"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "clickup.member.resolve", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "roster unavailable", ended[0].Status().Description)
	assert.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
}

func TestStartToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartToolSpan(context.Background(), "clickup_list_teams", attribute.Bool(SpanAttrReadOnly, true))
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.clickup_list_teams", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(SpanAttrTool, "clickup_list_teams"))
	assert.Contains(t, ended[0].Attributes(), attribute.Bool(SpanAttrReadOnly, true))
}

func TestStartToolSpan_WithProvider(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	_, span := StartToolSpan(ctx, "echo")
	assert.NotNil(t, span)
	span.End()
}

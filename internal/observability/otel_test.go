package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInit_WithoutExporter(t *testing.T) {
	ctx := context.Background()
	inst, shutdown, err := Init(ctx, Options{ServiceName: "crowdfund-test"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, shutdown(ctx)) }()

	_, span := inst.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	counter, err := inst.Meter("test").Int64Counter("things")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, inst.Reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "things", rm.ScopeMetrics[0].Metrics[0].Name)
}

func TestInstruments_NilFallsBack(t *testing.T) {
	var inst *Instruments
	assert.NotNil(t, inst.Tracer("x"))
	assert.NotNil(t, inst.Meter("x"))
}

package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/pkg/logger"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordUpstreamCall("/revisions", "POST", 201, 20*time.Millisecond)
	m.RecordUpstreamCall("/revisions", "POST", 0, time.Millisecond)
	m.RecordPremiseSave(false, true)
	m.RecordRevisionBuild(false, "statement_value_missing", time.Millisecond)
	m.RecordBestEffortFailure("premise_cleanup")
	m.ObserveRequest("/api/v1/keys", "GET", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("/revisions", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("/revisions", "POST", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PremiseSaves.WithLabelValues("false", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RevisionBuilds.WithLabelValues("failure", "statement_value_missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("premise_cleanup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/keys", "GET", "200")))

	m.ActiveRequestsInc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPInFlight))
	m.ActiveRequestsDec()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPInFlight))
}

func TestZapLogger_SetLevel(t *testing.T) {
	l, err := NewZapLogger(&config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "warn", l.Level())

	child := l.WithComponent("keyapi").(*ZapLogger)
	l.SetLevel("debug")
	assert.Equal(t, "debug", child.Level())

	l.SetLevel("nonsense")
	assert.Equal(t, "info", l.Level())

	// must not panic with error-valued fields
	l.Info(context.Background(), "hello", logger.Err(errors.New("boom")), logger.String("k", "v"))
}

func TestTracingManager_Disabled(t *testing.T) {
	tm, err := NewTracingManager(&config.TracingConfig{}, logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.Tracer().Start(context.Background(), "op")
	defer span.End()
	// the global provider is a noop until tracing is enabled
	assert.Empty(t, TraceID(ctx))
	assert.NoError(t, tm.Shutdown(ctx))
}

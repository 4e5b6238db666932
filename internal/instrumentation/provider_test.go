package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics(), "metrics must be usable even when disabled")
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderPrometheus(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	assert.True(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())

	// Recording through a live provider must not panic.
	provider.Metrics().RecordAPIOperation(ctx, "openapi", "createTask", StatusSuccess, 120*time.Millisecond)
	provider.Metrics().RecordToolInvocation(ctx, "ticktick_create_task", StatusError, 50*time.Millisecond)
	provider.Metrics().IncrementActiveSessions(ctx)
	provider.Metrics().DecrementActiveSessions(ctx)
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: "statsd",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid metrics exporter")
}

func TestNoopMetricsAreSafe(t *testing.T) {
	var m Metrics
	ctx := context.Background()

	// Every recorder on the zero value must be a no-op, not a panic.
	m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	m.RecordAPIOperation(ctx, "session", "mergeTags", StatusSuccess, time.Millisecond)
	m.RecordToolInvocation(ctx, "ticktick_list_tags", StatusSuccess, time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ticktick-mcp", cfg.ServiceName)
	assert.Equal(t, ExporterPrometheus, cfg.MetricsExporter)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "/metrics", cfg.PrometheusEndpoint)
	assert.NoError(t, cfg.Validate())
}

package server

import (
	"context"
	"sync"

	"github.com/avandorp/ticktick-mcp/internal/instrumentation"
	"github.com/avandorp/ticktick-mcp/internal/ticktick"
)

// ServerContext holds the shared state of the MCP server: the unified
// TickTick client, the metrics recorder and the shutdown signal.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	client  *ticktick.Client
	metrics *instrumentation.Metrics

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context around an opened TickTick
// client. The client must already be authenticated; Shutdown closes it.
func NewServerContext(ctx context.Context, client *ticktick.Client, metrics *instrumentation.Metrics) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		client:  client,
		metrics: metrics,
	}
}

// Context returns the server's lifetime context. It is cancelled on
// Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the unified TickTick client.
func (sc *ServerContext) Client() *ticktick.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// Metrics returns the metrics recorder. Never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and closes the TickTick client,
// releasing its backend sessions. Safe to call multiple times.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()

	if sc.client != nil {
		return sc.client.Close()
	}
	return nil
}

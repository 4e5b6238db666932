// Package server holds the MCP server's shared runtime state: the server
// context wrapping the unified TickTick client, health probe handlers for
// the HTTP transport, and the dedicated Prometheus metrics server.
package server

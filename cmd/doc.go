// Package cmd implements the command-line interface for ticktick-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide TickTick tools for AI assistants
//   - auth: Run the one-time OAuth2 authorization flow for the Open API
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd

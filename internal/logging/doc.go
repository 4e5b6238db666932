// Package logging provides structured logging utilities for ticktick-mcp.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "createTask")
//	logger.Info("task created", logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("session opened", logging.UserHash(username))
//
// # Security Considerations
//
//   - Usernames are hashed to prevent PII leakage while allowing correlation
//   - Tokens are never logged directly; use SanitizeToken
package logging

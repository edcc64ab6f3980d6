// Package logger provides structured logging functionality for the
// application: slog setup from configuration and helpers for carrying
// a request-scoped logger through a context.
package logger

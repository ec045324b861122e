// Package logging provides a minimal logging interface and adapters for agentfan.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the runner and backends use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - StructuredLogger with component context and batch / backend call helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	r := runner.New(backend, func(o *runner.Options) { o.Logger = logger })
//
// Arguments after the message are slog style key/value pairs.
package logging

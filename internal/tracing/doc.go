// Package tracing installs the process-wide OpenTelemetry tracer provider and
// W3C trace-context propagator. Spans are exported as JSON lines to a file or
// a standard stream. When tracing is disabled the global no-op provider stays
// in place and instrumented code pays nothing.
package tracing

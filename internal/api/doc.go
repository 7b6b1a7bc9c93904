// Package api exposes identification and enrichment over HTTP.
//
// Handlers are mounted on a chi router. Every request carries a correlation id
// (the caller's X-Request-ID or a fresh UUID) that is echoed in the response
// and stamped on log records. Response bodies are transport DTOs with
// camelCase JSON tags so browser clients can render them without knowing the
// internal types.
//
// Error mapping: validation problems are 422, configuration problems 500, and
// an identification Failure is 502 with the upstream status and body in the
// envelope.
package api

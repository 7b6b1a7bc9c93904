// Package services defines shared utilities consumed by the orchestrators and
// the external service adapters underneath it.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers, operation names, and
//     the species under lookup for logging and tracing.
//   - Structured error markers plus the Wrap helper so validation and
//     configuration failures are distinguishable from upstream trouble.
//   - The Outcome type (ok, empty, error) every adapter returns, and Call, the
//     single-attempt HTTP helper that turns transport failures, timeouts, and
//     non-2xx responses into *UpstreamError values.
//
// Adapters for individual services live in subpackages (plantnet, iucn, gbif,
// trefle). New integrations should go through Call so timeouts, metrics, and
// spans stay uniform.
package services

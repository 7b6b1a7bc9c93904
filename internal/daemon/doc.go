// Package daemon runs the florafinder HTTP server.
//
// A Daemon holds an exclusive file lock for its lifetime so only one server
// instance runs per state directory. It serves the API router and, when
// enabled, Prometheus metrics on the same listener, and shuts down gracefully
// when its context is cancelled or Stop is called.
package daemon

// Package identification turns a photograph and an organ hint into ranked
// species candidates.
//
// The Identifier validates the request before any network traffic, stages
// remote images in a transient file that is always removed before Identify
// returns, and delegates exactly once to the identification service. Upstream
// trouble is reported as a Failure on the Result; only caller mistakes come
// back as errors.
package identification

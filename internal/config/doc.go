// Package config loads, normalizes, and validates florafinder configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PLANTNET_API_KEY, IUCN_API_KEY,
// and TREFLE_API_KEY environment fallbacks. Validation rejects missing
// credentials before any network call is attempted.
package config

// Package enrichment attaches conservation and habitat information to an
// identified species.
//
// Both lookups are total: upstream errors and empty answers are logged and
// absorbed, and the caller always receives a fully populated value. Habitat
// data comes from an ordered chain of producers; see GetHabitatInfo for the
// precedence rules.
package enrichment

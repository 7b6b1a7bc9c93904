// Package classification holds the fixed lookup tables used to turn registry
// codes, taxonomic families, and free-text distribution regions into the
// conservation and habitat descriptors shown to users.
//
// Every function is total: unknown input falls through to a documented default
// rather than an error. Region matching is substring based so that upstream
// strings such as "Northern North America" resolve to their canonical region.
package classification

// Package gbif reads species records from the Global Biodiversity Information
// Facility. Records can be fetched directly by usage key or by resolving a
// scientific name through the match endpoint first.
package gbif

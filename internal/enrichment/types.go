package enrichment

import "florafinder/internal/classification"

const (
	// UnknownStatus is the status reported when no assessment is available.
	UnknownStatus = "Unknown"
	// NoHabitatDescription is the description used when no producer contributed.
	NoHabitatDescription = "Information not available for this species"
)

// ConservationInfo is the rendered conservation status of a species.
type ConservationInfo struct {
	Status      string `json:"status"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Guide       string `json:"guide"`
}

// HabitatInfo is the rendered habitat and climate of a species.
type HabitatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Climate     string `json:"climate"`
}

// IDs carries optional registry identifiers for a species.
type IDs struct {
	IUCNID string `json:"iucn_id,omitempty"`
	GBIFID string `json:"gbif_id,omitempty"`
}

// Result is the merged output of Enrich.
type Result struct {
	ScientificName string           `json:"scientific_name"`
	Conservation   ConservationInfo `json:"conservation"`
	Habitat        HabitatInfo      `json:"habitat"`
}

// DefaultConservationInfo returns the value used when no assessment is available.
func DefaultConservationInfo() ConservationInfo {
	return ConservationInfo{
		Status:      UnknownStatus,
		Color:       classification.DefaultStatusColor,
		Description: classification.DefaultStatusDescription,
		Guide:       classification.GenericGuide,
	}
}

// DefaultHabitatInfo returns the value used when no habitat producer contributed.
func DefaultHabitatInfo() HabitatInfo {
	return HabitatInfo{
		Name:        classification.DefaultDescriptor,
		Description: NoHabitatDescription,
		Climate:     classification.DefaultDescriptor,
	}
}

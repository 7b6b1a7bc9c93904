package enrichment

import (
	"context"
	"strings"

	"florafinder/internal/classification"
	"florafinder/internal/logging"
	"florafinder/internal/services"
)

const sourceIUCN = "iucn"

// GetConservationInfo looks up the species by iucnID when given, otherwise by
// scientific name. Only the first assessment is used. It never fails: with no
// key, no registry, or no usable answer it returns DefaultConservationInfo.
func (e *Enricher) GetConservationInfo(ctx context.Context, scientificName, iucnID string) ConservationInfo {
	key := strings.TrimSpace(iucnID)
	if key == "" {
		key = strings.TrimSpace(scientificName)
	}
	if key == "" || e.conservation == nil {
		return DefaultConservationInfo()
	}

	ctx = services.WithOperation(services.WithSpecies(ctx, strings.TrimSpace(scientificName)), "conservation")
	logger := logging.WithContext(ctx, e.logger)

	outcome := e.conservation.Lookup(ctx, key)
	if !outcome.IsOK() || len(outcome.Value) == 0 {
		e.absorb(logger, "conservation", sourceIUCN, outcome.Kind, outcome.Reason())
		return DefaultConservationInfo()
	}
	record := outcome.Value[0]
	category := strings.TrimSpace(record.Category)
	if category == "" {
		e.absorb(logger, "conservation", sourceIUCN, services.OutcomeEmpty, "assessment has no category")
		return DefaultConservationInfo()
	}
	e.absorb(logger, "conservation", sourceIUCN, services.OutcomeOK, "")

	info := ConservationInfo{
		Status:      category,
		Color:       classification.StatusColor(category),
		Description: classification.StatusDescription(category),
		Guide:       classification.StatusGuide(category),
	}
	if len(record.ConservationMeasures) > 0 {
		info.Guide = strings.Join(record.ConservationMeasures, " ")
	}
	return info
}

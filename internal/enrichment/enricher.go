package enrichment

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"florafinder/internal/logging"
	"florafinder/internal/services"
	"florafinder/internal/services/gbif"
	"florafinder/internal/services/iucn"
)

// ConservationRegistry looks up Red List assessments. *iucn.Client satisfies it.
type ConservationRegistry interface {
	Lookup(ctx context.Context, nameOrID string) services.Outcome[[]iucn.Assessment]
}

// OccurrenceRegistry fetches species records by key or by name. *gbif.Client satisfies it.
type OccurrenceRegistry interface {
	Species(ctx context.Context, key int64) services.Outcome[*gbif.Species]
	SpeciesByName(ctx context.Context, name string) services.Outcome[*gbif.Species]
}

// TraitRegistry reports native distribution regions. *trefle.Client satisfies it.
type TraitRegistry interface {
	NativeRegions(ctx context.Context, scientificName string) services.Outcome[[]string]
}

// Recorder receives one observation per registry step.
type Recorder interface {
	ObserveEnrichmentStep(lookup, source string, kind services.OutcomeKind)
}

// Enricher runs conservation and habitat lookups. Any registry may be nil, in
// which case the steps that need it are skipped.
type Enricher struct {
	conservation ConservationRegistry
	occurrences  OccurrenceRegistry
	traits       TraitRegistry
	logger       *slog.Logger
	recorder     Recorder
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder reports each registry step.
func WithRecorder(recorder Recorder) Option {
	return func(e *Enricher) {
		e.recorder = recorder
	}
}

// New builds an Enricher.
func New(conservation ConservationRegistry, occurrences OccurrenceRegistry, traits TraitRegistry, opts ...Option) *Enricher {
	e := &Enricher{
		conservation: conservation,
		occurrences:  occurrences,
		traits:       traits,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "enrichment")
	return e
}

// Enrich runs both lookups concurrently and waits for both.
func (e *Enricher) Enrich(ctx context.Context, scientificName string, ids IDs) Result {
	result := Result{ScientificName: strings.TrimSpace(scientificName)}
	var group errgroup.Group
	group.Go(func() error {
		result.Conservation = e.GetConservationInfo(ctx, scientificName, ids.IUCNID)
		return nil
	})
	group.Go(func() error {
		result.Habitat = e.GetHabitatInfo(ctx, scientificName, ids.GBIFID)
		return nil
	})
	// Both lookups are total and absorb upstream failures, so Wait only joins.
	group.Wait()
	return result
}

// absorb logs a non-OK outcome and reports it to the recorder. Empty answers
// and unavailable services are kept apart in the log.
func (e *Enricher) absorb(logger *slog.Logger, lookup, source string, kind services.OutcomeKind, reason string) {
	if e.recorder != nil {
		e.recorder.ObserveEnrichmentStep(lookup, source, kind)
	}
	switch kind {
	case services.OutcomeEmpty:
		logger.Info("registry had no data",
			logging.String(logging.FieldSource, source),
			logging.String(logging.FieldOutcome, kind.String()),
		)
	case services.OutcomeError:
		logging.WarnWithContext(logger, "registry unavailable", lookup+"_source_failed",
			logging.String(logging.FieldSource, source),
			logging.String(logging.FieldOutcome, kind.String()),
			logging.String("reason", reason),
			logging.String(logging.FieldErrorHint, "check the registry API key and network reachability"),
			logging.String(logging.FieldImpact, "falling back to the next source or defaults"),
		)
	default:
		logger.Debug("registry contributed",
			logging.String(logging.FieldSource, source),
			logging.String(logging.FieldOutcome, kind.String()),
		)
	}
}

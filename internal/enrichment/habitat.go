package enrichment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"florafinder/internal/classification"
	"florafinder/internal/logging"
	"florafinder/internal/services"
)

const (
	sourceGBIFByKey     = "gbif-by-key"
	sourceTrefleRegions = "trefle-native-regions"
	sourceGBIFByName    = "gbif-by-name"
)

// habitatPatch is what one producer contributes. Empty fields leave the
// accumulated value untouched.
type habitatPatch struct {
	Name        string
	Description string
	Climate     string
}

func (p habitatPatch) apply(info *HabitatInfo) {
	if p.Name != "" {
		info.Name = p.Name
	}
	if p.Description != "" {
		info.Description = p.Description
	}
	if p.Climate != "" {
		info.Climate = p.Climate
	}
}

type habitatQuery struct {
	name string
	key  int64
}

// habitatProducer is one step of the habitat chain. A step with final set
// ends the chain when it contributes.
type habitatProducer struct {
	source string
	final  bool
	run    func(context.Context, habitatQuery) (habitatPatch, services.OutcomeKind, string)
}

// producers lists the chain in evaluation order:
//
//  1. gbif-by-key, when the id is a positive integer. Contributing ends the chain.
//  2. trefle-native-regions, by name. Sets name, description, and climate.
//  3. gbif-by-name. Overwrites name and description; climate is left alone.
//
// Steps 2 and 3 both run, so step 3 wins for name and description whenever
// both contribute.
func (e *Enricher) producers(q habitatQuery) []habitatProducer {
	var steps []habitatProducer
	if q.key > 0 && e.occurrences != nil {
		steps = append(steps, habitatProducer{source: sourceGBIFByKey, final: true, run: e.habitatByKey})
	}
	if q.name != "" && e.traits != nil {
		steps = append(steps, habitatProducer{source: sourceTrefleRegions, run: e.habitatFromRegions})
	}
	if q.name != "" && e.occurrences != nil {
		steps = append(steps, habitatProducer{source: sourceGBIFByName, run: e.habitatByName})
	}
	return steps
}

// GetHabitatInfo runs the habitat producers in order and merges their
// contributions. It never fails: when nothing contributes it returns
// DefaultHabitatInfo.
func (e *Enricher) GetHabitatInfo(ctx context.Context, scientificName, gbifID string) HabitatInfo {
	name := strings.TrimSpace(scientificName)
	ctx = services.WithOperation(services.WithSpecies(ctx, name), "habitat")
	logger := logging.WithContext(ctx, e.logger)

	q := habitatQuery{name: name}
	if raw := strings.TrimSpace(gbifID); raw != "" {
		key, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || key <= 0 {
			logger.Info("ignoring non-numeric occurrence id", logging.String("gbif_id", raw))
		} else {
			q.key = key
		}
	}

	info := DefaultHabitatInfo()
	var contributors []string
	for _, step := range e.producers(q) {
		patch, kind, reason := step.run(ctx, q)
		e.absorb(logger, "habitat", step.source, kind, reason)
		if kind != services.OutcomeOK {
			continue
		}
		patch.apply(&info)
		contributors = append(contributors, step.source)
		if step.final {
			break
		}
	}
	if len(contributors) > 0 {
		logger.Debug("habitat resolved",
			logging.String("sources", strings.Join(contributors, ",")),
			logging.String("habitat", info.Name),
			logging.String("climate", info.Climate),
		)
	}
	return info
}

func (e *Enricher) habitatByKey(ctx context.Context, q habitatQuery) (habitatPatch, services.OutcomeKind, string) {
	outcome := e.occurrences.Species(ctx, q.key)
	if !outcome.IsOK() || !outcome.Value.HasHabitats() {
		return habitatPatch{}, emptyUnlessError(outcome.Kind), outcome.Reason()
	}
	patch := habitatsPatch(outcome.Value.Habitats)
	if climate, ok := classification.ClimateForFamily(outcome.Value.Family); ok {
		patch.Climate = climate
	}
	return patch, services.OutcomeOK, ""
}

func (e *Enricher) habitatFromRegions(ctx context.Context, q habitatQuery) (habitatPatch, services.OutcomeKind, string) {
	outcome := e.traits.NativeRegions(ctx, q.name)
	regions := nonBlank(outcome.Value)
	if !outcome.IsOK() || len(regions) == 0 {
		return habitatPatch{}, emptyUnlessError(outcome.Kind), outcome.Reason()
	}
	return habitatPatch{
		Name:        classification.DeriveHabitatFromRegions(regions),
		Description: "Native to " + strings.Join(regions, ", "),
		Climate:     classification.DeriveClimateFromRegions(regions),
	}, services.OutcomeOK, ""
}

func (e *Enricher) habitatByName(ctx context.Context, q habitatQuery) (habitatPatch, services.OutcomeKind, string) {
	outcome := e.occurrences.SpeciesByName(ctx, q.name)
	if !outcome.IsOK() || !outcome.Value.HasHabitats() {
		return habitatPatch{}, emptyUnlessError(outcome.Kind), outcome.Reason()
	}
	return habitatsPatch(outcome.Value.Habitats), services.OutcomeOK, ""
}

func habitatsPatch(habitats []string) habitatPatch {
	list := strings.Join(nonBlank(habitats), ", ")
	return habitatPatch{
		Name:        list,
		Description: fmt.Sprintf("This species is found in %s habitats.", list),
	}
}

// emptyUnlessError maps an OK outcome without usable data to Empty.
func emptyUnlessError(kind services.OutcomeKind) services.OutcomeKind {
	if kind == services.OutcomeError {
		return kind
	}
	return services.OutcomeEmpty
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package enrichment_test

import (
	"context"
	"sync"

	"florafinder/internal/services"
	"florafinder/internal/services/gbif"
	"florafinder/internal/services/iucn"
)

type fakeConservation struct {
	mu      sync.Mutex
	keys    []string
	outcome services.Outcome[[]iucn.Assessment]
}

func (f *fakeConservation) Lookup(_ context.Context, nameOrID string) services.Outcome[[]iucn.Assessment] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, nameOrID)
	return f.outcome
}

func (f *fakeConservation) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

type fakeOccurrences struct {
	mu          sync.Mutex
	byKey       services.Outcome[*gbif.Species]
	byName      services.Outcome[*gbif.Species]
	keyCalls    []int64
	nameCalls   []string
	callHistory []string
}

func (f *fakeOccurrences) Species(_ context.Context, key int64) services.Outcome[*gbif.Species] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyCalls = append(f.keyCalls, key)
	f.callHistory = append(f.callHistory, "gbif-by-key")
	return f.byKey
}

func (f *fakeOccurrences) SpeciesByName(_ context.Context, name string) services.Outcome[*gbif.Species] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nameCalls = append(f.nameCalls, name)
	f.callHistory = append(f.callHistory, "gbif-by-name")
	return f.byName
}

type fakeTraits struct {
	mu      sync.Mutex
	names   []string
	outcome services.Outcome[[]string]
}

func (f *fakeTraits) NativeRegions(_ context.Context, name string) services.Outcome[[]string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return f.outcome
}

func unavailable[T any](service string) services.Outcome[T] {
	return services.Failed[T](&services.UpstreamError{Service: service, Operation: "lookup", StatusCode: 503})
}

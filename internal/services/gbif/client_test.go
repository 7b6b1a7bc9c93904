package gbif_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"florafinder/internal/services"
	"florafinder/internal/services/gbif"
)

func TestSpeciesByKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/species/2878688" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"key":2878688,"family":"Fagaceae","habitats":["Forest","Woodland"]}`)
	}))
	t.Cleanup(server.Close)

	client := gbif.New(gbif.Config{BaseURL: server.URL})
	outcome := client.Species(context.Background(), 2878688)
	if !outcome.IsOK() {
		t.Fatalf("expected ok outcome, got %v (%v)", outcome.Kind, outcome.Err)
	}
	if outcome.Value.Family != "Fagaceae" || len(outcome.Value.Habitats) != 2 {
		t.Fatalf("unexpected record %+v", outcome.Value)
	}
}

func TestSpeciesWithoutHabitatsIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"key":1,"family":"Rosaceae"}`)
	}))
	t.Cleanup(server.Close)

	client := gbif.New(gbif.Config{BaseURL: server.URL})
	if outcome := client.Species(context.Background(), 1); !outcome.IsEmpty() {
		t.Fatalf("expected empty outcome, got %v", outcome.Kind)
	}
}

func TestSpeciesByNameResolvesKeyFirst(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/species/match":
			if r.URL.Query().Get("name") != "Opuntia ficus-indica" {
				t.Errorf("unexpected name %q", r.URL.Query().Get("name"))
			}
			_, _ = io.WriteString(w, `{"usageKey":5384006,"matchType":"EXACT","confidence":99}`)
		case "/species/5384006":
			_, _ = io.WriteString(w, `{"key":5384006,"family":"Cactaceae","habitats":["Desert"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client := gbif.New(gbif.Config{BaseURL: server.URL})
	outcome := client.SpeciesByName(context.Background(), "Opuntia ficus-indica")
	if !outcome.IsOK() || outcome.Value.Habitats[0] != "Desert" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two calls, got %d", calls.Load())
	}
}

func TestMatchNoneIsEmpty(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"matchType":"NONE","confidence":100}`)
	}))
	t.Cleanup(server.Close)

	client := gbif.New(gbif.Config{BaseURL: server.URL})
	if outcome := client.SpeciesByName(context.Background(), "Nonexistent plant"); !outcome.IsEmpty() {
		t.Fatalf("expected empty outcome, got %v", outcome.Kind)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected only the match call, got %d", calls.Load())
	}
}

func TestSpeciesByNameMatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := gbif.New(gbif.Config{BaseURL: server.URL})
	outcome := client.SpeciesByName(context.Background(), "Quercus robur")
	upstream, ok := services.AsUpstream(outcome.Err)
	if !outcome.IsError() || !ok || upstream.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected outcome %v (%v)", outcome.Kind, outcome.Err)
	}
}

func TestSpeciesRejectsInvalidKey(t *testing.T) {
	client := gbif.New(gbif.Config{BaseURL: "http://127.0.0.1:1"})
	if outcome := client.Species(context.Background(), 0); !errors.Is(outcome.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", outcome.Err)
	}
}

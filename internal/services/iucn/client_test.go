package iucn_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"florafinder/internal/services"
	"florafinder/internal/services/iucn"
)

func newClient(t *testing.T, handler http.HandlerFunc) *iucn.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := iucn.New(iucn.Config{APIKey: "token", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := iucn.New(iucn.Config{APIKey: "  "}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLookupParsesAssessments(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/species/Quercus robur" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "token" {
			t.Errorf("missing token in %q", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"name":"Quercus robur","result":[
			{"taxonid":63532,"scientific_name":"Quercus robur","category":"LC","conservation_measures":["Protect woodland.","Monitor regeneration."]},
			{"taxonid":1,"category":"EN","conservation_measures":"Ignored"}
		]}`)
	})

	outcome := client.Lookup(context.Background(), "Quercus robur")
	if !outcome.IsOK() {
		t.Fatalf("expected ok outcome, got %v (%v)", outcome.Kind, outcome.Err)
	}
	if diff := cmp.Diff(iucn.Measures{"Protect woodland.", "Monitor regeneration."}, outcome.Value[0].ConservationMeasures); diff != "" {
		t.Fatalf("measures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(iucn.Measures{"Ignored"}, outcome.Value[1].ConservationMeasures); diff != "" {
		t.Fatalf("string measures mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupEmptyResult(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"Nothing","result":[]}`)
	})
	if outcome := client.Lookup(context.Background(), "Nothing"); !outcome.IsEmpty() {
		t.Fatalf("expected empty outcome, got %v", outcome.Kind)
	}
}

func TestLookupErrorField(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"Token not valid!"}`)
	})
	outcome := client.Lookup(context.Background(), "Quercus robur")
	if !outcome.IsError() {
		t.Fatalf("expected error outcome, got %v", outcome.Kind)
	}
	upstream, ok := services.AsUpstream(outcome.Err)
	if !ok || upstream.Message != "Token not valid!" {
		t.Fatalf("unexpected error %v", outcome.Err)
	}
}

func TestLookupNon2xx(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	outcome := client.Lookup(context.Background(), "Quercus robur")
	if !outcome.IsError() || !errors.Is(outcome.Err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected unavailable error, got %v (%v)", outcome.Kind, outcome.Err)
	}
}

func TestLookupRequiresKey(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if outcome := client.Lookup(context.Background(), " "); !errors.Is(outcome.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", outcome.Err)
	}
}

package services_test

import (
	"errors"
	"strings"
	"testing"

	"florafinder/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "identification", "prepare", "organ not supported", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"identification", "prepare", "organ not supported"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestUpstreamErrorMatchesMarkers(t *testing.T) {
	timeout := &services.UpstreamError{Service: "iucn", Operation: "lookup", Timeout: true}
	if !errors.Is(timeout, services.ErrUpstreamUnavailable) {
		t.Fatal("expected timeout to count as unavailable")
	}
	if !errors.Is(timeout, services.ErrTimeout) {
		t.Fatal("expected timeout marker")
	}
	if !timeout.TransportFailure() {
		t.Fatal("expected zero status to be a transport failure")
	}

	status := &services.UpstreamError{Service: "gbif", Operation: "species", StatusCode: 503}
	if errors.Is(status, services.ErrTimeout) {
		t.Fatal("non-timeout error must not match ErrTimeout")
	}
	if !strings.Contains(status.Error(), "returned 503") {
		t.Fatalf("expected status in message, got %q", status.Error())
	}

	wrapped := services.Wrap(services.ErrUpstreamUnavailable, "enrichment", "habitat", "", status)
	got, ok := services.AsUpstream(wrapped)
	if !ok || got.StatusCode != 503 {
		t.Fatalf("expected to recover upstream error, got %#v", got)
	}
}

func TestOutcomeKinds(t *testing.T) {
	ok := services.OK([]string{"Forest"})
	if !ok.IsOK() || ok.Reason() != "" {
		t.Fatalf("unexpected ok outcome: %+v", ok)
	}
	empty := services.Empty[[]string]()
	if !empty.IsEmpty() || empty.Reason() != services.ErrUpstreamEmpty.Error() {
		t.Fatalf("unexpected empty outcome: %+v", empty)
	}
	failed := services.Failed[[]string](nil)
	if !failed.IsError() || !errors.Is(failed.Err, services.ErrUpstreamUnavailable) {
		t.Fatalf("unexpected failed outcome: %+v", failed)
	}
	if services.OutcomeEmpty.String() != "empty" {
		t.Fatalf("unexpected kind label %q", services.OutcomeEmpty.String())
	}
}

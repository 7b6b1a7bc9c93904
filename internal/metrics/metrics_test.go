package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"florafinder/internal/metrics"
	"florafinder/internal/services"
)

func TestObserveUpstreamCountsByOutcome(t *testing.T) {
	m := metrics.New()
	m.ObserveUpstream("gbif", "species", services.OutcomeOK, 20*time.Millisecond)
	m.ObserveUpstream("gbif", "species", services.OutcomeOK, 30*time.Millisecond)
	m.ObserveUpstream("gbif", "species", services.OutcomeError, time.Second)

	if got := testutil.ToFloat64(m.UpstreamOutcomes.WithLabelValues("gbif", "species", "ok")); got != 2 {
		t.Fatalf("expected 2 ok calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.UpstreamOutcomes.WithLabelValues("gbif", "species", "error")); got != 1 {
		t.Fatalf("expected 1 error call, got %v", got)
	}
	if got := testutil.CollectAndCount(m.UpstreamLatency); got != 2 {
		t.Fatalf("expected 2 latency series, got %d", got)
	}
}

func TestOrchestratorRecorders(t *testing.T) {
	m := metrics.New()
	m.ObserveIdentification("ok", time.Second)
	m.ObserveIdentification("invalid", time.Millisecond)
	m.ObserveEnrichmentStep("habitat", "gbif-by-name", services.OutcomeEmpty)

	if got := testutil.ToFloat64(m.Identifications.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("expected 1 invalid identification, got %v", got)
	}
	if got := testutil.ToFloat64(m.EnrichmentSteps.WithLabelValues("habitat", "gbif-by-name", "empty")); got != 1 {
		t.Fatalf("expected 1 empty habitat step, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveUpstream("iucn", "lookup", services.OutcomeOK, time.Millisecond)
	m.ObserveIdentification("ok", time.Millisecond)
	m.ObserveEnrichmentStep("conservation", "iucn", services.OutcomeOK)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.New()
	m.ObserveIdentification("ok", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `florafinder_identifications_total{outcome="ok"} 1`) {
		t.Fatalf("exposition missing counter:\n%s", rec.Body.String())
	}
}

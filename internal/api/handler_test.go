package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"florafinder/internal/api"
	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/logging"
	"florafinder/internal/services"
)

type fakeIdentifier struct {
	requests []identification.Request
	result   identification.Result
	err      error
}

func (f *fakeIdentifier) Identify(_ context.Context, req identification.Request) (identification.Result, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func (f *fakeIdentifier) ServiceStatus(context.Context) identification.ServiceStatus {
	return identification.ServiceStatus{Reachable: true, Status: "ok", Languages: []string{"en"}}
}

type enrichCall struct {
	name string
	ids  enrichment.IDs
}

type fakeEnricher struct {
	calls []enrichCall
}

func (f *fakeEnricher) Enrich(_ context.Context, name string, ids enrichment.IDs) enrichment.Result {
	f.calls = append(f.calls, enrichCall{name: name, ids: ids})
	return enrichment.Result{
		ScientificName: name,
		Conservation:   enrichment.DefaultConservationInfo(),
		Habitat:        enrichment.DefaultHabitatInfo(),
	}
}

func (f *fakeEnricher) GetConservationInfo(_ context.Context, name, iucnID string) enrichment.ConservationInfo {
	f.calls = append(f.calls, enrichCall{name: name, ids: enrichment.IDs{IUCNID: iucnID}})
	return enrichment.ConservationInfo{Status: "LC", Color: "green-600", Description: "Widespread and abundant", Guide: "g"}
}

func (f *fakeEnricher) GetHabitatInfo(_ context.Context, name, gbifID string) enrichment.HabitatInfo {
	f.calls = append(f.calls, enrichCall{name: name, ids: enrichment.IDs{GBIFID: gbifID}})
	return enrichment.DefaultHabitatInfo()
}

func newServer(t *testing.T, identifier *fakeIdentifier, enricher *fakeEnricher, opts ...api.Option) *httptest.Server {
	t.Helper()
	h := api.New(identifier, enricher, logging.NewNop(), opts...)
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)
	return server
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "leaf.jpg")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(image)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func postIdentify(t *testing.T, server *httptest.Server, fields map[string]string, image []byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, fields, image)
	resp, err := http.Post(server.URL+"/api/identify", contentType, body)
	if err != nil {
		t.Fatalf("post identify: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestIdentifyReturnsCandidatesAndEnrichesBest(t *testing.T) {
	identifier := &fakeIdentifier{result: identification.Result{Candidates: []identification.Candidate{{
		ScientificName:              "Quercus robur L.",
		ScientificNameWithoutAuthor: "Quercus robur",
		Score:                       0.91,
		GBIFID:                      "2878688",
		IUCNID:                      "63532",
	}}}}
	enricher := &fakeEnricher{}
	server := newServer(t, identifier, enricher)

	resp := postIdentify(t, server, map[string]string{"organ": "leaf", "enrich": "true"}, []byte("jpeg"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode[api.IdentifyResponse](t, resp)
	if len(got.Candidates) != 1 || got.Candidates[0].BareName != "Quercus robur" {
		t.Fatalf("unexpected candidates %#v", got.Candidates)
	}
	if got.Enrichment == nil || got.Enrichment.Habitat.Name != "Various" {
		t.Fatalf("expected enrichment, got %#v", got.Enrichment)
	}
	want := []enrichCall{{name: "Quercus robur", ids: enrichment.IDs{IUCNID: "63532", GBIFID: "2878688"}}}
	if diff := cmp.Diff(want, enricher.calls, cmp.AllowUnexported(enrichCall{})); diff != "" {
		t.Fatalf("enrich calls mismatch (-want +got):\n%s", diff)
	}
	if string(identifier.requests[0].Image.Bytes) != "jpeg" || identifier.requests[0].Organ != "leaf" {
		t.Fatalf("unexpected request %#v", identifier.requests[0])
	}
	if resp.Header.Get(api.RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestIdentifyForwardsImageURL(t *testing.T) {
	identifier := &fakeIdentifier{result: identification.Result{Candidates: []identification.Candidate{{ScientificName: "x"}}}}
	server := newServer(t, identifier, &fakeEnricher{})

	resp := postIdentify(t, server, map[string]string{"organ": "flower", "image_url": "https://example.com/a.jpg"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if identifier.requests[0].Image.URL != "https://example.com/a.jpg" {
		t.Fatalf("expected url source, got %#v", identifier.requests[0].Image)
	}
}

func TestIdentifyValidationIs422(t *testing.T) {
	identifier := &fakeIdentifier{err: services.Wrap(services.ErrValidation, "identification", "parse organ", "bad organ", nil)}
	server := newServer(t, identifier, &fakeEnricher{})

	resp := postIdentify(t, server, map[string]string{"organ": "gills"}, []byte("jpeg"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	missing := postIdentify(t, server, map[string]string{"organ": "leaf"}, nil)
	if missing.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without image, got %d", missing.StatusCode)
	}
}

func TestIdentifyConfigurationErrorIs500(t *testing.T) {
	identifier := &fakeIdentifier{err: services.Wrap(services.ErrConfiguration, "plantnet", "new", "api key required", nil)}
	server := newServer(t, identifier, &fakeEnricher{})

	resp := postIdentify(t, server, map[string]string{"organ": "leaf"}, []byte("jpeg"))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestIdentifyFailureIs502WithEnvelope(t *testing.T) {
	identifier := &fakeIdentifier{result: identification.Result{Failure: &identification.Failure{
		HTTPStatus: http.StatusNotFound,
		Message:    "Species not found",
		RawBody:    []byte(`{"message":"Species not found"}`),
	}}}
	server := newServer(t, identifier, &fakeEnricher{})

	body, contentType := multipartBody(t, map[string]string{"organ": "leaf"}, []byte("jpeg"))
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/identify", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(api.RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	got := decode[api.ErrorResponse](t, resp)
	status := http.StatusNotFound
	want := api.ErrorResponse{
		Error:          "Species not found",
		RequestID:      "req-42",
		UpstreamStatus: &status,
		UpstreamBody:   `{"message":"Species not found"}`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichEndpoints(t *testing.T) {
	enricher := &fakeEnricher{}
	server := newServer(t, &fakeIdentifier{}, enricher)

	get := func(path string, params url.Values) *http.Response {
		resp, err := http.Get(server.URL + path + "?" + params.Encode())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := get("/api/enrich", url.Values{"name": {"Rosa canina"}, "gbif_id": {"8395064"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	enriched := decode[api.EnrichmentResponse](t, resp)
	if enriched.ScientificName != "Rosa canina" || enriched.Conservation.Status != enrichment.UnknownStatus {
		t.Fatalf("unexpected enrichment %#v", enriched)
	}

	conservation := decode[api.Conservation](t, get("/api/conservation", url.Values{"iucn_id": {"1"}}))
	if conservation.Color != "green-600" {
		t.Fatalf("unexpected conservation %#v", conservation)
	}

	habitat := decode[api.Habitat](t, get("/api/habitat", url.Values{"name": {"Rosa canina"}}))
	if habitat.Climate != "Various" {
		t.Fatalf("unexpected habitat %#v", habitat)
	}

	for _, path := range []string{"/api/enrich", "/api/conservation", "/api/habitat"} {
		if resp := get(path, url.Values{}); resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s without identifiers: expected 422, got %d", path, resp.StatusCode)
		}
	}
	if len(enricher.calls) != 3 {
		t.Fatalf("expected 3 enricher calls, got %d", len(enricher.calls))
	}
}

func TestStatusEndpoint(t *testing.T) {
	server := newServer(t, &fakeIdentifier{}, &fakeEnricher{})
	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	got := decode[api.StatusResponse](t, resp)
	want := api.StatusResponse{Reachable: true, Status: "ok", Languages: []string{"en"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestBearerTokenRequired(t *testing.T) {
	server := newServer(t, &fakeIdentifier{}, &fakeEnricher{}, api.WithToken("s3cret"))

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

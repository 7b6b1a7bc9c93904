package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace/noop"

	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/services"
)

func TestIdentifyCommandWithEnrichment(t *testing.T) {
	env := setupCLITestEnv(t)
	image := env.writeImage(t)

	out, _, err := runCLI(t, []string{"identify", image, "--organ", "leaf", "--enrich"}, env.configPath)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	var got identifyOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	best, ok := got.Result.Best()
	if !ok || best.ScientificNameWithoutAuthor != "Quercus robur" || best.GBIFID != "2878688" {
		t.Fatalf("unexpected best candidate %#v", best)
	}
	want := &enrichment.Result{
		ScientificName: "Quercus robur",
		Conservation: enrichment.ConservationInfo{
			Status:      "LC",
			Color:       "green-600",
			Description: "Widespread and abundant",
			Guide:       "Continue sustainable practices and monitor for changes in population.",
		},
		Habitat: enrichment.HabitatInfo{
			Name:        "woodland, parkland",
			Description: "This species is found in woodland, parkland habitats.",
			Climate:     "Temperate",
		},
	}
	if diff := cmp.Diff(want, got.Enrichment); diff != "" {
		t.Fatalf("enrichment mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(image); err != nil {
		t.Fatalf("local image must be left in place: %v", err)
	}
}

func TestIdentifyCommandRejectsUnknownOrgan(t *testing.T) {
	env := setupCLITestEnv(t)
	image := env.writeImage(t)

	_, _, err := runCLI(t, []string{"identify", image, "--organ", "gills"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls := env.upstreams.identifyCalls.Load(); calls != 0 {
		t.Fatalf("expected no identification calls, got %d", calls)
	}
}

func TestIdentifyCommandReportsUpstreamFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.upstreams.identifyCode = 404
	image := env.writeImage(t)

	out, _, err := runCLI(t, []string{"identify", image, "--organ", "flower"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 failure error, got %v", err)
	}
	var got identifyOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Result.Failure == nil || got.Result.Failure.Message != "Species not found" {
		t.Fatalf("unexpected failure %#v", got.Result.Failure)
	}
}

func TestEnrichCommandUsesTraitAndOccurrenceRegistries(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"enrich", "Quercus", "robur"}, env.configPath)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	var got enrichment.Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	// Name match overrides the trait registry's habitat, while the
	// region-derived climate stays.
	want := enrichment.HabitatInfo{
		Name:        "woodland, parkland",
		Description: "This species is found in woodland, parkland habitats.",
		Climate:     "Temperate, Mediterranean, Tropical, Continental",
	}
	if diff := cmp.Diff(want, got.Habitat); diff != "" {
		t.Fatalf("habitat mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichCommandRequiresIdentifier(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"enrich"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var got identification.ServiceStatus
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := identification.ServiceStatus{Reachable: true, Status: "ok", Version: "2024-02-08", Languages: []string{"en", "fr"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingKeyIsConfigurationError(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("PLANTNET_API_KEY", "")
	t.Setenv("IUCN_API_KEY", "")
	t.Setenv("TREFLE_API_KEY", "")
	configPath := filepath.Join(base, "empty.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"status"}, configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "********-key")
	if strings.Contains(out, "plantnet-key") {
		t.Fatalf("validate output must mask API keys: %s", out)
	}

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestRenderCandidatesTable(t *testing.T) {
	rendered := renderCandidates(identification.Result{Candidates: []identification.Candidate{{
		ScientificName: "Quercus robur L.",
		Family:         "Fagaceae",
		CommonNames:    []string{"English oak", "pedunculate oak"},
		Score:          0.934,
	}}})
	for _, want := range []string{"Quercus robur L.", "Fagaceae", "English oak, pedunculate oak", "93.4%"} {
		requireContains(t, rendered, want)
	}
}

func TestStatusCommandExportsUpstreamSpans(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})
	traces := filepath.Join(env.baseDir, "traces.jsonl")
	file, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fmt.Fprintf(file, "\n[tracing]\nenabled = true\noutput = %q\n", traces); err != nil {
		t.Fatal(err)
	}
	file.Close()

	if _, _, err := runCLI(t, []string{"status"}, env.configPath); err != nil {
		t.Fatalf("status: %v", err)
	}
	content, err := os.ReadFile(traces)
	if err != nil {
		t.Fatalf("read traces: %v", err)
	}
	for _, span := range []string{"plantnet.status", "plantnet.languages"} {
		requireContains(t, string(content), span)
	}
}

func TestCredentialChecklistReportsExportedKeys(t *testing.T) {
	env := map[string]string{"PLANTNET_API_KEY": "pn", "IUCN_API_KEY": " "}
	rendered := renderCredentialChecklist(func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})
	for _, want := range []string{"PLANTNET_API_KEY", "exported", "edit iucn.api_key", "edit trefle.api_key"} {
		requireContains(t, rendered, want)
	}
}

func TestMaskSecret(t *testing.T) {
	for in, want := range map[string]string{"": "", "abc": "***", "plantnet-key": "********-key"} {
		if got := maskSecret(in); got != want {
			t.Fatalf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

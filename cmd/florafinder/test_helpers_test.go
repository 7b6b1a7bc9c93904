package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// upstreams fakes all four external services behind one server.
type upstreams struct {
	server        *httptest.Server
	identifyCalls atomic.Int32
	identifyCode  int
}

func newUpstreams(t *testing.T) *upstreams {
	t.Helper()
	u := &upstreams{identifyCode: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/plantnet/identify/", func(w http.ResponseWriter, r *http.Request) {
		u.identifyCalls.Add(1)
		if u.identifyCode != http.StatusOK {
			w.WriteHeader(u.identifyCode)
			_, _ = w.Write([]byte(`{"statusCode":404,"error":"Not Found","message":"Species not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"results": [{
				"score": 0.93,
				"species": {
					"scientificNameWithoutAuthor": "Quercus robur",
					"scientificName": "Quercus robur L.",
					"family": {"scientificNameWithoutAuthor": "Fagaceae"},
					"genus": {"scientificNameWithoutAuthor": "Quercus"},
					"commonNames": ["English oak"]
				},
				"gbif": {"id": "2878688"},
				"iucn": {"id": "63532", "category": "LC"}
			}],
			"remainingIdentificationRequests": 450
		}`))
	})
	mux.HandleFunc("/plantnet/_status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","version":"2024-02-08"}`))
	})
	mux.HandleFunc("/plantnet/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["en","fr"]`))
	})
	mux.HandleFunc("/iucn/species/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"category":"LC"}]}`))
	})
	mux.HandleFunc("/gbif/species/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/gbif/species/") {
		case "match":
			_, _ = w.Write([]byte(`{"usageKey":2878688,"matchType":"EXACT"}`))
		case "2878688":
			_, _ = w.Write([]byte(`{"key":2878688,"family":"Fagaceae","habitats":["woodland","parkland"]}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/trefle/species/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"scientific_name":"Quercus robur","distributions":{"native":["Europe","Western Asia"]}}]}`))
	})
	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

type cliTestEnv struct {
	configPath string
	baseDir    string
	upstreams  *upstreams
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))

	u := newUpstreams(t)
	configPath := filepath.Join(base, "florafinder.toml")
	content := fmt.Sprintf(`[paths]
log_dir = %q
temp_dir = %q
state_dir = %q

[plantnet]
api_key = "plantnet-key"
base_url = %q

[iucn]
api_key = "iucn-key"
base_url = %q

[gbif]
base_url = %q

[trefle]
api_key = "trefle-key"
base_url = %q

[logging]
level = "error"
`,
		filepath.Join(base, "logs"),
		filepath.Join(base, "images"),
		filepath.Join(base, "state"),
		u.server.URL+"/plantnet",
		u.server.URL+"/iucn",
		u.server.URL+"/gbif",
		u.server.URL+"/trefle",
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, baseDir: base, upstreams: u}
}

func (e *cliTestEnv) writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "oak-leaf.jpg")
	if err := os.WriteFile(path, []byte("\xff\xd8\xff jpeg"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

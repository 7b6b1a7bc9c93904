package daemon

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"florafinder/internal/api"
	"florafinder/internal/metrics"
)

// NewRouter mounts the API and, when m is non-nil, the metrics endpoint.
func NewRouter(h *api.Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

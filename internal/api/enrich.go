package api

import (
	"net/http"
	"strings"

	"florafinder/internal/enrichment"
	"florafinder/internal/services"
)

// HandleEnrich handles GET /api/enrich?name=&iucn_id=&gbif_id=.
func (h *Handler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	name, iucnID, gbifID := query(r, "name"), query(r, "iucn_id"), query(r, "gbif_id")
	if name == "" && iucnID == "" && gbifID == "" {
		h.writeError(w, r, http.StatusUnprocessableEntity, "name, iucn_id, or gbif_id required")
		return
	}
	ctx := services.WithSpecies(r.Context(), name)
	result := h.enricher.Enrich(ctx, name, enrichment.IDs{IUCNID: iucnID, GBIFID: gbifID})
	writeJSON(w, h.logger, http.StatusOK, FromEnrichment(result))
}

// HandleConservation handles GET /api/conservation?name=&iucn_id=.
func (h *Handler) HandleConservation(w http.ResponseWriter, r *http.Request) {
	name, iucnID := query(r, "name"), query(r, "iucn_id")
	if name == "" && iucnID == "" {
		h.writeError(w, r, http.StatusUnprocessableEntity, "name or iucn_id required")
		return
	}
	info := h.enricher.GetConservationInfo(r.Context(), name, iucnID)
	writeJSON(w, h.logger, http.StatusOK, FromConservation(info))
}

// HandleHabitat handles GET /api/habitat?name=&gbif_id=.
func (h *Handler) HandleHabitat(w http.ResponseWriter, r *http.Request) {
	name, gbifID := query(r, "name"), query(r, "gbif_id")
	if name == "" && gbifID == "" {
		h.writeError(w, r, http.StatusUnprocessableEntity, "name or gbif_id required")
		return
	}
	info := h.enricher.GetHabitatInfo(r.Context(), name, gbifID)
	writeJSON(w, h.logger, http.StatusOK, FromHabitat(info))
}

func query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"florafinder/internal/identification"
	"florafinder/internal/logging"
	"florafinder/internal/services"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, h.logger, status, ErrorResponse{Error: message, RequestID: requestIDOf(r)})
}

// statusForError maps orchestrator errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, failure *identification.Failure) {
	status := failure.HTTPStatus
	writeJSON(w, h.logger, http.StatusBadGateway, ErrorResponse{
		Error:          failure.Message,
		RequestID:      requestIDOf(r),
		UpstreamStatus: &status,
		UpstreamBody:   services.Snippet(failure.RawBody, 2048),
	})
}

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/logging"
	"florafinder/internal/services"
)

// multipart overhead allowed on top of the image itself
const formOverheadBytes = 1 << 20

// HandleIdentify handles POST /api/identify. The body is multipart with an
// "image" file or an "image_url" field, an "organ" field, and optional
// "project" and "enrich" fields.
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, identification.MaxImageBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(identification.MaxImageBytes + formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", identification.MaxImageBytes))
			return
		}
		h.writeError(w, r, http.StatusBadRequest, "expected multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	source, err := imageSource(r)
	if err != nil {
		h.writeError(w, r, statusForError(err), err.Error())
		return
	}
	req := identification.Request{
		Image:   source,
		Organ:   identification.Organ(r.FormValue("organ")),
		Project: strings.TrimSpace(r.FormValue("project")),
	}

	result, err := h.identifier.Identify(ctx, req)
	if err != nil {
		logging.WithContext(ctx, h.logger).Info("identify rejected", logging.Error(err))
		h.writeError(w, r, statusForError(err), err.Error())
		return
	}
	if !result.Succeeded() {
		h.writeFailure(w, r, result.Failure)
		return
	}

	resp := FromResult(result)
	if wantEnrich(r.FormValue("enrich")) && h.enricher != nil {
		if best, ok := result.Best(); ok {
			enriched := FromEnrichment(h.enricher.Enrich(services.WithSpecies(ctx, best.LookupName()), best.LookupName(), enrichment.IDs{
				IUCNID: best.IUCNID,
				GBIFID: best.GBIFID,
			}))
			resp.Enrichment = &enriched
		}
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func imageSource(r *http.Request) (identification.ImageSource, error) {
	file, _, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, identification.MaxImageBytes+1))
		if readErr != nil {
			return identification.ImageSource{}, services.Wrap(services.ErrValidation, "api", "identify", "read image", readErr)
		}
		return identification.FromBytes(data), nil
	case errors.Is(err, http.ErrMissingFile):
		if url := strings.TrimSpace(r.FormValue("image_url")); url != "" {
			return identification.FromURL(url), nil
		}
		return identification.ImageSource{}, services.Wrap(services.ErrValidation, "api", "identify", "image or image_url required", nil)
	default:
		return identification.ImageSource{}, services.Wrap(services.ErrValidation, "api", "identify", "read image", err)
	}
}

func wantEnrich(value string) bool {
	enabled, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && enabled
}

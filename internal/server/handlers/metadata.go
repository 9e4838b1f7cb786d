// internal/server/handlers/metadata.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wavesight/internal/domain/submission"
)

// MetadataHandler handles URL metadata extraction requests
type MetadataHandler struct {
	normalizer submission.Normalizer
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(normalizer submission.Normalizer) *MetadataHandler {
	return &MetadataHandler{normalizer: normalizer}
}

// Extract normalizes the posted URL. Extraction failures are not errors:
// the response always carries at least the detected platform, and the
// client falls back to manual entry for the rest.
func (h *MetadataHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		respondWithError(w, http.StatusBadRequest, "Missing url")
		return
	}

	meta, err := h.normalizer.Normalize(r.Context(), body.URL)
	if err != nil {
		if errors.Is(err, submission.ErrUnsupportedPlatform) {
			respondWithError(w, http.StatusUnprocessableEntity, "Unsupported or unrecognizable URL")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to extract metadata")
		return
	}

	respondWithJSON(w, http.StatusOK, meta)
}

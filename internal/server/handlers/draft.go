// internal/server/handlers/draft.go

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// DraftHandler handles draft persistence HTTP requests
type DraftHandler struct {
	drafts submission.DraftStore
	logger *zap.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts submission.DraftStore, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

// Load returns the spotter's stored draft, if any. Clients call this once
// when the submission form opens.
func (h *DraftHandler) Load(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)
	if sid == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing spotter ID")
		return
	}

	draft, ok, err := h.drafts.Load(r.Context(), sid)
	if err != nil {
		h.logger.Error("loading draft", zap.String("spotter_id", sid), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"draft": nil})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"draft": draft})
}

// Save schedules a debounced write of the posted draft
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)
	if sid == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing spotter ID")
		return
	}

	var draft submission.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	draft.SpotterID = sid
	draft.SetHashtags(draft.Hashtags)

	if err := h.drafts.Save(r.Context(), draft); err != nil {
		h.logger.Error("saving draft", zap.String("spotter_id", sid), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// Discard removes the spotter's draft. This is the explicit user-initiated
// path; the only other way a draft disappears is a successful submit.
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)
	if sid == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing spotter ID")
		return
	}

	if err := h.drafts.Clear(r.Context(), sid); err != nil {
		h.logger.Error("discarding draft", zap.String("spotter_id", sid), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to discard draft")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

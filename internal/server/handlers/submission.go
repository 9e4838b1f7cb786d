// internal/server/handlers/submission.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wavesight/internal/domain/spotter"
	"wavesight/internal/domain/submission"
	"wavesight/internal/service/scoring"
	"wavesight/internal/service/submit"
)

// SubmissionHandler handles trend submission HTTP requests
type SubmissionHandler struct {
	orchestrator *submit.Orchestrator
	store        submission.Store
	spotters     spotter.Store
	checker      submission.DuplicateChecker
	scorer       *scoring.Scorer
	logger       *zap.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	orchestrator *submit.Orchestrator,
	store submission.Store,
	spotters spotter.Store,
	checker submission.DuplicateChecker,
	scorer *scoring.Scorer,
	logger *zap.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		orchestrator: orchestrator,
		store:        store,
		spotters:     spotters,
		checker:      checker,
		scorer:       scorer,
		logger:       logger,
	}
}

// Submit runs the full submission pipeline for the posted draft
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
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

	trend, err := h.orchestrator.Submit(r.Context(), draft)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, trend)
}

func (h *SubmissionHandler) respondSubmitError(w http.ResponseWriter, err error) {
	var vErr *submission.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithFieldErrors(w, vErr.Fields)
	case errors.Is(err, submission.ErrSubmitInFlight):
		respondWithError(w, http.StatusConflict, "A submission is already in progress")
	case errors.Is(err, submission.ErrAlreadySubmitted):
		respondWithError(w, http.StatusConflict, "This trend has already been submitted")
	case errors.Is(err, submission.ErrTimeout):
		respondWithError(w, http.StatusGatewayTimeout, "Submission timed out. Your draft is saved, please try again")
	default:
		h.logger.Error("submission failed", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, "Submission failed. Your draft is saved, please try again")
	}
}

// CheckDuplicate performs the advisory duplicate lookup for a URL
func (h *SubmissionHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		respondWithError(w, http.StatusBadRequest, "Missing url")
		return
	}

	result := h.checker.Check(r.Context(), body.URL, spotterID(r))
	respondWithJSON(w, http.StatusOK, result)
}

// Preview computes quality metrics for a draft without submitting it
func (h *SubmissionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)

	var draft submission.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	draft.SetHashtags(draft.Hashtags)

	history := spotter.History{Tier: spotter.TierLearning}
	if sid != "" {
		if profile, err := h.spotters.Get(r.Context(), sid); err == nil {
			history = profile.History()
		}
	}

	respondWithJSON(w, http.StatusOK, h.scorer.Score(draft, history))
}

// List returns the spotter's submission history
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)
	if sid == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing spotter ID")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	filter := submission.Filter{SpotterID: sid, Limit: limit}
	if platform := r.URL.Query().Get("platform"); platform != "" {
		filter.Platform = submission.Platform(platform)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = submission.Category(category)
	}

	trends, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("listing submissions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list submissions")
		return
	}
	if trends == nil {
		trends = []submission.Trend{}
	}

	respondWithJSON(w, http.StatusOK, trends)
}

// Get returns a single submitted trend by ID
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing trend ID")
		return
	}

	trend, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, submission.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Trend not found")
		} else {
			h.logger.Error("fetching trend", zap.String("id", id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to get trend")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, trend)
}

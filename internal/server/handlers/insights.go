// internal/server/handlers/insights.go

package handlers

import (
	"net/http"

	"wavesight/internal/service/insights"
)

// InsightsHandler serves dashboard rollups
type InsightsHandler struct {
	aggregator *insights.Aggregator
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(aggregator *insights.Aggregator) *InsightsHandler {
	return &InsightsHandler{aggregator: aggregator}
}

// Latest returns the most recent aggregation snapshot
func (h *InsightsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.aggregator.Latest()
	if !ok {
		respondWithError(w, http.StatusServiceUnavailable, "Insights are not available yet")
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

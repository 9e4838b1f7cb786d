// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"
)

// spotterHeader carries the authenticated spotter's ID. Authentication
// itself happens upstream; the service trusts the header.
const spotterHeader = "X-Spotter-ID"

func spotterID(r *http.Request) string {
	return r.Header.Get(spotterHeader)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// Helper for field-level validation responses
func respondWithFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}

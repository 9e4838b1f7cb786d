// internal/server/handlers/media.go

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wavesight/internal/adapter/storage"
)

// MediaHandler handles screenshot upload and retrieval
type MediaHandler struct {
	store         *storage.MediaStore
	maxUploadSize int64
	logger        *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(store *storage.MediaStore, maxUploadSize int64, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{store: store, maxUploadSize: maxUploadSize, logger: logger}
}

// Upload stores a screenshot from a multipart form and returns its URL
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sid := spotterID(r)
	if sid == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing spotter ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing screenshot file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.store.Save(r.Context(), sid, header.Filename, contentType, data)
	if err != nil {
		h.logger.Error("storing screenshot", zap.String("spotter_id", sid), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to store screenshot")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Serve streams a stored screenshot
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing media ID")
		return
	}

	obj, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) {
			respondWithError(w, http.StatusNotFound, "Media not found")
		} else {
			h.logger.Error("fetching media", zap.String("id", id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to get media")
		}
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data)
}

// internal/server/handlers/metadata_test.go

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
	"wavesight/internal/service/metadata"
)

func newMetadataRouter() chi.Router {
	h := NewMetadataHandler(metadata.NewNormalizer(nil, zap.NewNop()))
	r := chi.NewRouter()
	r.Post("/api/v1/metadata", h.Extract)
	return r
}

func TestExtractEndpoint(t *testing.T) {
	router := newMetadataRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/metadata", "spotter-1",
		map[string]string{"url": "https://www.tiktok.com/@cat/video/1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var meta submission.Metadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, submission.PlatformTikTok, meta.Platform)
}

func TestExtractEndpointMissingURL(t *testing.T) {
	router := newMetadataRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/metadata", "spotter-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpointUnrecognizableURL(t *testing.T) {
	router := newMetadataRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/metadata", "spotter-1",
		map[string]string{"url": "definitely not a url"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

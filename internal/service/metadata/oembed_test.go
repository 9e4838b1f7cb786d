// internal/service/metadata/oembed_test.go

package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavesight/internal/domain/submission"
)

func TestOEmbedExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.tiktok.com/@cat/video/1", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "cat does taxes #cats #finance",
			"author_name": "Cat Account",
			"author_url": "https://www.tiktok.com/@cat",
			"thumbnail_url": "https://cdn.example/thumb.jpg"
		}`))
	}))
	defer srv.Close()

	e := &OEmbedExtractor{
		platform: submission.PlatformTikTok,
		endpoint: srv.URL,
		client:   &http.Client{Timeout: time.Second},
	}

	meta, err := e.Extract(context.Background(), "https://www.tiktok.com/@cat/video/1")
	require.NoError(t, err)
	assert.Equal(t, submission.PlatformTikTok, meta.Platform)
	assert.Equal(t, "cat does taxes #cats #finance", meta.Title)
	assert.Equal(t, "cat does taxes", meta.Caption)
	assert.Equal(t, []string{"#cats", "#finance"}, meta.Hashtags)
	assert.Equal(t, "Cat Account", meta.CreatorName)
	assert.Equal(t, "@cat", meta.CreatorHandle)
	assert.Equal(t, "https://cdn.example/thumb.jpg", meta.ThumbnailURL)
}

func TestOEmbedExtractNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := &OEmbedExtractor{
		platform: submission.PlatformTikTok,
		endpoint: srv.URL,
		client:   &http.Client{Timeout: time.Second},
	}

	_, err := e.Extract(context.Background(), "https://www.tiktok.com/@cat/video/404")
	assert.Error(t, err)
}

func TestNewOEmbedExtractorUnknownPlatform(t *testing.T) {
	_, err := NewOEmbedExtractor(submission.PlatformTwitter, time.Second)
	assert.Error(t, err)
}

func TestHandleFromAuthor(t *testing.T) {
	tests := []struct {
		name      string
		authorURL string
		author    string
		want      string
	}{
		{"from url", "https://www.tiktok.com/@cat", "Cat", "@cat"},
		{"from url with path", "https://www.tiktok.com/@cat/video/2", "Cat", "@cat"},
		{"fallback to name", "", "Cat Account", "@CatAccount"},
		{"name already a handle", "", "@cat", "@cat"},
		{"nothing known", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handleFromAuthor(tt.authorURL, tt.author))
		})
	}
}

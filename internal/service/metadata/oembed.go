// internal/service/metadata/oembed.go

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"regexp"
	"strings"
	"time"

	"wavesight/internal/domain/submission"
)

// oEmbed endpoints for the platforms that expose one without auth
var oembedEndpoints = map[submission.Platform]string{
	submission.PlatformTikTok:  "https://www.tiktok.com/oembed",
	submission.PlatformYouTube: "https://www.youtube.com/oembed",
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// OEmbedExtractor resolves public post metadata through a platform's
// oEmbed endpoint. Engagement counts are not part of oEmbed responses and
// stay zero; the spotter supplies them manually.
type OEmbedExtractor struct {
	platform submission.Platform
	endpoint string
	client   *http.Client
}

// NewOEmbedExtractor creates an extractor for a platform with an oEmbed
// endpoint. The timeout bounds the whole request.
func NewOEmbedExtractor(platform submission.Platform, timeout time.Duration) (*OEmbedExtractor, error) {
	endpoint, ok := oembedEndpoints[platform]
	if !ok {
		return nil, fmt.Errorf("no oEmbed endpoint for platform %q", platform)
	}
	return &OEmbedExtractor{
		platform: platform,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Extract fetches oEmbed metadata for the post URL
func (e *OEmbedExtractor) Extract(ctx context.Context, postURL string) (submission.Metadata, error) {
	reqURL := fmt.Sprintf("%s?url=%s", e.endpoint, neturl.QueryEscape(postURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return submission.Metadata{}, fmt.Errorf("building oEmbed request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return submission.Metadata{}, fmt.Errorf("fetching oEmbed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return submission.Metadata{}, fmt.Errorf("oEmbed endpoint returned %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return submission.Metadata{}, fmt.Errorf("decoding oEmbed response: %w", err)
	}

	caption, hashtags := splitCaption(body.Title)

	return submission.Metadata{
		Platform:      e.platform,
		Title:         body.Title,
		Caption:       caption,
		Hashtags:      hashtags,
		CreatorName:   body.AuthorName,
		CreatorHandle: handleFromAuthor(body.AuthorURL, body.AuthorName),
		ThumbnailURL:  body.ThumbnailURL,
	}, nil
}

// splitCaption separates the leading caption text from trailing hashtags
func splitCaption(title string) (string, []string) {
	hashtags := hashtagPattern.FindAllString(title, -1)
	caption := title
	if idx := strings.Index(title, "#"); idx > 0 {
		caption = strings.TrimSpace(title[:idx])
	}
	return caption, hashtags
}

// handleFromAuthor derives an @handle from the author URL, falling back to
// the display name
func handleFromAuthor(authorURL, authorName string) string {
	if authorURL != "" {
		if idx := strings.Index(authorURL, "@"); idx >= 0 {
			handle := authorURL[idx:]
			if end := strings.IndexAny(handle, "/?"); end > 0 {
				handle = handle[:end]
			}
			return handle
		}
	}
	if authorName == "" {
		return ""
	}
	if strings.HasPrefix(authorName, "@") {
		return authorName
	}
	return "@" + strings.ReplaceAll(authorName, " ", "")
}

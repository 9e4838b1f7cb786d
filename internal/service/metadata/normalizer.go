// internal/service/metadata/normalizer.go

package metadata

import (
	"context"
	neturl "net/url"
	"strings"

	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// Extractor derives metadata for a URL from an external source. It is best
// effort: "nothing found" is an empty Metadata with a nil error, and any
// error it does return never blocks submission.
type Extractor interface {
	Extract(ctx context.Context, url string) (submission.Metadata, error)
}

// platformMarkers is checked in order; the first match wins
var platformMarkers = []struct {
	Marker   string
	Platform submission.Platform
}{
	{"tiktok.com", submission.PlatformTikTok},
	{"instagram.com", submission.PlatformInstagram},
	{"youtube.com", submission.PlatformYouTube},
	{"youtu.be", submission.PlatformYouTube},
	{"twitter.com", submission.PlatformTwitter},
	{"x.com", submission.PlatformTwitter},
	{"reddit.com", submission.PlatformReddit},
}

// DetectPlatform identifies the platform from URL substring matching.
// URLs that match no marker report PlatformOther.
func DetectPlatform(url string) submission.Platform {
	lower := strings.ToLower(url)
	for _, m := range platformMarkers {
		if strings.Contains(lower, m.Marker) {
			return m.Platform
		}
	}
	return submission.PlatformOther
}

// Normalizer turns a raw URL into a canonical metadata record using
// per-platform extraction collaborators.
type Normalizer struct {
	extractors map[submission.Platform]Extractor
	logger     *zap.Logger
}

// NewNormalizer creates a normalizer. Platforms without an extractor
// resolve to platform-only metadata.
func NewNormalizer(extractors map[submission.Platform]Extractor, logger *zap.Logger) *Normalizer {
	if extractors == nil {
		extractors = map[submission.Platform]Extractor{}
	}
	return &Normalizer{extractors: extractors, logger: logger}
}

// Normalize detects the platform and enriches the record through the
// platform's extractor. Enrichment is best effort: on any extraction
// failure the result still carries the detected platform and the caller
// fills the rest manually. Only a URL recognizable as no platform at all
// is rejected.
func (n *Normalizer) Normalize(ctx context.Context, url string) (submission.Metadata, error) {
	url = strings.TrimSpace(url)
	if !looksLikeURL(url) {
		return submission.Metadata{}, submission.ErrUnsupportedPlatform
	}

	platform := DetectPlatform(url)
	meta := submission.Metadata{Platform: platform}

	extractor, ok := n.extractors[platform]
	if !ok {
		return meta, nil
	}

	extracted, err := extractor.Extract(ctx, url)
	if err != nil {
		n.logger.Debug("metadata extraction failed, degrading to manual entry",
			zap.String("platform", string(platform)), zap.Error(err))
		return meta, nil
	}

	extracted.Platform = platform
	extracted.Hashtags = dedupeHashtags(extracted.Hashtags)
	return extracted, nil
}

func looksLikeURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := neturl.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// dedupeHashtags removes case-insensitive duplicates preserving order
func dedupeHashtags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimPrefix(tag, "#"))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

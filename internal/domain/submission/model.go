// internal/domain/submission/model.go

package submission

import (
	"strings"
	"time"
)

// Platform identifies the social platform a trend was spotted on
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformReddit    Platform = "reddit"
	PlatformOther     Platform = "other"
)

// Category is the domain-specific tag set for submissions
type Category string

const (
	CategoryHumor         Category = "humor"
	CategoryFashion       Category = "fashion"
	CategoryFood          Category = "food"
	CategoryMusic         Category = "music"
	CategoryFinance       Category = "finance"
	CategoryCrypto        Category = "crypto"
	CategoryTechnology    Category = "technology"
	CategoryBeauty        Category = "beauty"
	CategoryFitness       Category = "fitness"
	CategoryTravel        Category = "travel"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryMemeFormat    Category = "meme_format"
	CategoryOther         Category = "other"
)

// Draft is the working record a spotter is building before submission
type Draft struct {
	SpotterID       string    `json:"spotter_id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Platform        Platform  `json:"platform,omitempty"`
	Category        Category  `json:"category,omitempty"`
	CreatorHandle   string    `json:"creator_handle,omitempty"`
	CreatorName     string    `json:"creator_name,omitempty"`
	Caption         string    `json:"caption,omitempty"`
	Likes           int64     `json:"likes_count"`
	Comments        int64     `json:"comments_count"`
	Shares          int64     `json:"shares_count"`
	Views           int64     `json:"views_count"`
	Hashtags        []string  `json:"hashtags,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	ScreenshotURL   string    `json:"screenshot_url,omitempty"`
	PostedAt        time.Time `json:"posted_at,omitempty"`
	WaveScore       int       `json:"wave_score"`
	DemographicTags []string  `json:"demographic_tags,omitempty"`
	CrossPlatforms  []string  `json:"cross_platforms,omitempty"`
	TickerSymbols   []string  `json:"ticker_symbols,omitempty"`
	// SubmissionKey is assigned on the first submit attempt and makes the
	// server-side insert idempotent across user retries.
	SubmissionKey string    `json:"submission_key,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Empty reports whether the draft carries no meaningful content
func (d Draft) Empty() bool {
	return d.URL == "" && d.Title == ""
}

// SetHashtags replaces the draft's hashtags, deduplicating them
// case-insensitively while preserving insertion order.
func (d *Draft) SetHashtags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(tag, "#"))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	d.Hashtags = out
}

// Metadata holds fields derived from a submission URL by an extraction
// collaborator. All fields are best effort and may be unset.
type Metadata struct {
	Platform      Platform  `json:"platform"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatorHandle string    `json:"creator_handle,omitempty"`
	CreatorName   string    `json:"creator_name,omitempty"`
	Caption       string    `json:"caption,omitempty"`
	Likes         int64     `json:"likes_count"`
	Comments      int64     `json:"comments_count"`
	Shares        int64     `json:"shares_count"`
	Views         int64     `json:"views_count"`
	Hashtags      []string  `json:"hashtags,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	PostedAt      time.Time `json:"posted_at,omitempty"`
}

// QualityMetrics is the derived scoring breakdown for a draft. It is
// recomputed on demand and never persisted.
type QualityMetrics struct {
	Score            int      `json:"quality_score"`
	PaymentEstimate  float64  `json:"payment_estimate"`
	BaseAmount       float64  `json:"base_amount"`
	TierMultiplier   float64  `json:"tier_multiplier"`
	StreakMultiplier float64  `json:"streak_multiplier"`
	Breakdown        []string `json:"breakdown"`
}

// DuplicateCheckResult is advisory; it never blocks submission
type DuplicateCheckResult struct {
	IsDuplicate bool   `json:"is_duplicate"`
	Message     string `json:"message,omitempty"`
}

// Trend is the persisted record created from an accepted draft
type Trend struct {
	ID            string    `json:"id"`
	SpotterID     string    `json:"spotter_id"`
	URL           string    `json:"url"`
	CanonicalURL  string    `json:"canonical_url"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Platform      Platform  `json:"platform"`
	Category      Category  `json:"category"`
	CreatorHandle string    `json:"creator_handle,omitempty"`
	CreatorName   string    `json:"creator_name,omitempty"`
	Caption       string    `json:"caption,omitempty"`
	Likes         int64     `json:"likes_count"`
	Comments      int64     `json:"comments_count"`
	Shares        int64     `json:"shares_count"`
	Views         int64     `json:"views_count"`
	Hashtags      []string  `json:"hashtags,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	ScreenshotURL string    `json:"screenshot_url,omitempty"`
	WaveScore     int       `json:"wave_score"`
	QualityScore  int       `json:"quality_score"`
	PaymentAmount float64   `json:"payment_amount"`
	Status        string    `json:"status"`
	SubmissionKey string    `json:"submission_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter defines criteria for listing submitted trends
type Filter struct {
	SpotterID string
	Platform  Platform
	Category  Category
	Since     time.Time
	Limit     int
}

// KnownPlatform reports whether p is one of the recognized platforms
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformYouTube, PlatformTwitter, PlatformReddit, PlatformOther:
		return true
	}
	return false
}

// KnownCategory reports whether c is part of the category tag set
func KnownCategory(c Category) bool {
	switch c {
	case CategoryHumor, CategoryFashion, CategoryFood, CategoryMusic,
		CategoryFinance, CategoryCrypto, CategoryTechnology, CategoryBeauty,
		CategoryFitness, CategoryTravel, CategoryEntertainment,
		CategoryEducation, CategoryMemeFormat, CategoryOther:
		return true
	}
	return false
}

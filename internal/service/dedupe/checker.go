// internal/service/dedupe/checker.go

package dedupe

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// CanonicalURL reduces a submission URL to the form used for duplicate
// comparison: query string (tracking parameters), fragment, scheme and
// trailing slashes are discarded and the rest is lowercased. Unparseable
// input degrades to a trimmed lowercase compare.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimRight(raw, "/"))
	}
	path := strings.TrimRight(u.EscapedPath(), "/")
	return strings.ToLower(u.Host + path)
}

// CheckerConfig contains configuration for the duplicate checker
type CheckerConfig struct {
	// Window is how far back submissions count as duplicates. Older
	// matches are treated as expired and do not flag.
	Window time.Duration
}

// Checker performs advisory duplicate detection against the trend store
type Checker struct {
	store  submission.Store
	config CheckerConfig
	logger *zap.Logger

	now func() time.Time
}

// NewChecker creates a duplicate checker
func NewChecker(store submission.Store, config CheckerConfig, logger *zap.Logger) *Checker {
	if config.Window <= 0 {
		config.Window = 30 * 24 * time.Hour
	}
	return &Checker{store: store, config: config, logger: logger, now: time.Now}
}

// Check reports whether the URL was submitted inside the recency window,
// scoped first to the spotter and then globally. It fails open: a store
// error produces a non-duplicate result so a transient backend fault never
// blocks a legitimate submission.
func (c *Checker) Check(ctx context.Context, rawURL, spotterID string) submission.DuplicateCheckResult {
	canonical := CanonicalURL(rawURL)
	if canonical == "" {
		return submission.DuplicateCheckResult{}
	}

	since := c.now().Add(-c.config.Window)

	if spotterID != "" {
		own, err := c.store.FindByCanonicalURL(ctx, canonical, spotterID, since)
		if err != nil {
			c.logger.Warn("duplicate check failed, allowing submission",
				zap.String("url", canonical), zap.Error(err))
			return submission.DuplicateCheckResult{}
		}
		if len(own) > 0 {
			return submission.DuplicateCheckResult{
				IsDuplicate: true,
				Message:     "You have already submitted this trend",
			}
		}
	}

	global, err := c.store.FindByCanonicalURL(ctx, canonical, "", since)
	if err != nil {
		c.logger.Warn("duplicate check failed, allowing submission",
			zap.String("url", canonical), zap.Error(err))
		return submission.DuplicateCheckResult{}
	}
	if len(global) > 0 {
		return submission.DuplicateCheckResult{
			IsDuplicate: true,
			Message:     "This trend has already been submitted by another spotter",
		}
	}

	return submission.DuplicateCheckResult{}
}

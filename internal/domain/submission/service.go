// internal/domain/submission/service.go

package submission

import (
	"context"
	"time"
)

// Normalizer produces a canonical metadata record for a submission URL
type Normalizer interface {
	// Normalize detects the platform and derives best-effort metadata for
	// the URL. Extraction failures degrade to a partial result with only
	// the platform set; only an unrecognizable URL is an error.
	Normalize(ctx context.Context, url string) (Metadata, error)
}

// DuplicateChecker reports whether a URL has already been submitted
type DuplicateChecker interface {
	// Check looks up prior submissions for the canonicalized URL, scoped
	// first to the spotter and then globally. It fails open: a storage
	// error yields a non-duplicate result, never an error.
	Check(ctx context.Context, url, spotterID string) DuplicateCheckResult
}

// DraftStore is durable single-draft persistence per spotter
type DraftStore interface {
	// Save schedules a debounced write of the draft
	Save(ctx context.Context, d Draft) error

	// Flush writes any pending draft for the spotter immediately
	Flush(ctx context.Context, spotterID string) error

	// Load returns the stored draft, or ok=false when none exists
	Load(ctx context.Context, spotterID string) (Draft, bool, error)

	// Clear removes the stored draft. Called only on explicit discard or
	// confirmed successful submission.
	Clear(ctx context.Context, spotterID string) error
}

// Store is persistent storage for accepted trends
type Store interface {
	// Insert persists a trend, idempotent on its submission key. The
	// returned trend is the stored row, which may predate this call when
	// the key was already used.
	Insert(ctx context.Context, t Trend) (Trend, error)

	// FindByCanonicalURL returns trends matching the canonical URL,
	// created at or after since. An empty spotterID searches across all
	// spotters; a zero since searches unbounded.
	FindByCanonicalURL(ctx context.Context, canonical, spotterID string, since time.Time) ([]Trend, error)

	// Get returns a trend by ID or ErrNotFound
	Get(ctx context.Context, id string) (*Trend, error)

	// List returns trends matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]Trend, error)
}

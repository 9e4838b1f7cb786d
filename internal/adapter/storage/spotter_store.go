// internal/adapter/storage/spotter_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wavesight/internal/domain/spotter"
)

// SpotterStore implements persistent storage for spotter profiles
type SpotterStore struct {
	db *pgxpool.Pool
}

// NewSpotterStore creates a new spotter store
func NewSpotterStore(db *pgxpool.Pool) *SpotterStore {
	return &SpotterStore{db: db}
}

// Get returns the profile for a spotter. Unknown spotters get a default
// learning-tier profile; the row is created lazily on first Save.
func (s *SpotterStore) Get(ctx context.Context, id string) (spotter.Profile, error) {
	query := `
		SELECT id, tier, daily_streak, session_streak, trends_submitted,
		       approval_rate, total_earned, last_submission_at
		FROM spotter_profiles
		WHERE id = $1
	`

	var p spotter.Profile
	var lastSubmission *time.Time

	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Tier, &p.DailyStreak, &p.SessionStreak, &p.TrendsSubmitted,
		&p.ApprovalRate, &p.TotalEarned, &lastSubmission,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return spotter.Profile{ID: id, Tier: spotter.TierLearning}, nil
	}
	if err != nil {
		return spotter.Profile{}, fmt.Errorf("querying spotter profile: %w", err)
	}

	if lastSubmission != nil {
		p.LastSubmissionAt = *lastSubmission
	}
	return p, nil
}

// Save upserts the profile
func (s *SpotterStore) Save(ctx context.Context, p spotter.Profile) error {
	query := `
		INSERT INTO spotter_profiles (
			id, tier, daily_streak, session_streak, trends_submitted,
			approval_rate, total_earned, last_submission_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET
			tier = $2,
			daily_streak = $3,
			session_streak = $4,
			trends_submitted = $5,
			approval_rate = $6,
			total_earned = $7,
			last_submission_at = $8
	`

	var lastSubmission *time.Time
	if !p.LastSubmissionAt.IsZero() {
		lastSubmission = &p.LastSubmissionAt
	}

	_, err := s.db.Exec(
		ctx, query,
		p.ID, p.Tier, p.DailyStreak, p.SessionStreak, p.TrendsSubmitted,
		p.ApprovalRate, p.TotalEarned, lastSubmission,
	)
	if err != nil {
		return fmt.Errorf("saving spotter profile: %w", err)
	}
	return nil
}

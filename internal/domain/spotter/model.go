// internal/domain/spotter/model.go

package spotter

import (
	"context"
	"time"
)

// Tier represents a spotter's performance tier
type Tier string

const (
	TierRestricted Tier = "restricted"
	TierLearning   Tier = "learning"
	TierVerified   Tier = "verified"
	TierElite      Tier = "elite"
	TierMaster     Tier = "master"
)

// Profile is the persistent per-spotter record
type Profile struct {
	ID               string    `json:"id"`
	Tier             Tier      `json:"tier"`
	DailyStreak      int       `json:"daily_streak"`
	SessionStreak    int       `json:"session_streak"`
	TrendsSubmitted  int       `json:"trends_submitted"`
	ApprovalRate     float64   `json:"approval_rate"`
	TotalEarned      float64   `json:"total_earned"`
	LastSubmissionAt time.Time `json:"last_submission_at,omitempty"`
}

// History is the scoring-relevant view of a profile. It is what the quality
// scorer consumes; a zero History behaves as a brand-new learning spotter.
type History struct {
	Tier             Tier
	DailyStreak      int
	SessionStreak    int
	LastSubmissionAt time.Time
}

// History derives the scoring view from a profile
func (p Profile) History() History {
	return History{
		Tier:             p.Tier,
		DailyStreak:      p.DailyStreak,
		SessionStreak:    p.SessionStreak,
		LastSubmissionAt: p.LastSubmissionAt,
	}
}

// Store is persistent storage for spotter profiles
type Store interface {
	// Get returns the profile, creating a default learning-tier profile
	// for unknown spotters
	Get(ctx context.Context, id string) (Profile, error)

	// Save upserts the profile
	Save(ctx context.Context, p Profile) error
}

// SessionWindow is how long a gap between submissions may be while still
// counting toward the same rapid-submission session streak.
const SessionWindow = 5 * time.Minute

// RecordSubmission advances the profile's streak counters for a successful
// submission at the given time.
func (p *Profile) RecordSubmission(now time.Time) {
	if !p.LastSubmissionAt.IsZero() && now.Sub(p.LastSubmissionAt) <= SessionWindow {
		p.SessionStreak++
	} else {
		p.SessionStreak = 1
	}

	switch {
	case p.LastSubmissionAt.IsZero():
		p.DailyStreak = 1
	case sameDay(p.LastSubmissionAt, now):
		// already counted today
	case sameDay(p.LastSubmissionAt.AddDate(0, 0, 1), now):
		p.DailyStreak++
	default:
		p.DailyStreak = 1
	}

	p.TrendsSubmitted++
	p.LastSubmissionAt = now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

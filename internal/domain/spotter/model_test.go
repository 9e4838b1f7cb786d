// internal/domain/spotter/model_test.go

package spotter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordSubmissionFirstEver(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := Profile{ID: "s1", Tier: TierLearning}

	p.RecordSubmission(now)

	assert.Equal(t, 1, p.SessionStreak)
	assert.Equal(t, 1, p.DailyStreak)
	assert.Equal(t, 1, p.TrendsSubmitted)
	assert.Equal(t, now, p.LastSubmissionAt)
}

func TestRecordSubmissionSessionStreak(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := Profile{ID: "s1", SessionStreak: 2, DailyStreak: 1, LastSubmissionAt: now.Add(-2 * time.Minute)}

	p.RecordSubmission(now)
	assert.Equal(t, 3, p.SessionStreak)

	// A gap past the window resets the session
	later := now.Add(SessionWindow + time.Second)
	p.RecordSubmission(later)
	assert.Equal(t, 1, p.SessionStreak)
}

func TestRecordSubmissionDailyStreak(t *testing.T) {
	day1 := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		prev time.Time
		at   time.Time
		from int
		want int
	}{
		{"same day holds", day1, day1.Add(time.Hour), 3, 3},
		{"next day advances", day1, day1.Add(12 * time.Hour), 3, 4},
		{"skipped day resets", day1, day1.Add(49 * time.Hour), 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{ID: "s1", DailyStreak: tt.from, LastSubmissionAt: tt.prev}
			p.RecordSubmission(tt.at)
			assert.Equal(t, tt.want, p.DailyStreak)
		})
	}
}

func TestHistoryDerivesFromProfile(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := Profile{
		ID: "s1", Tier: TierElite,
		DailyStreak: 9, SessionStreak: 3,
		TrendsSubmitted: 40, TotalEarned: 12.5,
		LastSubmissionAt: at,
	}

	h := p.History()
	assert.Equal(t, History{
		Tier:             TierElite,
		DailyStreak:      9,
		SessionStreak:    3,
		LastSubmissionAt: at,
	}, h)
}

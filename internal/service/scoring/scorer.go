// internal/service/scoring/scorer.go

package scoring

import (
	"fmt"
	"time"

	"wavesight/internal/domain/spotter"
	"wavesight/internal/domain/submission"
)

const (
	// BaseScore is the display-score floor for any draft
	BaseScore = 50

	// MaxScore is the display-score ceiling
	MaxScore = 100

	// BasePayment is the per-submission base amount in dollars
	BasePayment = 0.08

	highEngagementViews = 100_000
	richHashtagCount    = 3
	highWaveScore       = 70
)

// Factor is one independent, additive scoring contribution. Points feed
// the 0-100 display score, Bonus feeds the dollar estimate; either may be
// zero when a factor only affects one of the two.
type Factor struct {
	Label   string
	Points  int
	Bonus   float64
	Applies func(d submission.Draft) bool
}

// factors is the single table both the display score and the payment
// estimate fold over. Order determines breakdown order.
var factors = []Factor{
	{
		Label:  "Descriptive title",
		Points: 10,
		Applies: func(d submission.Draft) bool {
			return len(d.Title) > 10
		},
	},
	{
		Label:  "Detailed description",
		Points: 10,
		Applies: func(d submission.Draft) bool {
			return len(d.Description) > 20
		},
	},
	{
		Label:  "Complete title and description",
		Bonus:  0.01,
		Applies: func(d submission.Draft) bool {
			return d.Title != "" && d.Description != ""
		},
	},
	{
		Label:  "Visual evidence",
		Points: 10,
		Bonus:  0.02,
		Applies: func(d submission.Draft) bool {
			return d.ScreenshotURL != "" || d.ThumbnailURL != ""
		},
	},
	{
		Label:  "Finance content",
		Bonus:  0.02,
		Applies: func(d submission.Draft) bool {
			return len(d.TickerSymbols) > 0
		},
	},
	{
		Label:  "Finance category",
		Bonus:  0.03,
		Applies: func(d submission.Draft) bool {
			return d.Category == submission.CategoryFinance || d.Category == submission.CategoryCrypto
		},
	},
	{
		Label:  "Audience insights",
		Points: 5,
		Bonus:  0.01,
		Applies: func(d submission.Draft) bool {
			return len(d.DemographicTags) > 0
		},
	},
	{
		Label:  "Cross-platform trend",
		Bonus:  0.01,
		Applies: func(d submission.Draft) bool {
			return len(d.CrossPlatforms) > 0
		},
	},
	{
		Label:  "High engagement",
		Bonus:  0.02,
		Applies: func(d submission.Draft) bool {
			return d.Views > highEngagementViews
		},
	},
	{
		Label:  "Creator metadata captured",
		Points: 5,
		Bonus:  0.01,
		Applies: func(d submission.Draft) bool {
			return d.CreatorHandle != "" && d.Caption != ""
		},
	},
	{
		Label:  "Rich hashtags",
		Bonus:  0.01,
		Applies: func(d submission.Draft) bool {
			return len(d.Hashtags) > richHashtagCount
		},
	},
	{
		Label:  "Hashtags present",
		Points: 10,
		Applies: func(d submission.Draft) bool {
			return len(d.Hashtags) >= richHashtagCount
		},
	},
	{
		Label:  "High wave score",
		Bonus:  0.02,
		Applies: func(d submission.Draft) bool {
			return d.WaveScore > highWaveScore
		},
	},
}

// viewLadder maps view-count thresholds to display-score points. The
// highest matching rung wins; rungs are not cumulative.
var viewLadder = []struct {
	MinViews int64
	Points   int
	Label    string
}{
	{1_000_000, 20, "Viral reach"},
	{100_000, 15, "High reach"},
	{10_000, 10, "Growing reach"},
	{1_000, 5, "Early reach"},
}

// tierMultipliers and perTrendCaps must stay in step with the payout
// configuration on the backend.
var tierMultipliers = map[spotter.Tier]float64{
	spotter.TierRestricted: 0.5,
	spotter.TierLearning:   1.0,
	spotter.TierVerified:   1.5,
	spotter.TierElite:      2.0,
	spotter.TierMaster:     3.0,
}

var perTrendCaps = map[spotter.Tier]float64{
	spotter.TierRestricted: 1.00,
	spotter.TierLearning:   2.00,
	spotter.TierVerified:   3.00,
	spotter.TierElite:      4.00,
	spotter.TierMaster:     5.00,
}

// dailyStreakBands is a descending step table; the first band whose MinDays
// the streak meets applies.
var dailyStreakBands = []struct {
	MinDays    int
	Multiplier float64
}{
	{30, 2.5},
	{14, 2.0},
	{7, 1.5},
	{2, 1.2},
	{0, 1.0},
}

// sessionStreakMultipliers indexes by session position, capped at 5
var sessionStreakMultipliers = [...]float64{1.0, 1.0, 1.2, 1.5, 2.0, 2.5}

// TierMultiplier returns the payout multiplier for a tier. Unknown tiers
// behave as learning.
func TierMultiplier(t spotter.Tier) float64 {
	if m, ok := tierMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// DailyStreakMultiplier returns the multiplier for a consecutive-day streak
func DailyStreakMultiplier(days int) float64 {
	for _, band := range dailyStreakBands {
		if days >= band.MinDays {
			return band.Multiplier
		}
	}
	return 1.0
}

// SessionStreakMultiplier returns the multiplier for a session position
// (1-based). Positions past 5 hold at the maximum.
func SessionStreakMultiplier(position int) float64 {
	if position < 1 {
		return 1.0
	}
	if position >= len(sessionStreakMultipliers) {
		return sessionStreakMultipliers[len(sessionStreakMultipliers)-1]
	}
	return sessionStreakMultipliers[position]
}

// Scorer computes quality metrics for drafts. It performs no I/O; the
// clock is injectable so streak-window evaluation stays deterministic in
// tests.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt creates a scorer with a fixed clock
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score computes the display score, payment estimate and breakdown for a
// draft against the spotter's history. It performs no I/O and is
// deterministic for a given input.
func (s *Scorer) Score(d submission.Draft, h spotter.History) submission.QualityMetrics {
	score := BaseScore
	payment := BasePayment
	breakdown := []string{fmt.Sprintf("Base payment: $%.2f", BasePayment)}

	for _, f := range factors {
		if !f.Applies(d) {
			continue
		}
		score += f.Points
		payment += f.Bonus
		if f.Bonus > 0 {
			breakdown = append(breakdown, fmt.Sprintf("%s: +$%.2f", f.Label, f.Bonus))
		}
	}

	for _, rung := range viewLadder {
		if d.Views >= rung.MinViews {
			score += rung.Points
			break
		}
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}

	tierMult := TierMultiplier(h.Tier)
	if tierMult != 1.0 {
		breakdown = append(breakdown, fmt.Sprintf("%s tier: %gx", h.Tier, tierMult))
	}

	streakMult := s.streakMultiplier(h, s.now())
	if streakMult > 1.0 {
		breakdown = append(breakdown, fmt.Sprintf("Streak bonus: %gx", streakMult))
	}

	total := payment * tierMult * streakMult
	if limit, ok := perTrendCaps[h.Tier]; ok && total > limit {
		total = limit
		breakdown = append(breakdown, fmt.Sprintf("Capped at $%.2f", limit))
	}

	return submission.QualityMetrics{
		Score:            score,
		PaymentEstimate:  total,
		BaseAmount:       payment,
		TierMultiplier:   tierMult,
		StreakMultiplier: streakMult,
		Breakdown:        breakdown,
	}
}

// streakMultiplier combines the session and daily streak tables. The
// session streak only applies while the spotter is inside the rapid
// submission window.
func (s *Scorer) streakMultiplier(h spotter.History, now time.Time) float64 {
	sessionPos := 1
	if !h.LastSubmissionAt.IsZero() && now.Sub(h.LastSubmissionAt) <= spotter.SessionWindow {
		sessionPos = h.SessionStreak + 1
		if sessionPos > 5 {
			sessionPos = 5
		}
	}
	return SessionStreakMultiplier(sessionPos) * DailyStreakMultiplier(h.DailyStreak)
}

// internal/service/insights/aggregator.go

package insights

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// Snapshot is one aggregation pass over the recent submission window. It
// feeds the enterprise dashboard views.
type Snapshot struct {
	WindowStart     time.Time       `json:"window_start"`
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalTrends     int             `json:"total_trends"`
	AvgQualityScore float64         `json:"avg_quality_score"`
	TotalPayments   float64         `json:"total_payments"`
	ByCategory      []CategoryCount `json:"by_category"`
	ByPlatform      []PlatformCount `json:"by_platform"`
}

// CategoryCount is a per-category rollup entry
type CategoryCount struct {
	Category submission.Category `json:"category"`
	Count    int                 `json:"count"`
}

// PlatformCount is a per-platform rollup entry
type PlatformCount struct {
	Platform submission.Platform `json:"platform"`
	Count    int                 `json:"count"`
}

// AggregatorConfig contains configuration for the insights aggregator
type AggregatorConfig struct {
	// Interval between aggregation passes
	Interval time.Duration

	// Window is how far back each pass looks
	Window time.Duration

	// EventsTopic is the NATS subject prefix for insight events
	EventsTopic string
}

// Aggregator periodically rolls up recent submissions into a snapshot and
// publishes it on the event bus. The latest snapshot is also served over
// HTTP; dashboards may lag a submission by at most one interval.
type Aggregator struct {
	store    submission.Store
	eventBus *nats.Conn
	config   AggregatorConfig
	logger   *zap.Logger

	mu     sync.RWMutex
	latest *Snapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAggregator creates an insights aggregator
func NewAggregator(store submission.Store, eventBus *nats.Conn, config AggregatorConfig, logger *zap.Logger) *Aggregator {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.Window <= 0 {
		config.Window = 24 * time.Hour
	}
	return &Aggregator{
		store:    store,
		eventBus: eventBus,
		config:   config,
		logger:   logger,
	}
}

// Start begins periodic aggregation
func (a *Aggregator) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(a.config.Interval)
		defer ticker.Stop()

		// Seed a snapshot immediately so the endpoint has data on boot
		a.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runOnce(ctx)
			}
		}
	}()

	return nil
}

// Stop stops aggregation and waits for the worker to exit
func (a *Aggregator) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latest returns the most recent snapshot, or ok=false before the first
// pass completes
func (a *Aggregator) Latest() (Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.latest == nil {
		return Snapshot{}, false
	}
	return *a.latest, true
}

func (a *Aggregator) runOnce(ctx context.Context) {
	snap, err := a.Aggregate(ctx, time.Now().UTC())
	if err != nil {
		a.logger.Warn("insight aggregation pass failed", zap.Error(err))
		return
	}

	a.mu.Lock()
	a.latest = &snap
	a.mu.Unlock()

	a.publish(snap)
}

// Aggregate computes a snapshot of submissions inside the window ending at
// now. It is deterministic for a fixed store state.
func (a *Aggregator) Aggregate(ctx context.Context, now time.Time) (Snapshot, error) {
	since := now.Add(-a.config.Window)

	trends, err := a.store.List(ctx, submission.Filter{Since: since})
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		WindowStart: since,
		GeneratedAt: now,
		TotalTrends: len(trends),
	}

	categories := map[submission.Category]int{}
	platforms := map[submission.Platform]int{}
	scoreSum := 0

	for _, t := range trends {
		categories[t.Category]++
		platforms[t.Platform]++
		scoreSum += t.QualityScore
		snap.TotalPayments += t.PaymentAmount
	}

	if len(trends) > 0 {
		snap.AvgQualityScore = float64(scoreSum) / float64(len(trends))
	}

	for c, n := range categories {
		snap.ByCategory = append(snap.ByCategory, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(snap.ByCategory, func(i, j int) bool {
		if snap.ByCategory[i].Count != snap.ByCategory[j].Count {
			return snap.ByCategory[i].Count > snap.ByCategory[j].Count
		}
		return snap.ByCategory[i].Category < snap.ByCategory[j].Category
	})

	for p, n := range platforms {
		snap.ByPlatform = append(snap.ByPlatform, PlatformCount{Platform: p, Count: n})
	}
	sort.Slice(snap.ByPlatform, func(i, j int) bool {
		if snap.ByPlatform[i].Count != snap.ByPlatform[j].Count {
			return snap.ByPlatform[i].Count > snap.ByPlatform[j].Count
		}
		return snap.ByPlatform[i].Platform < snap.ByPlatform[j].Platform
	})

	return snap, nil
}

func (a *Aggregator) publish(snap Snapshot) {
	if a.eventBus == nil {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		a.logger.Error("marshaling insight snapshot", zap.Error(err))
		return
	}

	topic := a.config.EventsTopic + ".snapshot"
	if err := a.eventBus.Publish(topic, data); err != nil {
		a.logger.Warn("publishing insight snapshot", zap.Error(err))
	}
}

// internal/service/submit/orchestrator.go

package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"wavesight/internal/domain/spotter"
	"wavesight/internal/domain/submission"
	"wavesight/internal/service/dedupe"
	"wavesight/internal/service/scoring"
)

// State is the orchestrator's submission state
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// OrchestratorConfig contains configuration for the submission orchestrator
type OrchestratorConfig struct {
	// SubmitTimeout bounds the storage write
	SubmitTimeout time.Duration

	// EventsTopic is the NATS subject prefix for submission events
	EventsTopic string
}

// Orchestrator coordinates validation, scoring, persistence and draft
// cleanup into a single submit operation with at-most-once semantics per
// user action.
type Orchestrator struct {
	store    submission.Store
	drafts   submission.DraftStore
	spotters spotter.Store
	scorer   *scoring.Scorer
	eventBus *nats.Conn
	config   OrchestratorConfig
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]State
}

// NewOrchestrator creates a submission orchestrator
func NewOrchestrator(
	store submission.Store,
	drafts submission.DraftStore,
	spotters spotter.Store,
	scorer *scoring.Scorer,
	eventBus *nats.Conn,
	config OrchestratorConfig,
	logger *zap.Logger,
) *Orchestrator {
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = 30 * time.Second
	}
	return &Orchestrator{
		store:    store,
		drafts:   drafts,
		spotters: spotters,
		scorer:   scorer,
		eventBus: eventBus,
		config:   config,
		logger:   logger,
		inFlight: make(map[string]State),
	}
}

// State returns the current submission state for a spotter
func (o *Orchestrator) State(spotterID string) State {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s, ok := o.inFlight[spotterID]; ok {
		return s
	}
	return StateEditing
}

// Submit runs the full pipeline for the draft. On success the stored trend
// is returned and the spotter's draft is cleared; on any failure the draft
// is left intact so the spotter can correct and retry. A second Submit
// while one is in flight for the same spotter returns ErrSubmitInFlight
// without touching storage.
func (o *Orchestrator) Submit(ctx context.Context, d submission.Draft) (*submission.Trend, error) {
	if d.SpotterID == "" {
		return nil, &submission.ValidationError{Fields: map[string]string{"spotter_id": "spotter id is required"}}
	}

	o.mu.Lock()
	if _, busy := o.inFlight[d.SpotterID]; busy {
		o.mu.Unlock()
		return nil, submission.ErrSubmitInFlight
	}
	o.inFlight[d.SpotterID] = StateValidating
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.inFlight, d.SpotterID)
		o.mu.Unlock()
	}()

	// Validation gate: no network call happens on a validation failure
	if err := d.Validate(); err != nil {
		return nil, err
	}

	o.setState(d.SpotterID, StateSubmitting)

	profile, err := o.spotters.Get(ctx, d.SpotterID)
	if err != nil {
		// Scoring falls back to a default learning profile
		o.logger.Warn("loading spotter profile", zap.String("spotter_id", d.SpotterID), zap.Error(err))
		profile = spotter.Profile{ID: d.SpotterID, Tier: spotter.TierLearning}
	}

	metrics := o.scorer.Score(d, profile.History())

	// The submission key makes the insert idempotent: a retry after a
	// lost acknowledgment resolves to the already-stored row instead of
	// creating a second one. The key is persisted back into the draft
	// before the write so a failed attempt reuses it.
	if d.SubmissionKey == "" {
		d.SubmissionKey = uuid.New().String()
		if err := o.drafts.Save(ctx, d); err != nil {
			o.logger.Warn("persisting submission key", zap.Error(err))
		}
		if err := o.drafts.Flush(ctx, d.SpotterID); err != nil {
			o.logger.Warn("flushing submission key", zap.Error(err))
		}
	}

	trend := submission.Trend{
		ID:            uuid.New().String(),
		SpotterID:     d.SpotterID,
		URL:           d.URL,
		CanonicalURL:  dedupe.CanonicalURL(d.URL),
		Title:         d.Title,
		Description:   d.Description,
		Platform:      d.Platform,
		Category:      d.Category,
		CreatorHandle: d.CreatorHandle,
		CreatorName:   d.CreatorName,
		Caption:       d.Caption,
		Likes:         d.Likes,
		Comments:      d.Comments,
		Shares:        d.Shares,
		Views:         d.Views,
		Hashtags:      d.Hashtags,
		ThumbnailURL:  d.ThumbnailURL,
		ScreenshotURL: d.ScreenshotURL,
		WaveScore:     d.WaveScore,
		QualityScore:  metrics.Score,
		PaymentAmount: metrics.PaymentEstimate,
		Status:        "submitted",
		SubmissionKey: d.SubmissionKey,
		CreatedAt:     time.Now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, o.config.SubmitTimeout)
	defer cancel()

	stored, err := o.store.Insert(writeCtx, trend)
	if err != nil {
		o.setState(d.SpotterID, StateFailed)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, submission.ErrTimeout
		}
		if errors.Is(err, submission.ErrAlreadySubmitted) {
			return nil, submission.ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("storing submission: %w", err)
	}

	o.setState(d.SpotterID, StateSucceeded)

	// A draft is destroyed only on confirmed success (here) or explicit
	// spotter discard, never on a transient error.
	if err := o.drafts.Clear(ctx, d.SpotterID); err != nil {
		o.logger.Warn("clearing draft after submit", zap.String("spotter_id", d.SpotterID), zap.Error(err))
	}

	o.recordStreak(ctx, profile, stored)
	o.publishSubmitted(stored)

	return &stored, nil
}

// recordStreak advances the spotter's streak counters after a success
func (o *Orchestrator) recordStreak(ctx context.Context, profile spotter.Profile, t submission.Trend) {
	if profile.ID == "" {
		profile.ID = t.SpotterID
	}
	if profile.Tier == "" {
		profile.Tier = spotter.TierLearning
	}
	profile.RecordSubmission(t.CreatedAt)
	profile.TotalEarned += t.PaymentAmount

	if err := o.spotters.Save(ctx, profile); err != nil {
		o.logger.Warn("saving spotter profile", zap.String("spotter_id", profile.ID), zap.Error(err))
	}
}

// publishSubmitted emits the submission.created event for dashboards
func (o *Orchestrator) publishSubmitted(t submission.Trend) {
	if o.eventBus == nil {
		return
	}

	data, err := json.Marshal(t)
	if err != nil {
		o.logger.Error("marshaling submission event", zap.Error(err))
		return
	}

	topic := fmt.Sprintf("%s.created", o.config.EventsTopic)
	if err := o.eventBus.Publish(topic, data); err != nil {
		o.logger.Warn("publishing submission event", zap.String("topic", topic), zap.Error(err))
	}
}

func (o *Orchestrator) setState(spotterID string, s State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.inFlight[spotterID]; ok {
		o.inFlight[spotterID] = s
	}
}

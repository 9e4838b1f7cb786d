// internal/service/draft/store.go

package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// keyPrefix versions the storage key; bump it when the draft wire format
// changes incompatibly.
const keyPrefix = "wavesight:draft:v1:"

// StoreConfig contains configuration for the draft store
type StoreConfig struct {
	// Debounce is the quiet period writes coalesce over
	Debounce time.Duration
}

// Store is debounced, durable, one-draft-per-spotter persistence. Rapid
// successive saves coalesce into a single KV write after the quiet period;
// Close flushes whatever is still pending so an unmount never loses a
// meaningful draft.
type Store struct {
	kv     KV
	config StoreConfig
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session is the per-spotter debounce state
type session struct {
	sched   *scheduler
	pending *submission.Draft
}

// NewStore creates a draft store over the given KV backend
func NewStore(kv KV, config StoreConfig, logger *zap.Logger) *Store {
	if config.Debounce <= 0 {
		config.Debounce = time.Second
	}
	return &Store{
		kv:       kv,
		config:   config,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

func key(spotterID string) string {
	return keyPrefix + spotterID
}

// Save schedules a debounced write of the draft. Each call replaces the
// pending draft and restarts the quiet-period timer; last write wins.
func (s *Store) Save(ctx context.Context, d submission.Draft) error {
	if d.SpotterID == "" {
		return fmt.Errorf("draft has no spotter id")
	}
	d.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	sess, ok := s.sessions[d.SpotterID]
	if !ok {
		sess = &session{sched: newScheduler(s.config.Debounce)}
		s.sessions[d.SpotterID] = sess
	}
	sess.pending = &d
	s.mu.Unlock()

	spotterID := d.SpotterID
	sess.sched.Schedule(func() {
		s.writePending(spotterID)
	})
	return nil
}

// Flush writes any pending draft for the spotter immediately
func (s *Store) Flush(ctx context.Context, spotterID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[spotterID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	sess.sched.Fire()
	return nil
}

// Load returns the stored draft for the spotter. It is meant to be called
// once, at form-open time.
func (s *Store) Load(ctx context.Context, spotterID string) (submission.Draft, bool, error) {
	raw, err := s.kv.Get(ctx, key(spotterID))
	if errors.Is(err, ErrKeyNotFound) {
		return submission.Draft{}, false, nil
	}
	if err != nil {
		return submission.Draft{}, false, fmt.Errorf("loading draft: %w", err)
	}

	var d submission.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		// A corrupt draft behaves like no draft; the spotter starts fresh
		s.logger.Warn("discarding unreadable draft", zap.String("spotter_id", spotterID), zap.Error(err))
		return submission.Draft{}, false, nil
	}
	return d, true, nil
}

// Clear removes the stored draft and drops any pending debounced write.
// It is invoked only on explicit discard or confirmed successful submit.
func (s *Store) Clear(ctx context.Context, spotterID string) error {
	s.mu.Lock()
	if sess, ok := s.sessions[spotterID]; ok {
		sess.sched.Cancel()
		delete(s.sessions, spotterID)
	}
	s.mu.Unlock()

	if err := s.kv.Del(ctx, key(spotterID)); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}

// Close flushes every session that still holds a meaningful pending draft
func (s *Store) Close() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.sched.Fire()
	}
}

// writePending persists the pending draft for the spotter, skipping drafts
// with no meaningful content. The session is dropped once its pending draft
// is consumed so idle spotters do not accumulate in memory.
func (s *Store) writePending(spotterID string) {
	s.mu.Lock()
	sess, ok := s.sessions[spotterID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, spotterID)
	if sess.pending == nil {
		s.mu.Unlock()
		return
	}
	d := *sess.pending
	s.mu.Unlock()

	if d.Empty() {
		return
	}

	raw, err := json.Marshal(d)
	if err != nil {
		s.logger.Error("marshaling draft", zap.String("spotter_id", spotterID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.kv.Set(ctx, key(spotterID), string(raw)); err != nil {
		s.logger.Error("persisting draft", zap.String("spotter_id", spotterID), zap.Error(err))
	}
}

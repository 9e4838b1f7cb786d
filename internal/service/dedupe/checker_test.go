// internal/service/dedupe/checker_test.go

package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

type fakeStore struct {
	byURL map[string][]submission.Trend
	err   error
	calls int
}

func (f *fakeStore) Insert(ctx context.Context, t submission.Trend) (submission.Trend, error) {
	return t, nil
}

func (f *fakeStore) FindByCanonicalURL(ctx context.Context, canonical, spotterID string, since time.Time) ([]submission.Trend, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []submission.Trend
	for _, t := range f.byURL[canonical] {
		if spotterID != "" && t.SpotterID != spotterID {
			continue
		}
		if !since.IsZero() && t.CreatedAt.Before(since) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*submission.Trend, error) {
	return nil, submission.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, filter submission.Filter) ([]submission.Trend, error) {
	return nil, nil
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips scheme", "https://tiktok.com/@x/video/1", "tiktok.com/@x/video/1"},
		{"http and https agree", "http://tiktok.com/@x/video/1", "tiktok.com/@x/video/1"},
		{"strips query", "https://tiktok.com/@x/video/1?utm_source=share&is_copy=1", "tiktok.com/@x/video/1"},
		{"strips fragment", "https://tiktok.com/@x/video/1#comments", "tiktok.com/@x/video/1"},
		{"strips trailing slash", "https://tiktok.com/@x/video/1/", "tiktok.com/@x/video/1"},
		{"lowercases", "https://TikTok.com/@X/Video/1", "tiktok.com/@x/video/1"},
		{"trims whitespace", "  https://tiktok.com/@x/video/1 ", "tiktok.com/@x/video/1"},
		{"not a url degrades", "not a url///", "not a url"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalURL(tt.raw))
		})
	}
}

func TestCanonicalURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://tiktok.com/@x/video/1?utm_source=share",
		"HTTPS://X.com/u/status/9#top",
		"garbage input",
	}
	for _, in := range inputs {
		once := CanonicalURL(in)
		assert.Equal(t, once, CanonicalURL(once))
	}
}

func TestCheckOwnDuplicate(t *testing.T) {
	store := &fakeStore{byURL: map[string][]submission.Trend{
		"tiktok.com/@x/video/1": {{SpotterID: "spotter-1", CreatedAt: time.Now()}},
	}}
	c := NewChecker(store, CheckerConfig{}, zap.NewNop())

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1?utm_source=share", "spotter-1")
	assert.True(t, res.IsDuplicate)
	assert.Equal(t, "You have already submitted this trend", res.Message)
}

func TestCheckOtherSpotterDuplicate(t *testing.T) {
	store := &fakeStore{byURL: map[string][]submission.Trend{
		"tiktok.com/@x/video/1": {{SpotterID: "someone-else", CreatedAt: time.Now()}},
	}}
	c := NewChecker(store, CheckerConfig{}, zap.NewNop())

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.True(t, res.IsDuplicate)
	assert.Equal(t, "This trend has already been submitted by another spotter", res.Message)
}

func TestCheckNoDuplicate(t *testing.T) {
	c := NewChecker(&fakeStore{}, CheckerConfig{}, zap.NewNop())

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.False(t, res.IsDuplicate)
	assert.Empty(t, res.Message)
}

func TestCheckFailsOpen(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	c := NewChecker(store, CheckerConfig{}, zap.NewNop())

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.False(t, res.IsDuplicate)
}

func TestCheckRepeatableAndSideEffectFree(t *testing.T) {
	store := &fakeStore{byURL: map[string][]submission.Trend{
		"tiktok.com/@x/video/1": {{SpotterID: "spotter-1", CreatedAt: time.Now()}},
	}}
	c := NewChecker(store, CheckerConfig{}, zap.NewNop())

	first := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	second := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.Equal(t, first, second)
}

func TestCheckEmptyURL(t *testing.T) {
	store := &fakeStore{}
	c := NewChecker(store, CheckerConfig{}, zap.NewNop())

	res := c.Check(context.Background(), "", "spotter-1")
	assert.False(t, res.IsDuplicate)
	assert.Zero(t, store.calls)
}

func TestCheckIgnoresSubmissionsOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{byURL: map[string][]submission.Trend{
		"tiktok.com/@x/video/1": {{SpotterID: "spotter-1", CreatedAt: now.AddDate(-5, 0, 0)}},
	}}
	c := NewChecker(store, CheckerConfig{Window: 30 * 24 * time.Hour}, zap.NewNop())
	c.now = func() time.Time { return now }

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.False(t, res.IsDuplicate)
	assert.Empty(t, res.Message)
}

func TestCheckWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour
	store := &fakeStore{byURL: map[string][]submission.Trend{
		"tiktok.com/@x/video/1": {{SpotterID: "spotter-1", CreatedAt: now.Add(-window + time.Hour)}},
	}}
	c := NewChecker(store, CheckerConfig{Window: window}, zap.NewNop())
	c.now = func() time.Time { return now }

	res := c.Check(context.Background(), "https://tiktok.com/@x/video/1", "spotter-1")
	assert.True(t, res.IsDuplicate)
}

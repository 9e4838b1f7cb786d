// internal/service/draft/store_test.go

package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wavesight/internal/domain/submission"
)

// countingKV wraps MemoryKV and counts writes
type countingKV struct {
	*MemoryKV
	mu   sync.Mutex
	sets int
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryKV.Set(ctx, key, value)
}

func (c *countingKV) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func newTestStore(t *testing.T, debounce time.Duration) (*Store, *countingKV) {
	t.Helper()
	kv := &countingKV{MemoryKV: NewMemoryKV()}
	return NewStore(kv, StoreConfig{Debounce: debounce}, zap.NewNop()), kv
}

func TestSaveDebouncesRapidEdits(t *testing.T) {
	store, kv := newTestStore(t, 30*time.Millisecond)
	ctx := context.Background()

	for _, title := range []string{"c", "ca", "cat", "cat video"} {
		require.NoError(t, store.Save(ctx, submission.Draft{
			SpotterID: "spotter-1",
			URL:       "https://tiktok.com/@x/video/1",
			Title:     title,
		}))
	}

	// Nothing hits the KV before the quiet period elapses
	assert.Zero(t, kv.setCount())

	assert.Eventually(t, func() bool {
		return kv.setCount() == 1
	}, time.Second, 5*time.Millisecond)

	d, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cat video", d.Title)
}

func TestFlushWritesImmediately(t *testing.T) {
	store, kv := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1",
		URL:       "https://tiktok.com/@x/video/1",
		Title:     "cat video",
	}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	assert.Equal(t, 1, kv.setCount())

	d, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cat video", d.Title)
}

func TestCloseFlushesPendingDrafts(t *testing.T) {
	store, kv := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "one",
	}))
	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-2", URL: "https://a.com/2", Title: "two",
	}))

	store.Close()
	assert.Equal(t, 2, kv.setCount())
}

func TestEmptyDraftsAreNotPersisted(t *testing.T) {
	store, kv := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{SpotterID: "spotter-1"}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	assert.Zero(t, kv.setCount())
	_, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveRequiresSpotterID(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	assert.Error(t, store.Save(context.Background(), submission.Draft{Title: "x"}))
}

func TestLoadMissingDraft(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	d, ok, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, d.Empty())
}

func TestLoadCorruptDraftStartsFresh(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, StoreConfig{Debounce: time.Hour}, zap.NewNop())
	require.NoError(t, kv.Set(context.Background(), key("spotter-1"), "{not json"))

	d, ok, err := store.Load(context.Background(), "spotter-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, d.Empty())
}

func TestClearDropsStoredAndPending(t *testing.T) {
	store, kv := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "stored",
	}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))
	require.Equal(t, 1, kv.setCount())

	// A pending edit scheduled after the flush must not resurrect the draft
	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "pending",
	}))
	require.NoError(t, store.Clear(ctx, "spotter-1"))

	_, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Close fires remaining schedulers; the cleared session is gone
	store.Close()
	assert.Equal(t, 1, kv.setCount())
}

func TestSessionsReleasedAfterWriteAndClear(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "one",
	}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-2", URL: "https://a.com/2", Title: "two",
	}))
	require.NoError(t, store.Clear(ctx, "spotter-2"))

	store.mu.Lock()
	remaining := len(store.sessions)
	store.mu.Unlock()
	assert.Zero(t, remaining)

	// A spotter whose session was released can keep drafting
	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "one more",
	}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	d, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one more", d.Title)
}

func TestReloadEqualsLastSavedState(t *testing.T) {
	store, _ := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	last := submission.Draft{
		SpotterID:     "spotter-1",
		URL:           "https://tiktok.com/@x/video/1",
		Title:         "final title",
		Category:      submission.CategoryHumor,
		Hashtags:      []string{"a", "b"},
		Views:         42,
		SubmissionKey: "6a8f7c1e-0000-0000-0000-000000000000",
	}

	require.NoError(t, store.Save(ctx, submission.Draft{SpotterID: "spotter-1", URL: last.URL, Title: "draft"}))
	require.NoError(t, store.Save(ctx, last))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	got, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	require.True(t, ok)

	// UpdatedAt is stamped by Save
	assert.False(t, got.UpdatedAt.IsZero())
	got.UpdatedAt = time.Time{}
	assert.Equal(t, last, got)
}

func TestRedisKVRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKV(client)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(NewRedisKV(client), StoreConfig{Debounce: 5 * time.Millisecond}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, submission.Draft{
		SpotterID: "spotter-1", URL: "https://a.com/1", Title: "redis backed",
	}))
	require.NoError(t, store.Flush(ctx, "spotter-1"))

	d, ok, err := store.Load(ctx, "spotter-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "redis backed", d.Title)
}

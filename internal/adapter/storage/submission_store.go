// internal/adapter/storage/submission_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wavesight/internal/domain/submission"
)

const uniqueViolation = "23505"

// SubmissionStore implements persistent storage for submitted trends
type SubmissionStore struct {
	db *pgxpool.Pool
}

// NewSubmissionStore creates a new submission store
func NewSubmissionStore(db *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const trendColumns = `
	id, spotter_id, url, canonical_url, title, description,
	platform, category, creator_handle, creator_name, caption,
	likes_count, comments_count, shares_count, views_count,
	hashtags, thumbnail_url, screenshot_url, wave_score,
	quality_score, payment_amount, status, submission_key, created_at`

// Insert persists a trend. The write is idempotent on the submission key:
// when the key was already used, the previously stored row is returned so
// a user retry after a lost acknowledgment cannot create a duplicate. A
// unique violation on (spotter, canonical URL) maps to ErrAlreadySubmitted.
func (s *SubmissionStore) Insert(ctx context.Context, t submission.Trend) (submission.Trend, error) {
	query := `
		INSERT INTO trend_submissions (` + trendColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
		ON CONFLICT (submission_key) DO NOTHING
		RETURNING ` + trendColumns

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	row := s.db.QueryRow(
		ctx, query,
		t.ID, t.SpotterID, t.URL, t.CanonicalURL, t.Title, t.Description,
		t.Platform, t.Category, t.CreatorHandle, t.CreatorName, t.Caption,
		t.Likes, t.Comments, t.Shares, t.Views,
		t.Hashtags, t.ThumbnailURL, t.ScreenshotURL, t.WaveScore,
		t.QualityScore, t.PaymentAmount, t.Status, t.SubmissionKey, t.CreatedAt,
	)

	stored, err := scanTrend(row)
	if err == nil {
		return stored, nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on the submission key: this is a retry, return the
		// row the first attempt stored
		return s.getByKey(ctx, t.SubmissionKey)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return submission.Trend{}, submission.ErrAlreadySubmitted
	}

	return submission.Trend{}, fmt.Errorf("inserting trend: %w", err)
}

// FindByCanonicalURL returns trends matching the canonical URL, optionally
// scoped to one spotter and bounded to rows created at or after since
func (s *SubmissionStore) FindByCanonicalURL(ctx context.Context, canonical, spotterID string, since time.Time) ([]submission.Trend, error) {
	query := `SELECT ` + trendColumns + ` FROM trend_submissions WHERE canonical_url = $1`
	args := []interface{}{canonical}

	if spotterID != "" {
		args = append(args, spotterID)
		query += fmt.Sprintf(` AND spotter_id = $%d`, len(args))
	}
	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trends by url: %w", err)
	}
	defer rows.Close()

	return scanTrends(rows)
}

// Get returns a trend by ID
func (s *SubmissionStore) Get(ctx context.Context, id string) (*submission.Trend, error) {
	query := `SELECT ` + trendColumns + ` FROM trend_submissions WHERE id = $1`

	t, err := scanTrend(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, submission.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying trend: %w", err)
	}
	return &t, nil
}

// List returns trends matching the filter, newest first
func (s *SubmissionStore) List(ctx context.Context, filter submission.Filter) ([]submission.Trend, error) {
	var conditions []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.SpotterID != "" {
		add("spotter_id = $%d", filter.SpotterID)
	}
	if filter.Platform != "" {
		add("platform = $%d", filter.Platform)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if !filter.Since.IsZero() {
		add("created_at >= $%d", filter.Since)
	}

	query := `SELECT ` + trendColumns + ` FROM trend_submissions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trends: %w", err)
	}
	defer rows.Close()

	return scanTrends(rows)
}

func (s *SubmissionStore) getByKey(ctx context.Context, key string) (submission.Trend, error) {
	query := `SELECT ` + trendColumns + ` FROM trend_submissions WHERE submission_key = $1`

	t, err := scanTrend(s.db.QueryRow(ctx, query, key))
	if err != nil {
		return submission.Trend{}, fmt.Errorf("querying trend by submission key: %w", err)
	}
	return t, nil
}

func scanTrend(row pgx.Row) (submission.Trend, error) {
	var t submission.Trend
	err := row.Scan(
		&t.ID, &t.SpotterID, &t.URL, &t.CanonicalURL, &t.Title, &t.Description,
		&t.Platform, &t.Category, &t.CreatorHandle, &t.CreatorName, &t.Caption,
		&t.Likes, &t.Comments, &t.Shares, &t.Views,
		&t.Hashtags, &t.ThumbnailURL, &t.ScreenshotURL, &t.WaveScore,
		&t.QualityScore, &t.PaymentAmount, &t.Status, &t.SubmissionKey, &t.CreatedAt,
	)
	return t, err
}

func scanTrends(rows pgx.Rows) ([]submission.Trend, error) {
	var trends []submission.Trend
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trend: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// internal/adapter/storage/media_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrMediaNotFound indicates the requested object does not exist
var ErrMediaNotFound = errors.New("media not found")

// MediaObject is a stored screenshot or thumbnail attachment
type MediaObject struct {
	ID          string
	SpotterID   string
	FileName    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// MediaStore holds submission screenshots in Postgres and hands back the
// path they are served under.
type MediaStore struct {
	db *pgxpool.Pool
}

// NewMediaStore creates a new media store
func NewMediaStore(db *pgxpool.Pool) *MediaStore {
	return &MediaStore{db: db}
}

// Save stores the object and returns its public path
func (s *MediaStore) Save(ctx context.Context, spotterID, fileName, contentType string, data []byte) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO media_objects (id, spotter_id, file_name, content_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query, id, spotterID, fileName, contentType, data, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("saving media object: %w", err)
	}

	return fmt.Sprintf("/api/v1/media/%s", id), nil
}

// Get returns a stored object by ID
func (s *MediaStore) Get(ctx context.Context, id string) (*MediaObject, error) {
	query := `
		SELECT id, spotter_id, file_name, content_type, data, created_at
		FROM media_objects
		WHERE id = $1
	`

	var obj MediaObject
	err := s.db.QueryRow(ctx, query, id).Scan(
		&obj.ID, &obj.SpotterID, &obj.FileName, &obj.ContentType, &obj.Data, &obj.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying media object: %w", err)
	}
	return &obj, nil
}

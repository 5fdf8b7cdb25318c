package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

const videoColumns = `id, title, description, provider, provider_asset_id, playback_id,
	status, duration_seconds, created_at, updated_at`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var (
		v          domain.Video
		assetID    *string
		playbackID *string
	)
	err := row.Scan(
		&v.ID,
		&v.Title,
		&v.Description,
		&v.Provider,
		&assetID,
		&playbackID,
		&v.Status,
		&v.DurationSeconds,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assetID != nil {
		v.ProviderAssetID = *assetID
	}
	if playbackID != nil {
		v.PlaybackID = *playbackID
	}
	return &v, nil
}

// CreateVideo inserts a new video.
func (s *Store) CreateVideo(ctx context.Context, v *domain.Video) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO videos (`+videoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID,
		v.Title,
		v.Description,
		string(v.Provider),
		nullString(v.ProviderAssetID),
		nullString(v.PlaybackID),
		string(v.Status),
		v.DurationSeconds,
		v.CreatedAt.UTC(),
		v.UpdatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return store.Conflict("video already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetVideo retrieves a video by ID.
func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	v, err := scanVideo(s.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("video")
	}
	return v, err
}

// GetVideoByProviderAsset finds the video backed by a provider asset.
func (s *Store) GetVideoByProviderAsset(ctx context.Context, provider domain.Provider, assetID string) (*domain.Video, error) {
	v, err := scanVideo(s.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE provider = $1 AND provider_asset_id = $2`,
		string(provider), assetID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("video")
	}
	return v, err
}

// ListVideos returns videos newest first using keyset pagination.
func (s *Store) ListVideos(ctx context.Context, params store.ListVideosParams) (*store.PaginatedResult[*domain.Video], error) {
	params.Validate()

	pos, err := store.DecodePosition(params.Cursor)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if params.Status != "" {
		where = append(where, "status = "+arg(string(params.Status)))
	}
	if pos != nil {
		where = append(where, fmt.Sprintf("(created_at, id) < (%s, %s)", arg(pos.CreatedAt.UTC()), arg(pos.ID)))
	}

	query := `SELECT ` + videoColumns + ` FROM videos`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ` + arg(params.Limit+1)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Video, 0, params.Limit)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[*domain.Video]{Items: items}
	if len(items) > params.Limit {
		result.Items = items[:params.Limit]
		last := result.Items[len(result.Items)-1]
		result.HasMore = true
		result.NextCursor = store.EncodePosition(store.Position{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// UpdateVideo overwrites every mutable column of an existing video.
func (s *Store) UpdateVideo(ctx context.Context, v *domain.Video) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE videos SET
			title = $1, description = $2, provider = $3, provider_asset_id = $4,
			playback_id = $5, status = $6, duration_seconds = $7, updated_at = $8
		WHERE id = $9`,
		v.Title,
		v.Description,
		string(v.Provider),
		nullString(v.ProviderAssetID),
		nullString(v.PlaybackID),
		string(v.Status),
		v.DurationSeconds,
		v.UpdatedAt.UTC(),
		v.ID,
	)
	if isUniqueViolation(err) {
		return store.Conflict("provider asset already linked to another video")
	}
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound("video")
	}
	return nil
}

// DeleteVideo removes a video. Transcript and chapters cascade.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound("video")
	}
	return nil
}

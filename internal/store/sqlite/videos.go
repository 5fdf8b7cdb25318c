package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// videoColumns must match the scan order in scanVideo.
const videoColumns = `id, title, description, provider, provider_asset_id, playback_id,
	status, duration_seconds, created_at, updated_at`

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*domain.Video, error) {
	var (
		v          domain.Video
		assetID    sql.NullString
		playbackID sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&v.ID,
		&v.Title,
		&v.Description,
		&v.Provider,
		&assetID,
		&playbackID,
		&v.Status,
		&v.DurationSeconds,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.ProviderAssetID = assetID.String
	v.PlaybackID = playbackID.String
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVideo inserts a new video.
// Returns store.ErrAlreadyExists on a duplicate ID or provider asset.
func (s *Store) CreateVideo(ctx context.Context, v *domain.Video) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.Title,
		v.Description,
		string(v.Provider),
		nullString(v.ProviderAssetID),
		nullString(v.PlaybackID),
		string(v.Status),
		v.DurationSeconds,
		formatTime(v.CreatedAt),
		formatTime(v.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.Conflict("video already exists")
	}
	return err
}

// GetVideo retrieves a video by its ID.
// Returns store.ErrNotFound if the video does not exist.
func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound("video")
	}
	return v, err
}

// GetVideoByProviderAsset finds the video backed by a provider asset.
func (s *Store) GetVideoByProviderAsset(ctx context.Context, provider domain.Provider, assetID string) (*domain.Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE provider = ? AND provider_asset_id = ?`,
		string(provider), assetID)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	if params.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(params.Status))
	}
	if pos != nil {
		where = append(where, "(created_at < ? OR (created_at = ? AND id < ?))")
		ts := formatTime(pos.CreatedAt)
		args = append(args, ts, ts, pos.ID)
	}

	query := `SELECT ` + videoColumns + ` FROM videos`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
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
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET
			title = ?, description = ?, provider = ?, provider_asset_id = ?,
			playback_id = ?, status = ?, duration_seconds = ?, updated_at = ?
		WHERE id = ?`,
		v.Title,
		v.Description,
		string(v.Provider),
		nullString(v.ProviderAssetID),
		nullString(v.PlaybackID),
		string(v.Status),
		v.DurationSeconds,
		formatTime(v.UpdatedAt),
		v.ID,
	)
	if isUniqueViolation(err) {
		return store.Conflict("provider asset already linked to another video")
	}
	if err != nil {
		return err
	}
	return requireAffected(res, "video not found")
}

// DeleteVideo removes a video. Transcript and chapters cascade.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "video not found")
}

func requireAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(msg)
	}
	return nil
}
